package register_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSelect_LocksBatchRowsOnly(t *testing.T) {
	repo := NewStockRepo(nil)
	sql, args, err := repo.batchSelect().
		Where(squirrel.Eq{"b.item_id": int64(7)}).
		OrderBy("b.purchase_date", "b.id").
		Suffix("FOR UPDATE OF b").
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT b.id, b.item_id, i.code AS item_code, b.quantity_received, b.quantity_remaining, b.purchase_date, b.expiry_date "+
			"FROM stock_batch b JOIN item i ON i.id = b.item_id WHERE b.item_id = $1 ORDER BY b.purchase_date, b.id FOR UPDATE OF b",
		sql)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestChannelSelect(t *testing.T) {
	repo := NewStockRepo(nil)
	sql, args, err := repo.channelSelect().
		Where(squirrel.Eq{"c.channel": "SHELF"}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT c.item_id, i.code AS item_code, c.channel, c.quantity, c.updated_at FROM channel_stock c JOIN item i ON i.id = c.item_id WHERE c.channel = $1",
		sql)
	assert.Equal(t, []any{"SHELF"}, args)
}
