package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/domain/reports"
)

func TestDailyTotalsQuery(t *testing.T) {
	repo := NewReportRepo(nil)
	day := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)

	sql, args, err := repo.dailyTotalsQuery(reports.DailySalesFilter{Date: day, TransactionType: "ONLINE"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COUNT(*) AS bill_count, COALESCE(SUM(b.total), 0) AS total_revenue FROM bill b "+
			"WHERE (b.date_time >= $1 AND b.date_time < $2) AND b.transaction_type = $3",
		sql)
	require.Len(t, args, 3)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), args[0])
	assert.Equal(t, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), args[1])
	assert.Equal(t, "ONLINE", args[2])
}

func TestDailyItemsQuery_BestSellersFirst(t *testing.T) {
	repo := NewReportRepo(nil)
	sql, args, err := repo.dailyItemsQuery(reports.DailySalesFilter{Date: time.Now()}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "GROUP BY bi.item_code ORDER BY quantity DESC, bi.item_code")
	assert.NotContains(t, sql, "transaction_type")
	assert.Len(t, args, 2)
}

func TestReorderQuery_CountsMissingShelfAsZero(t *testing.T) {
	sql, args, err := NewReportRepo(nil).reorderQuery().ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, sql, "LEFT JOIN channel_stock s ON s.item_id = i.id AND s.channel = 'SHELF'")
	assert.Contains(t, sql, "WHERE COALESCE(s.quantity, 0) < i.reorder_level")
}
