package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_OrderedAndComplete(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	versions := make([]string, 0, len(migrations))
	var all string
	for _, m := range migrations {
		versions = append(versions, m.Version)
		all += m.SQL
	}
	assert.Equal(t, []string{"0001_catalog", "0002_stock", "0003_bill", "0004_system"}, versions)

	for _, table := range []string{
		"item", "customer", "online_customer", "app_user",
		"stock_batch", "channel_stock", "bill", "bill_item",
		"sys_sequences", "sys_outbox", "sys_audit", "sys_idempotency",
	} {
		assert.Contains(t, all, "CREATE TABLE "+table+" (", table)
	}
}
