package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type AuditedRow struct {
	CreatedAt time.Time `db:"created_at"`
}

type sampleRow struct {
	ID   int64  `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
	AuditedRow
	Skipped string `db:"-"`
	Plain   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()

	assert.Equal(t, []string{"id", "code", "name", "created_at"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := sampleRow{ID: 7, Code: "SKU1", Name: "Rice", AuditedRow: AuditedRow{CreatedAt: now}, Plain: "x"}

	m := StructToMap(row)
	assert.Equal(t, map[string]any{"id": int64(7), "code": "SKU1", "name": "Rice", "created_at": now}, m)

	m = StructToMap(&row, "id")
	assert.NotContains(t, m, "id")
	assert.Equal(t, "SKU1", m["code"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
