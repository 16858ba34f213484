package postgres

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_CompressLargeChanges(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	lines := make([]map[string]any, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, map[string]any{"item_code": "SKU", "quantity": i, "total": "100.00"})
	}
	payload, err := json.Marshal(map[string]any{"items": lines})
	require.NoError(t, err)

	entry := AuditEntry{Changes: payload}
	svc.compress(&entry)

	assert.Equal(t, CompressionZstd, entry.CompressionAlgo)
	assert.Nil(t, []byte(entry.Changes))
	assert.Less(t, len(entry.ChangesCompressed), len(payload))

	rec, err := svc.toRecord(&entry)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, entry.Changes))
	require.Len(t, rec.Changes["items"], 200)
}

func TestAuditService_SmallChangesStayPlain(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	entry := AuditEntry{Changes: json.RawMessage(`{"quantity":3}`)}
	svc.compress(&entry)

	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.Nil(t, entry.ChangesCompressed)
	assert.JSONEq(t, `{"quantity":3}`, string(entry.Changes))
}

func TestAuditService_ToRecordWithoutChanges(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	rec, err := svc.toRecord(&AuditEntry{EntityType: "item", EntityID: "TEA", Action: "update", CompressionAlgo: CompressionNone})
	require.NoError(t, err)
	assert.Equal(t, "TEA", rec.EntityID)
	assert.Nil(t, rec.Changes)
}
