package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{"unit_price": "100.00", "discount": "10", "name": "Rice"}
	newState := map[string]any{"unit_price": "120.00", "discount": "10", "reorder_level": 5}

	changes := Diff(oldState, newState)

	assert.Len(t, changes, 3)
	assert.Equal(t, map[string]any{"old": "100.00", "new": "120.00"}, changes["unit_price"])
	assert.Equal(t, map[string]any{"old": nil, "new": 5}, changes["reorder_level"])
	assert.Equal(t, map[string]any{"old": "Rice", "new": nil}, changes["name"])
	assert.NotContains(t, changes, "discount")
}

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Limit: 0, Offset: -3}.Normalize()
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = ListFilter{Limit: 20, Offset: 40}.Normalize()
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 40, f.Offset)
}
