package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "synexpos/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier keeps one counter per key and understands the two
// statements the service issues.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	key := args[0].(string)
	if len(args) == 2 {
		m.values[key] += args[1].(int64)
	} else {
		m.values[key]++
	}
	return &mockRow{val: m.values[key]}
}

var june1 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func TestGetNextNumber_StrictBillSerial(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.BillSerialConfig()

	num, err := svc.GetNextNumber(ctx, cfg, nil, june1)
	require.NoError(t, err)
	assert.Equal(t, "20260601-000001", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, june1)
	require.NoError(t, err)
	assert.Equal(t, "20260601-000002", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, june1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "20260602-000001", num)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	num, err := svc.GetNextNumber(ctx, cfg, opts, june1)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00001", num)
	assert.Equal(t, int64(10), q.values["ORD_2026"])

	num, err = svc.GetNextNumber(ctx, cfg, opts, june1)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00002", num)
	assert.Equal(t, 1, q.calls)

	for i := 0; i < 8; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, june1)
		require.NoError(t, err)
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, june1)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00011", num)
	assert.Equal(t, int64(20), q.values["ORD_2026"])
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_PropagatesErrors(t *testing.T) {
	svc := New(errQuerier{})
	_, err := svc.GetNextNumber(context.Background(), corenumerator.BillSerialConfig(), nil, june1)
	assert.ErrorContains(t, err, "strict next")
}

type errQuerier struct{}

func (errQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return &mockRow{err: assert.AnError}
}
