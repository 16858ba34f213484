package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillSerialConfig(t *testing.T) {
	cfg := BillSerialConfig()
	day := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "20260601-000001", cfg.Format(day, 1))
	assert.Equal(t, "20260601-123456", cfg.Format(day, 123456))
	assert.Equal(t, "bill_2026_06_01", cfg.Key(day))
	assert.NotEqual(t, cfg.Key(day), cfg.Key(day.AddDate(0, 0, 1)))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("INV")
	period := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-2026-00042", cfg.Format(period, 42))
	assert.Equal(t, "INV_2026", cfg.Key(period))

	cfg.ResetPeriod = ResetNever
	assert.Equal(t, "INV", cfg.Key(period))
	cfg.ResetPeriod = ResetMonth
	assert.Equal(t, "INV_2026_03", cfg.Key(period))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Cached")
	require.NoError(t, err)
	assert.Equal(t, StrategyCached, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, s)

	_, err = ParseStrategy("random")
	assert.Error(t, err)
}

func TestMockGenerator_CountsPerDay(t *testing.T) {
	gen := &MockGenerator{}
	cfg := BillSerialConfig()
	ctx := context.Background()
	d1 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	n, _ := gen.GetNextNumber(ctx, cfg, nil, d1)
	assert.Equal(t, "20260601-000001", n)
	n, _ = gen.GetNextNumber(ctx, cfg, nil, d1)
	assert.Equal(t, "20260601-000002", n)
	n, _ = gen.GetNextNumber(ctx, cfg, nil, d2)
	assert.Equal(t, "20260602-000001", n)
}
