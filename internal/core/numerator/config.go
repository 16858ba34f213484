// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"strings"
	"time"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict increments the stored counter for every number inside
	// the caller's transaction. Numbers are gapless per period.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers in memory.
	// Faster, but a restart leaves gaps.
	StrategyCached
)

// ParseStrategy maps "strict" and "cached" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return StrategyStrict, nil
	case "cached":
		return StrategyCached, nil
	default:
		return StrategyStrict, fmt.Errorf("unknown numbering strategy %q", s)
	}
}

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Reset periods.
const (
	ResetDay   = "day"
	ResetMonth = "month"
	ResetYear  = "year"
	ResetNever = "never"
)

// Config holds numbering configuration.
type Config struct {
	// Name identifies the counter. Defaults to Prefix.
	Name string

	// Prefix printed in front of the number (e.g. "INV"). May be empty.
	Prefix string

	// DateLayout, when set, embeds the period formatted with this Go layout.
	DateLayout string

	// PadWidth is the minimum width of the counter (default 5)
	PadWidth int

	// ResetPeriod: "day", "month", "year", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Name:        prefix,
		Prefix:      prefix,
		DateLayout:  "2006",
		PadWidth:    5,
		ResetPeriod: ResetYear,
	}
}

// BillSerialConfig numbers bills as YYYYMMDD-NNNNNN, restarting every day.
func BillSerialConfig() Config {
	return Config{
		Name:        "bill",
		DateLayout:  "20060102",
		PadWidth:    6,
		ResetPeriod: ResetDay,
	}
}

// Key returns the counter key for the period.
func (c Config) Key(period time.Time) string {
	name := c.Name
	if name == "" {
		name = c.Prefix
	}
	switch c.ResetPeriod {
	case ResetDay:
		return name + "_" + period.Format("2006_01_02")
	case ResetMonth:
		return name + "_" + period.Format("2006_01")
	case ResetYear:
		return name + "_" + period.Format("2006")
	default:
		return name
	}
}

// Format renders counter value num for the period.
func (c Config) Format(period time.Time, num int64) string {
	pad := c.PadWidth
	if pad <= 0 {
		pad = 5
	}

	parts := make([]string, 0, 3)
	if c.Prefix != "" {
		parts = append(parts, c.Prefix)
	}
	if c.DateLayout != "" {
		parts = append(parts, period.Format(c.DateLayout))
	}
	parts = append(parts, fmt.Sprintf("%0*d", pad, num))
	return strings.Join(parts, "-")
}
