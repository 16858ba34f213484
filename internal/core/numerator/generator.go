// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
	"time"
)

// Generator generates sequential document numbers.
//
// A strict generator must run on the transaction found in ctx so that a
// rolled back sale also gives its number back.
type Generator interface {
	// GetNextNumber generates the next document number for the period,
	// e.g. 20260601-000001 for BillSerialConfig.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
}
