package memory

import (
	"context"
	"time"

	"synexpos/internal/core/numerator"
)

// Numerator keeps counters in the store, so a rolled back unit of work
// also rolls back its number. Every strategy behaves as strict.
type Numerator struct {
	store *Store
}

var _ numerator.Generator = (*Numerator)(nil)

func NewNumerator(store *Store) *Numerator {
	return &Numerator{store: store}
}

func (n *Numerator) GetNextNumber(ctx context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
	var out string
	err := n.store.view(ctx, func(st *state) error {
		key := cfg.Key(period)
		st.counters[key]++
		out = cfg.Format(period, st.counters[key])
		return nil
	})
	return out, err
}
