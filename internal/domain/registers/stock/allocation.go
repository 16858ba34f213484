package stock

import (
	"sort"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
)

// NearExpiryWindow is how far ahead a batch counts as near expiry.
// Batches expiring strictly before today plus the window are shelved first.
const NearExpiryWindow = 30 * 24 * time.Hour

// Draw is the quantity taken from one batch by a replenishment.
type Draw struct {
	Batch    *StockBatch
	Quantity int
}

// SelectBatches picks the batches that supply qty units, in draw order:
//
//  1. batches with expiry inside the near-expiry window, earliest expiry first;
//  2. batches without expiry, oldest purchase first;
//  3. the remaining batches with expiry, earliest expiry first.
//
// Selection stops as soon as the selected batches cover qty. Batches with
// nothing remaining are ignored.
func SelectBatches(code item.ItemCode, batches []*StockBatch, qty int, today time.Time) ([]*StockBatch, error) {
	if qty <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}

	var withExpiry, withoutExpiry []*StockBatch
	for _, b := range batches {
		if b.quantityRemaining <= 0 {
			continue
		}
		if b.expiryDate != nil {
			withExpiry = append(withExpiry, b)
		} else {
			withoutExpiry = append(withoutExpiry, b)
		}
	}

	sort.SliceStable(withExpiry, func(i, j int) bool {
		a, b := withExpiry[i], withExpiry[j]
		if !a.expiryDate.Equal(*b.expiryDate) {
			return a.expiryDate.Before(*b.expiryDate)
		}
		return a.purchaseDate.Before(b.purchaseDate)
	})
	sort.SliceStable(withoutExpiry, func(i, j int) bool {
		return withoutExpiry[i].purchaseDate.Before(withoutExpiry[j].purchaseDate)
	})

	threshold := DateOnly(today).Add(NearExpiryWindow)
	selected := make([]*StockBatch, 0, len(batches))
	taken := make(map[*StockBatch]bool, len(batches))
	covered := 0

	take := func(b *StockBatch) {
		selected = append(selected, b)
		taken[b] = true
		covered += b.quantityRemaining
	}

	for _, b := range withExpiry {
		if covered >= qty {
			break
		}
		if b.expiryDate.Before(threshold) {
			take(b)
		}
	}
	for _, b := range withoutExpiry {
		if covered >= qty {
			break
		}
		take(b)
	}
	for _, b := range withExpiry {
		if covered >= qty {
			break
		}
		if !taken[b] {
			take(b)
		}
	}

	if covered < qty {
		return nil, apperror.NewInsufficientBatchStock(code.String(), qty, covered)
	}
	return selected, nil
}

// Drain takes qty units from the selected batches in order, each batch
// giving min(still needed, remaining). Batches are modified in place.
func Drain(selected []*StockBatch, qty int) ([]Draw, error) {
	draws := make([]Draw, 0, len(selected))
	needed := qty
	for _, b := range selected {
		if needed == 0 {
			break
		}
		take := min(needed, b.quantityRemaining)
		if take == 0 {
			continue
		}
		if err := b.ReduceStock(take); err != nil {
			return nil, err
		}
		draws = append(draws, Draw{Batch: b, Quantity: take})
		needed -= take
	}
	if needed > 0 {
		return nil, apperror.NewInsufficientBatchStock(codeOf(selected), qty, qty-needed)
	}
	return draws, nil
}

// Allocate selects and drains batches for qty units.
func Allocate(code item.ItemCode, batches []*StockBatch, qty int, today time.Time) ([]Draw, error) {
	selected, err := SelectBatches(code, batches, qty, today)
	if err != nil {
		return nil, err
	}
	return Drain(selected, qty)
}

func codeOf(batches []*StockBatch) string {
	if len(batches) == 0 {
		return ""
	}
	return batches[0].itemCode.String()
}
