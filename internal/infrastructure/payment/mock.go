// Package payment provides the payment gateway used by the sale workflow.
// There is no real processor integration; MockGateway approves every
// non-cash payment unless told otherwise.
package payment

import (
	"context"
	"sync"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/sale"
	"synexpos/pkg/logger"
)

// MockGateway approves non-cash payments. Cash never reaches a gateway and
// is refused.
type MockGateway struct {
	mu       sync.Mutex
	declined map[bill.PaymentMethod]bool
	calls    int
}

var _ sale.PaymentGateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway {
	return &MockGateway{declined: make(map[bill.PaymentMethod]bool)}
}

// Decline makes every later payment with method fail.
func (g *MockGateway) Decline(method bill.PaymentMethod) *MockGateway {
	g.mu.Lock()
	g.declined[method] = true
	g.mu.Unlock()
	return g
}

// ProcessPayment implements sale.PaymentGateway.
func (g *MockGateway) ProcessPayment(ctx context.Context, amount types.Money, method bill.PaymentMethod, _ map[string]string) (bool, error) {
	g.mu.Lock()
	g.calls++
	declined := g.declined[method]
	g.mu.Unlock()

	approved := method != bill.PaymentCash && !declined
	logger.Info(ctx, "payment processed",
		"amount", amount.String(),
		"method", method.DisplayName(),
		"approved", approved,
	)
	return approved, nil
}

// VerifyPayment always confirms.
func (g *MockGateway) VerifyPayment(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// Calls returns how many payments were processed.
func (g *MockGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
