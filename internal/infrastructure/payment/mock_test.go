package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/documents/bill"
)

func TestMockGateway(t *testing.T) {
	ctx := context.Background()
	g := NewMockGateway()
	amount := types.MustMoney("99.90")

	ok, err := g.ProcessPayment(ctx, amount, bill.PaymentCreditCard, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = g.ProcessPayment(ctx, amount, bill.PaymentCash, nil)
	assert.False(t, ok)

	g.Decline(bill.PaymentPayPal)
	ok, _ = g.ProcessPayment(ctx, amount, bill.PaymentPayPal, nil)
	assert.False(t, ok)

	assert.Equal(t, 3, g.Calls())

	verified, err := g.VerifyPayment(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, verified)
}
