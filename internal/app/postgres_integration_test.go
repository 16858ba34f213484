package app_test

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/app"
	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/domain/sale"
	"synexpos/internal/infrastructure/payment"
	"synexpos/internal/infrastructure/storage/postgres"
)

// postgresTx connects to DATABASE_URL and skips when it is unset.
func postgresTx(t *testing.T) *postgres.TxManager {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool.Pool))
	return postgres.NewTxManager(pool)
}

func postgresServices(t *testing.T) *app.Services {
	t.Helper()
	repos, err := app.PostgresRepositories(postgresTx(t))
	require.NoError(t, err)
	return app.NewServices(repos, app.Options{
		JWT:     auth.DefaultJWTConfig("integration-test-secret"),
		Auth:    auth.DefaultServiceConfig(),
		Gateway: payment.NewMockGateway(),
	})
}

// stockedItem creates an item with a unique code and puts qty on the shelf.
func stockedItem(t *testing.T, svc *app.Services, qty int) string {
	t.Helper()
	ctx := context.Background()
	code := "IT-" + strings.ToUpper(uuid.NewString()[:8])

	_, err := svc.Items.Create(ctx, item.CreateInput{
		Code:      code,
		Name:      "Integration " + code,
		UnitPrice: types.MustMoney("10.00"),
		Discount:  decimal.Zero,
	})
	require.NoError(t, err)

	expiry := time.Now().AddDate(0, 0, 60)
	_, err = svc.Stock.ReceiveStock(ctx, stock.ReceiveInput{
		ItemCode:     code,
		Quantity:     qty,
		PurchaseDate: time.Now(),
		ExpiryDate:   &expiry,
	})
	require.NoError(t, err)
	_, err = svc.Stock.MoveToChannel(ctx, stock.MoveInput{ItemCode: code, Quantity: qty, Channel: stock.ChannelShelf})
	require.NoError(t, err)
	return code
}

func cardSale(codes ...string) sale.Request {
	lines := make([]sale.Line, 0, len(codes))
	for _, c := range codes {
		lines = append(lines, sale.Line{ItemCode: c, Quantity: 1})
	}
	return sale.Request{
		Lines:           lines,
		TransactionType: bill.TransactionCounter,
		PaymentMethod:   bill.PaymentCreditCard,
	}
}

func shelfLevel(t *testing.T, svc *app.Services, code string) int {
	t.Helper()
	levels, err := svc.Stock.ChannelLevels(context.Background(), stock.ChannelShelf)
	require.NoError(t, err)
	for _, l := range levels {
		if l.ItemCode.String() == code {
			return l.Quantity()
		}
	}
	return 0
}

func TestPostgres_ConcurrentSalesNeverOverdraw(t *testing.T) {
	svc := postgresServices(t)
	code := stockedItem(t, svc, 3)

	const buyers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
		other     []error
	)
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Sales.Process(context.Background(), cardSale(code))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.Is(err, apperror.CodeInsufficientStock):
				short++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, buyers-3, short)
	assert.Equal(t, 0, shelfLevel(t, svc, code))
}

func TestPostgres_CrossedCartsDoNotDeadlock(t *testing.T) {
	svc := postgresServices(t)
	a := stockedItem(t, svc, 50)
	b := stockedItem(t, svc, 50)

	const rounds = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := range rounds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := cardSale(a, b)
			if i%2 == 1 {
				req = cardSale(b, a)
			}
			if _, err := svc.Sales.Process(context.Background(), req); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 50-rounds, shelfLevel(t, svc, a))
	assert.Equal(t, 50-rounds, shelfLevel(t, svc, b))
}

func appMessage(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, apperror.CodeIdempotency, appErr.Code)
	return appErr.Message
}

func TestPostgres_IdempotencyKeyLifecycle(t *testing.T) {
	store := postgres.NewIdempotencyStore(postgresTx(t), time.Hour)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	replay, err := store.AcquireKey(ctx, key, "7", "POST /sales", "hash-a")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = store.AcquireKey(ctx, key, "7", "POST /sales", "hash-a")
	assert.Equal(t, apperror.NewIdempotencyConflict(key).Message, appMessage(t, err))

	_, err = store.AcquireKey(ctx, key, "7", "POST /sales", "hash-b")
	assert.Equal(t, apperror.NewIdempotencyMismatch(key).Message, appMessage(t, err))

	require.NoError(t, store.CompleteKey(ctx, key, http.StatusCreated, "application/json", map[string]string{"serial": "S1"}))

	replay, err = store.AcquireKey(ctx, key, "7", "POST /sales", "hash-a")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, http.StatusCreated, replay.StatusCode)
	assert.JSONEq(t, `{"serial":"S1"}`, string(replay.Body))
}

func TestPostgres_ItemHistoryReadsBackAudit(t *testing.T) {
	svc := postgresServices(t)
	ctx := context.Background()
	code := stockedItem(t, svc, 1)

	price := types.MustMoney("12.50")
	_, err := svc.Items.Update(ctx, code, item.UpdateInput{UnitPrice: &price})
	require.NoError(t, err)

	history, err := svc.Items.History(ctx, code, 10)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, domain.AuditActionUpdate, history[0].Action)
	assert.Equal(t, map[string]any{"old": "10.00", "new": "12.50"}, history[0].Changes["unit_price"])
}
