package sale

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/numerator"
	"synexpos/internal/core/tx"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
	"synexpos/pkg/logger"
)

// Service runs the checkout workflow.
type Service struct {
	items     ItemFinder
	stock     StockReserver
	bills     bill.Repository
	serials   numerator.Generator
	serialCfg numerator.Config
	serialOpt *numerator.Options
	gateway   PaymentGateway
	printer   Printer
	txManager tx.Manager
	events    domain.EventPublisher
	audit     domain.AuditRecorder
	now       func() time.Time
}

// Deps groups the collaborators of the sale service.
type Deps struct {
	Items     ItemFinder
	Stock     StockReserver
	Bills     bill.Repository
	Serials   numerator.Generator
	Gateway   PaymentGateway
	Printer   Printer
	TxManager tx.Manager
	Events    domain.EventPublisher
	Audit     domain.AuditRecorder
}

// NewService creates a new sale service numbering bills with
// numerator.BillSerialConfig.
func NewService(d Deps) *Service {
	return &Service{
		items:     d.Items,
		stock:     d.Stock,
		bills:     d.Bills,
		serials:   d.Serials,
		serialCfg: numerator.BillSerialConfig(),
		serialOpt: numerator.DefaultOptions(),
		gateway:   d.Gateway,
		printer:   d.Printer,
		txManager: d.TxManager,
		events:    d.Events,
		audit:     d.Audit,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for bill timestamps and serials.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithSerialOptions selects the numbering strategy for bill serials.
func (s *Service) WithSerialOptions(opts *numerator.Options) *Service {
	s.serialOpt = opts
	return s
}

// Process prices the cart, checks stock, takes payment, stores the bill and
// decrements the channel pool in one unit of work. The receipt is printed
// after commit.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	channel := ChannelFor(req.TransactionType)

	var issued *bill.Bill
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		resolved, err := s.resolve(ctx, req.Lines)
		if err != nil {
			return err
		}

		pools, err := s.reserve(ctx, resolved, channel)
		if err != nil {
			return err
		}

		now := s.now()
		serial, err := s.serials.GetNextNumber(ctx, s.serialCfg, s.serialOpt, now)
		if err != nil {
			return fmt.Errorf("next bill serial: %w", err)
		}

		b, err := s.build(req, resolved, serial, now)
		if err != nil {
			return err
		}

		if err := s.collectPayment(ctx, req, b); err != nil {
			return err
		}

		if err := s.bills.Save(ctx, b); err != nil {
			return fmt.Errorf("save bill: %w", err)
		}

		for _, r := range pools {
			if err := s.stock.Deduct(ctx, r.pool, r.quantity); err != nil {
				return err
			}
		}

		billID := strconv.FormatInt(b.ID(), 10)
		if err := s.audit.Record(ctx, "bill", billID, domain.AuditActionSale, b.Snapshot()); err != nil {
			return err
		}
		issued = b
		return s.events.Publish(ctx, domain.Event{
			AggregateType: "bill",
			AggregateID:   billID,
			EventType:     domain.EventSaleCompleted,
			Payload: map[string]any{
				"serial_number":    b.SerialNumber(),
				"transaction_type": string(b.TransactionType()),
				"total":            b.Total().Fixed(),
				"quantity":         b.TotalQuantity(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale completed",
		"serial_number", issued.SerialNumber(),
		"transaction_type", issued.TransactionType(),
		"total", issued.Total().Fixed(),
	)

	result := &Result{Bill: issued}
	if s.printer != nil {
		if err := s.printer.Print(ctx, issued); err != nil {
			logger.Warn(ctx, "receipt printing failed", "serial_number", issued.SerialNumber(), "error", err)
			result.PrintError = apperror.NewPrintFailed(issued.SerialNumber(), err)
		}
	}
	return result, nil
}

// Preview prices the cart and applies the manual discount. It does not check
// availability, take payment or store anything.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	if len(req.Lines) == 0 {
		return nil, apperror.NewValidation("cart is empty").WithDetail("field", "lines")
	}
	if req.Discount.IsNegative() {
		return nil, apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}

	resolved, err := s.resolve(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	items := make([]bill.BillItem, 0, len(resolved))
	for _, r := range resolved {
		bi, err := bill.NewBillItem(r.item, r.quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, bi)
	}
	totals := bill.ComputeTotals(items, req.Discount)
	if totals.Total.IsNegative() {
		return nil, discountExceedsSubtotal(totals.Subtotal, req.Discount)
	}
	return &Preview{Items: items, Totals: totals}, nil
}

type resolvedLine struct {
	item     *item.Item
	quantity int
}

// resolve looks up every requested code, in cart order.
func (s *Service) resolve(ctx context.Context, lines []Line) ([]resolvedLine, error) {
	out := make([]resolvedLine, 0, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperror.NewValidation("quantity must be positive").
				WithDetail("line", i).
				WithDetail("item_code", l.ItemCode).
				WithDetail("value", l.Quantity)
		}
		code, err := item.ParseItemCode(l.ItemCode)
		if err != nil {
			return nil, err
		}
		it, err := s.items.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		out = append(out, resolvedLine{item: it, quantity: l.Quantity})
	}
	return out, nil
}

type reservation struct {
	pool     *stock.ChannelStock
	quantity int
}

// reserve locks one pool row per distinct item and checks the summed cart
// quantity against it, so a code repeated across lines cannot overdraw.
// Rows are locked in item ID order whatever the cart order, so two carts
// holding the same items cannot deadlock each other.
func (s *Service) reserve(ctx context.Context, lines []resolvedLine, channel stock.Channel) ([]reservation, error) {
	order := make([]int64, 0, len(lines))
	wanted := make(map[int64]int, len(lines))
	byID := make(map[int64]*item.Item, len(lines))
	for _, l := range lines {
		id := l.item.ID()
		if _, seen := wanted[id]; !seen {
			order = append(order, id)
			byID[id] = l.item
		}
		wanted[id] += l.quantity
	}
	slices.Sort(order)

	out := make([]reservation, 0, len(order))
	for _, id := range order {
		pool, err := s.stock.ReserveForSale(ctx, byID[id], channel, wanted[id])
		if err != nil {
			return nil, err
		}
		out = append(out, reservation{pool: pool, quantity: wanted[id]})
	}
	return out, nil
}

func (s *Service) build(req Request, lines []resolvedLine, serial string, now time.Time) (*bill.Bill, error) {
	b := bill.NewBuilder().
		SerialNumber(serial).
		DateTime(now).
		TransactionType(req.TransactionType).
		Customer(req.CustomerID, req.CustomerName).
		PaymentMethod(req.PaymentMethod).
		Discount(req.Discount)
	if req.PaymentMethod == bill.PaymentCash && req.CashTendered != nil {
		b.CashTendered(*req.CashTendered)
	}
	for _, l := range lines {
		bi, err := bill.NewBillItem(l.item, l.quantity)
		if err != nil {
			return nil, err
		}
		b.AddItem(bi)
	}

	built, err := b.Build()
	if err != nil {
		return nil, err
	}
	if built.Total().IsNegative() {
		return nil, discountExceedsSubtotal(built.Subtotal(), built.Discount())
	}
	return built, nil
}

func discountExceedsSubtotal(subtotal, discount types.Money) error {
	return apperror.NewValidation("discount exceeds subtotal").
		WithDetail("field", "discount").
		WithDetail("subtotal", subtotal.Fixed()).
		WithDetail("discount", discount.Fixed())
}

func (s *Service) collectPayment(ctx context.Context, req Request, b *bill.Bill) error {
	if req.PaymentMethod == bill.PaymentCash {
		cash, _ := b.CashTendered()
		if cash.LessThan(b.Total()) {
			return apperror.NewInsufficientCash(b.Total().String(), cash.String())
		}
		return nil
	}

	ok, err := s.gateway.ProcessPayment(ctx, b.Total(), req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		return fmt.Errorf("process payment: %w", err)
	}
	if !ok {
		return apperror.NewPaymentDeclined(req.PaymentMethod.DisplayName())
	}
	return nil
}

func validateRequest(req Request) error {
	if len(req.Lines) == 0 {
		return apperror.NewValidation("cart is empty").WithDetail("field", "lines")
	}
	if !req.TransactionType.IsValid() {
		return apperror.NewValidation("unknown transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", string(req.TransactionType))
	}
	if !req.PaymentMethod.IsValid() {
		return apperror.NewValidation("unknown payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", string(req.PaymentMethod))
	}
	if req.PaymentMethod == bill.PaymentCash && req.CashTendered == nil {
		return apperror.NewValidation("cash tendered is required for cash payments").
			WithDetail("field", "cashTendered")
	}
	if req.CashTendered != nil && req.CashTendered.IsNegative() {
		return apperror.NewValidation("cash tendered cannot be negative").
			WithDetail("field", "cashTendered")
	}
	if req.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}
	return nil
}
