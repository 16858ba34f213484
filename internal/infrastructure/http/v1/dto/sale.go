package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/sale"
)

// SaleLineRequest is one cart entry.
type SaleLineRequest struct {
	ItemCode string `json:"itemCode" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

func toLines(in []SaleLineRequest) []sale.Line {
	out := make([]sale.Line, 0, len(in))
	for _, l := range in {
		out = append(out, sale.Line{ItemCode: l.ItemCode, Quantity: l.Quantity})
	}
	return out
}

func moneyOrZero(m *types.Money) types.Money {
	if m == nil {
		return types.ZeroMoney()
	}
	return *m
}

// CounterSaleRequest is a checkout at the till. A walk-in customer is
// looked up or registered by phone when both name and phone are given.
type CounterSaleRequest struct {
	Lines          []SaleLineRequest  `json:"lines" binding:"required,min=1,dive"`
	CustomerName   string             `json:"customerName"`
	CustomerPhone  string             `json:"customerPhone"`
	PaymentMethod  bill.PaymentMethod `json:"paymentMethod" binding:"required"`
	CashTendered   *types.Money       `json:"cashTendered"`
	Discount       *types.Money       `json:"discount"`
	PaymentDetails map[string]string  `json:"paymentDetails"`
}

// ToRequest converts DTO to a counter sale request.
func (r *CounterSaleRequest) ToRequest() sale.Request {
	return sale.Request{
		Lines:           toLines(r.Lines),
		TransactionType: bill.TransactionCounter,
		CustomerName:    r.CustomerName,
		PaymentMethod:   r.PaymentMethod,
		CashTendered:    r.CashTendered,
		Discount:        moneyOrZero(r.Discount),
		PaymentDetails:  r.PaymentDetails,
	}
}

// OnlineSaleRequest is a web shop order. Online orders are never paid in
// cash and carry no manual discount.
type OnlineSaleRequest struct {
	Lines          []SaleLineRequest  `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod  bill.PaymentMethod `json:"paymentMethod" binding:"required"`
	PaymentDetails map[string]string  `json:"paymentDetails"`
}

// ToRequest converts DTO to an online sale request.
func (r *OnlineSaleRequest) ToRequest() sale.Request {
	return sale.Request{
		Lines:           toLines(r.Lines),
		TransactionType: bill.TransactionOnline,
		PaymentMethod:   r.PaymentMethod,
		Discount:        types.ZeroMoney(),
		PaymentDetails:  r.PaymentDetails,
	}
}

// PreviewRequest prices a cart.
type PreviewRequest struct {
	Lines    []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount *types.Money      `json:"discount"`
}

// ToRequest converts DTO to a preview request.
func (r *PreviewRequest) ToRequest() sale.PreviewRequest {
	return sale.PreviewRequest{Lines: toLines(r.Lines), Discount: moneyOrZero(r.Discount)}
}

// BillItemResponse is one invoice line.
type BillItemResponse struct {
	ItemCode   string          `json:"itemCode"`
	ItemName   string          `json:"itemName"`
	Quantity   int             `json:"quantity"`
	UnitPrice  types.Money     `json:"unitPrice"`
	Discount   decimal.Decimal `json:"discount"`
	TotalPrice types.Money     `json:"totalPrice"`
}

// FromBillItems converts invoice lines.
func FromBillItems(items []bill.BillItem) []BillItemResponse {
	out := make([]BillItemResponse, 0, len(items))
	for _, bi := range items {
		out = append(out, BillItemResponse{
			ItemCode:   bi.ItemCode().String(),
			ItemName:   bi.ItemName(),
			Quantity:   bi.Quantity(),
			UnitPrice:  bi.UnitPrice(),
			Discount:   bi.Discount(),
			TotalPrice: bi.TotalPrice(),
		})
	}
	return out
}

// BillResponse represents an issued invoice.
type BillResponse struct {
	ID              int64                `json:"id"`
	SerialNumber    string               `json:"serialNumber"`
	DateTime        time.Time            `json:"dateTime"`
	TransactionType bill.TransactionType `json:"transactionType"`
	CustomerID      *int64               `json:"customerId,omitempty"`
	CustomerName    string               `json:"customerName,omitempty"`
	PaymentMethod   bill.PaymentMethod   `json:"paymentMethod"`
	Items           []BillItemResponse   `json:"items"`
	Subtotal        types.Money          `json:"subtotal"`
	Discount        types.Money          `json:"discount"`
	Total           types.Money          `json:"total"`
	CashTendered    *types.Money         `json:"cashTendered,omitempty"`
	Change          *types.Money         `json:"change,omitempty"`
}

// FromBill converts entity to response DTO.
func FromBill(b *bill.Bill) BillResponse {
	resp := BillResponse{
		ID:              b.ID(),
		SerialNumber:    b.SerialNumber(),
		DateTime:        b.DateTime(),
		TransactionType: b.TransactionType(),
		CustomerName:    b.CustomerName(),
		PaymentMethod:   b.PaymentMethod(),
		Items:           FromBillItems(b.Items()),
		Subtotal:        b.Subtotal(),
		Discount:        b.Discount(),
		Total:           b.Total(),
	}
	if id, ok := b.CustomerID(); ok {
		resp.CustomerID = &id
	}
	if cash, ok := b.CashTendered(); ok {
		resp.CashTendered = &cash
	}
	if change, ok := b.Change(); ok {
		resp.Change = &change
	}
	return resp
}

// FromBills converts a list of invoices.
func FromBills(bills []*bill.Bill) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, FromBill(b))
	}
	return out
}

// SaleResponse is a committed sale. PrintError is set when the receipt
// failed; the sale itself stands.
type SaleResponse struct {
	Bill       BillResponse `json:"bill"`
	PrintError string       `json:"printError,omitempty"`
}

// FromSaleResult converts a sale result.
func FromSaleResult(r *sale.Result) SaleResponse {
	resp := SaleResponse{Bill: FromBill(r.Bill)}
	if r.PrintError != nil {
		resp.PrintError = r.PrintError.Error()
	}
	return resp
}

// PreviewResponse is the priced cart.
type PreviewResponse struct {
	Items    []BillItemResponse `json:"items"`
	Subtotal types.Money        `json:"subtotal"`
	Discount types.Money        `json:"discount"`
	Total    types.Money        `json:"total"`
}

// FromPreview converts a preview.
func FromPreview(p *sale.Preview) PreviewResponse {
	return PreviewResponse{
		Items:    FromBillItems(p.Items),
		Subtotal: p.Totals.Subtotal,
		Discount: p.Totals.Discount,
		Total:    p.Totals.Total,
	}
}

// BillRangeRequest selects bills by day range.
type BillRangeRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// BillQueryRequest lists bills of one day, optionally of one channel, or
// of a day range when date is absent.
type BillQueryRequest struct {
	Date            string `form:"date"`
	TransactionType string `form:"transactionType"`
	From            string `form:"from"`
	To              string `form:"to"`
}
