package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/infrastructure/http/v1/dto"
)

// ReceiptFormatter renders a bill as receipt text.
type ReceiptFormatter interface {
	Format(b *bill.Bill) string
}

// BillHandler serves issued bills and receipt reprints.
type BillHandler struct {
	*BaseHandler
	bills    bill.Repository
	receipts ReceiptFormatter
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(base *BaseHandler, bills bill.Repository, receipts ReceiptFormatter) *BillHandler {
	return &BillHandler{BaseHandler: base, bills: bills, receipts: receipts}
}

// Get handles GET /bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	billID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.bills.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBill(b))
}

// GetBySerial handles GET /bills/serial/:serial
func (h *BillHandler) GetBySerial(c *gin.Context) {
	b, err := h.bills.GetBySerialNumber(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBill(b))
}

// List handles GET /bills?date=&transactionType= and GET /bills?from=&to=&transactionType=
func (h *BillHandler) List(c *gin.Context) {
	var req dto.BillQueryRequest
	if !h.BindQuery(c, &req) {
		return
	}
	ctx := c.Request.Context()

	txType := bill.TransactionType(req.TransactionType)
	if txType != "" && !txType.IsValid() {
		h.Error(c, apperror.NewValidation("unknown transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", req.TransactionType))
		return
	}

	if req.Date != "" {
		day, err := dto.ParseDate("date", req.Date)
		if err != nil {
			h.Error(c, err)
			return
		}
		bills, err := h.bills.FindByDate(ctx, day, txType)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.FromBills(bills))
		return
	}

	if req.From == "" || req.To == "" {
		h.Error(c, apperror.NewValidation("date or from and to are required"))
		return
	}
	from, err := dto.ParseDate("from", req.From)
	if err != nil {
		h.Error(c, err)
		return
	}
	to, err := dto.ParseDate("to", req.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	if from.After(to) {
		h.Error(c, apperror.NewValidation("from must not be after to"))
		return
	}

	bills, err := h.bills.FindByDateRange(ctx, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	if txType != "" {
		filtered := bills[:0]
		for _, b := range bills {
			if b.TransactionType() == txType {
				filtered = append(filtered, b)
			}
		}
		bills = filtered
	}
	h.OK(c, dto.FromBills(bills))
}

// Receipt handles GET /bills/serial/:serial/receipt and returns the receipt
// text for a reprint.
func (h *BillHandler) Receipt(c *gin.Context) {
	b, err := h.bills.GetBySerialNumber(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if h.receipts == nil {
		h.Error(c, apperror.NewInternal(errors.New("receipt printer is not configured")))
		return
	}
	c.String(http.StatusOK, h.receipts.Format(b))
}
