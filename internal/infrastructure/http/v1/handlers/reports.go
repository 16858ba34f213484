package handlers

import (
	"github.com/gin-gonic/gin"

	"synexpos/internal/domain/reports"
	"synexpos/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// DailySales handles GET /reports/daily-sales?date=&transactionType=
func (h *ReportsHandler) DailySales(c *gin.Context) {
	var req dto.DailySalesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := reports.DailySalesFilter{TransactionType: req.TransactionType}
	if req.Date != "" {
		d, err := dto.ParseDate("date", req.Date)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.Date = d
	}

	report, err := h.service.DailySales(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Stock handles GET /reports/stock
func (h *ReportsHandler) Stock(c *gin.Context) {
	report, err := h.service.Stock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Reorder handles GET /reports/reorder
func (h *ReportsHandler) Reorder(c *gin.Context) {
	rows, err := h.service.Reorder(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// Bills handles GET /reports/bills?from=&to=
func (h *ReportsHandler) Bills(c *gin.Context) {
	var req dto.BillRangeRequest
	if !h.BindQuery(c, &req) {
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

	report, err := h.service.Bills(c.Request.Context(), reports.BillRangeFilter{From: from, To: to})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
