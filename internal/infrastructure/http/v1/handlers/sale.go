package handlers

import (
	"github.com/gin-gonic/gin"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/domain/sale"
	"synexpos/internal/infrastructure/http/v1/dto"
)

// SaleHandler runs checkouts and cart previews.
type SaleHandler struct {
	*BaseHandler
	sales     *sale.Service
	customers *customer.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, sales *sale.Service, customers *customer.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, sales: sales, customers: customers}
}

// Counter handles POST /sales/counter
func (h *SaleHandler) Counter(c *gin.Context) {
	var req dto.CounterSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	saleReq := req.ToRequest()
	if req.CustomerPhone != "" {
		cust, err := h.customers.FindOrRegister(ctx, req.CustomerName, req.CustomerPhone)
		if err != nil {
			h.Error(c, err)
			return
		}
		saleReq.CustomerID = &cust.ID
		saleReq.CustomerName = cust.Name
	}

	h.process(c, saleReq)
}

// Online handles POST /sales/online. An online customer's orders are
// attributed to their account.
func (h *SaleHandler) Online(c *gin.Context) {
	var req dto.OnlineSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	saleReq := req.ToRequest()
	if user := h.User(c); user != nil && user.Role == auth.RoleOnlineCustomer {
		if user.CustomerID == 0 {
			h.Error(c, apperror.NewForbidden("token carries no customer"))
			return
		}
		customerID := user.CustomerID
		saleReq.CustomerID = &customerID
		saleReq.CustomerName = user.Username
	}

	h.process(c, saleReq)
}

func (h *SaleHandler) process(c *gin.Context, req sale.Request) {
	result, err := h.sales.Process(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromSaleResult(result))
}

// Preview handles POST /sales/preview. Nothing is stored.
func (h *SaleHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.sales.Preview(c.Request.Context(), req.ToRequest())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPreview(preview))
}
