package handlers

import (
	"github.com/gin-gonic/gin"

	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves walk-in customer lookup at the counter.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// Register handles POST /customers. A known phone returns the existing
// customer.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req dto.RegisterCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.FindOrRegister(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomer(cust))
}

// Search handles GET /customers?q=
func (h *CustomerHandler) Search(c *gin.Context) {
	var req dto.CustomerSearchRequest
	if !h.BindQuery(c, &req) {
		return
	}

	found, err := h.service.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.CustomerResponse, 0, len(found))
	for _, cust := range found {
		out = append(out, dto.FromCustomer(cust))
	}
	h.OK(c, out)
}
