package dto

import "synexpos/internal/domain/catalogs/customer"

// RegisterCustomerRequest records a walk-in customer at the counter.
type RegisterCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// CustomerSearchRequest looks customers up by name.
type CustomerSearchRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CustomerResponse represents a walk-in customer.
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// FromCustomer converts entity to response DTO.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone}
}

// OnlineCustomerResponse represents a registered online customer.
type OnlineCustomerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}

// FromOnlineCustomer converts entity to response DTO.
func FromOnlineCustomer(c *customer.OnlineCustomer) OnlineCustomerResponse {
	return OnlineCustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.Address}
}
