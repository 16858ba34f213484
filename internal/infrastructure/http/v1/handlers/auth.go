package handlers

import (
	"github.com/gin-gonic/gin"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service   *auth.Service
	customers *customer.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service, customers *customer.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
		customers:   customers,
	}
}

// Register handles POST /auth/register (admin only).
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.ToAuthRequest())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.LoginResponse{Token: token, User: user})
}

// CustomerSignup handles POST /auth/customers/register
func (h *AuthHandler) CustomerSignup(c *gin.Context) {
	var req dto.CustomerSignupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	oc, err := h.customers.RegisterOnline(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromOnlineCustomer(oc))
}

// CustomerLogin handles POST /auth/customers/login
func (h *AuthHandler) CustomerLogin(c *gin.Context) {
	var req dto.CustomerLoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, oc, err := h.service.CustomerLogin(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.LoginResponse{Token: token, User: dto.FromOnlineCustomer(oc)})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := h.User(c)
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}
	h.OK(c, dto.MeResponse{
		UserID:     user.UserID,
		Username:   user.Username,
		Role:       user.Role,
		CustomerID: user.CustomerID,
	})
}
