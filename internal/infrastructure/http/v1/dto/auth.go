package dto

import (
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/customer"
)

// RegisterRequest creates a staff account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Role     string `json:"role" binding:"required"`
}

// ToAuthRequest converts to domain request.
func (r *RegisterRequest) ToAuthRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
		Role:     r.Role,
	}
}

// LoginRequest for staff login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Username: r.Username, Password: r.Password}
}

// CustomerLoginRequest for online customer login.
type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *CustomerLoginRequest) ToCredentials() auth.CustomerCredentials {
	return auth.CustomerCredentials{Email: r.Email, Password: r.Password}
}

// CustomerSignupRequest registers an online customer.
type CustomerSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required"`
}

// ToInput converts to the customer service input.
func (r *CustomerSignupRequest) ToInput() customer.RegisterOnlineInput {
	return customer.RegisterOnlineInput{
		Name:     r.Name,
		Email:    r.Email,
		Address:  r.Address,
		Password: r.Password,
	}
}

// LoginResponse carries the issued token and the principal.
type LoginResponse struct {
	Token *auth.Token `json:"token"`
	User  any         `json:"user"`
}

// MeResponse describes the caller.
type MeResponse struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	CustomerID int64  `json:"customerId,omitempty"`
}
