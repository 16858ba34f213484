// Package customer provides walk-in customers recorded at the counter and
// registered online customers.
package customer

import (
	"net/mail"
	"strings"
	"time"

	"synexpos/internal/core/apperror"
)

// Customer is a walk-in customer identified by phone number.
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewCustomer creates a validated walk-in customer.
func NewCustomer(name, phone string) (*Customer, error) {
	c := &Customer{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required fields.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return apperror.NewValidation("customer name cannot be empty").WithDetail("field", "name")
	}
	if c.Phone == "" {
		return apperror.NewValidation("customer phone cannot be empty").WithDetail("field", "phone")
	}
	return nil
}

// OnlineCustomer is a registered web shop customer.
type OnlineCustomer struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Address      string    `db:"address" json:"address"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks required fields. The password hash is set by the service.
func (c *OnlineCustomer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("customer name cannot be empty").WithDetail("field", "name")
	}
	if !strings.Contains(c.Email, "@") {
		return apperror.NewValidation("invalid email address").WithDetail("field", "email")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return apperror.NewValidation("invalid email address").WithDetail("field", "email")
	}
	if strings.TrimSpace(c.Address) == "" {
		return apperror.NewValidation("address cannot be empty").WithDetail("field", "address")
	}
	return nil
}
