package customer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/tx"
	"synexpos/pkg/logger"
)

const minPasswordLength = 6

// Service registers and looks up customers.
type Service struct {
	repo       Repository
	onlineRepo OnlineRepository
	txManager  tx.Manager
}

// NewService creates a new customer service.
func NewService(repo Repository, onlineRepo OnlineRepository, txManager tx.Manager) *Service {
	return &Service{repo: repo, onlineRepo: onlineRepo, txManager: txManager}
}

// FindOrRegister returns the customer with the phone, creating one when the
// phone is unknown. An existing customer keeps the stored name.
func (s *Service) FindOrRegister(ctx context.Context, name, phone string) (*Customer, error) {
	c, err := NewCustomer(name, phone)
	if err != nil {
		return nil, err
	}

	var result *Customer
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByPhone(ctx, c.Phone)
		if err == nil {
			result = existing
			return nil
		}
		if !apperror.IsNotFound(err) {
			return err
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Search finds walk-in customers by name fragment.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.NewValidation("search query is required").WithDetail("field", "q")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.SearchByName(ctx, query, limit)
}

// RegisterOnlineInput carries the sign-up form of an online customer.
type RegisterOnlineInput struct {
	Name     string
	Email    string
	Address  string
	Password string
}

// RegisterOnline creates an online customer with a bcrypt password hash.
func (s *Service) RegisterOnline(ctx context.Context, in RegisterOnlineInput) (*OnlineCustomer, error) {
	c := &OnlineCustomer{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Address: strings.TrimSpace(in.Address),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperror.NewValidation("password is too short").
			WithDetail("field", "password").
			WithDetail("min_length", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	c.PasswordHash = string(hash)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.onlineRepo.FindByEmail(ctx, c.Email)
		if err == nil {
			return apperror.NewDuplicate("online customer", "email", c.Email)
		}
		if !apperror.IsNotFound(err) {
			return err
		}
		return s.onlineRepo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "online customer registered", "customer_id", c.ID)
	return c, nil
}
