package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"synexpos/internal/core/apperror"
	appctx "synexpos/internal/core/context"
	"synexpos/internal/core/tx"
	"synexpos/internal/domain/catalogs/customer"
	"synexpos/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 6,
	}
}

// CustomerFinder looks up online customers by email.
type CustomerFinder interface {
	FindByEmail(ctx context.Context, email string) (*customer.OnlineCustomer, error)
}

// Service provides authentication for staff and online customers.
type Service struct {
	users      UserRepository
	customers  CustomerFinder
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
	now        func() time.Time
}

// NewService creates a new auth service.
func NewService(users UserRepository, customers CustomerFinder, txManager tx.Manager, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		users:      users,
		customers:  customers,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
		now:        time.Now,
	}
}

// Register creates a staff account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Username, string(passwordHash), req.FullName, strings.ToUpper(req.Role))
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.users.Exists(ctx, user.Username)
		if err != nil {
			return fmt.Errorf("check username exists: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("user", "username", user.Username)
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login authenticates a staff user.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	now := s.now()

	var user *User
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByUsername(ctx, strings.TrimSpace(creds.Username))
		if apperror.IsNotFound(err) {
			return apperror.NewUnauthorized("invalid credentials")
		}
		if err != nil {
			return err
		}
		if err := user.CanLogin(now); err != nil {
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
			user.RecordFailedLogin(now, s.config.MaxLoginAttempts, s.config.LockDuration)
			return errFailedLogin
		}

		user.RecordSuccessfulLogin(now)
		return s.users.Update(ctx, user)
	})
	if errors.Is(err, errFailedLogin) {
		// The attempt counter must survive the rejected login.
		if updErr := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.users.Update(ctx, user)
		}); updErr != nil {
			logger.Warn(ctx, "failed to record login attempt", "username", user.Username, "error", updErr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, nil, err
	}

	token, err := s.jwtService.GenerateAccessToken(StaffPrincipal(user))
	if err != nil {
		return nil, nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

// CustomerLogin authenticates an online customer.
func (s *Service) CustomerLogin(ctx context.Context, creds CustomerCredentials) (*Token, *customer.OnlineCustomer, error) {
	c, err := s.customers.FindByEmail(ctx, strings.TrimSpace(creds.Email))
	if apperror.IsNotFound(err) {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, err := s.jwtService.GenerateAccessToken(Principal{
		Subject:    "customer:" + strconv.FormatInt(c.ID, 10),
		Username:   c.Email,
		Role:       RoleOnlineCustomer,
		CustomerID: c.ID,
	})
	if err != nil {
		return nil, nil, apperror.NewInternal(err)
	}
	return token, c, nil
}

// ValidateToken verifies an access token. Used by the auth middleware.
func (s *Service) ValidateToken(token string) (*appctx.UserContext, error) {
	uc, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}
	return uc, nil
}

var errFailedLogin = apperror.NewUnauthorized("invalid credentials")
