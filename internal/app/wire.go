// Package app assembles the domain services over a storage backend.
package app

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"synexpos/internal/core/numerator"
	"synexpos/internal/core/tx"
	"synexpos/internal/domain"
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/domain/reports"
	"synexpos/internal/domain/sale"
	"synexpos/internal/infrastructure/cache"
	pgnumerator "synexpos/internal/infrastructure/numerator"
	"synexpos/internal/infrastructure/storage/memory"
	"synexpos/internal/infrastructure/storage/postgres"
	"synexpos/internal/infrastructure/storage/postgres/auth_repo"
	"synexpos/internal/infrastructure/storage/postgres/catalog_repo"
	"synexpos/internal/infrastructure/storage/postgres/document_repo"
	"synexpos/internal/infrastructure/storage/postgres/register_repo"
	"synexpos/internal/infrastructure/storage/postgres/report_repo"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager       tx.Manager
	Items           item.Repository
	Customers       customer.Repository
	OnlineCustomers customer.OnlineRepository
	Users           auth.UserRepository
	Stock           stock.Repository
	Bills           bill.Repository
	Reports         reports.Repository
	Serials         numerator.Generator
	Events          domain.EventPublisher
	Audit           domain.AuditRecorder
	AuditHistory    domain.AuditReader
}

// MemoryRepositories backs every repository with one in-process store.
func MemoryRepositories(store *memory.Store) Repositories {
	audit := memory.NewAuditLog(store)
	return Repositories{
		TxManager:       memory.NewTxManager(store),
		Items:           memory.NewItemRepo(store),
		Customers:       memory.NewCustomerRepo(store),
		OnlineCustomers: memory.NewOnlineCustomerRepo(store),
		Users:           memory.NewUserRepo(store),
		Stock:           memory.NewStockRepo(store),
		Bills:           memory.NewBillRepo(store),
		Reports:         memory.NewReportRepo(store),
		Serials:         memory.NewNumerator(store),
		Events:          memory.NewEventLog(store),
		Audit:           audit,
		AuditHistory:    audit,
	}
}

// PostgresRepositories backs every repository with PostgreSQL. Events go
// to the outbox and audit rows to sys_audit, both in the caller's unit of
// work.
func PostgresRepositories(txm *postgres.TxManager) (Repositories, error) {
	audit, err := postgres.NewAuditService(txm)
	if err != nil {
		return Repositories{}, fmt.Errorf("create audit service: %w", err)
	}
	return Repositories{
		TxManager:       txm,
		Items:           catalog_repo.NewItemRepo(txm),
		Customers:       catalog_repo.NewCustomerRepo(txm),
		OnlineCustomers: catalog_repo.NewOnlineCustomerRepo(txm),
		Users:           auth_repo.NewUserRepo(txm),
		Stock:           register_repo.NewStockRepo(txm),
		Bills:           document_repo.NewBillRepo(txm),
		Reports:         report_repo.NewReportRepo(txm),
		Serials:         pgnumerator.NewWithTxManager(txm),
		Events:          postgres.NewOutboxPublisher(txm),
		Audit:           audit,
		AuditHistory:    audit,
	}, nil
}

// WithItemCache puts a Redis read-through cache in front of item lookups.
func (r Repositories) WithItemCache(client redis.UniversalClient, ttl time.Duration) Repositories {
	r.Items = cache.NewItemRepo(r.Items, client, ttl)
	return r
}

// Options tune the services.
type Options struct {
	JWT            auth.JWTConfig
	Auth           auth.ServiceConfig
	SerialStrategy numerator.Strategy
	Gateway        sale.PaymentGateway
	Printer        sale.Printer
	// Clock overrides time.Now; used by tests and the seeder.
	Clock func() time.Time
}

// Services are the wired domain services.
type Services struct {
	JWT       *auth.JWTService
	Auth      *auth.Service
	Items     *item.Service
	Customers *customer.Service
	Stock     *stock.Service
	Sales     *sale.Service
	Reports   *reports.Service
	Bills     bill.Repository
	Printer   sale.Printer
}

// NewServices wires the domain services over repos.
func NewServices(repos Repositories, opts Options) *Services {
	jwtService := auth.NewJWTService(opts.JWT)
	customers := customer.NewService(repos.Customers, repos.OnlineCustomers, repos.TxManager)
	items := item.NewService(repos.Items, repos.TxManager, repos.Audit).WithHistory(repos.AuditHistory)
	stockSvc := stock.NewService(repos.Stock, repos.Items, repos.TxManager, repos.Events, repos.Audit)
	reportSvc := reports.NewService(repos.Reports)

	sales := sale.NewService(sale.Deps{
		Items:     repos.Items,
		Stock:     stockSvc,
		Bills:     repos.Bills,
		Serials:   repos.Serials,
		Gateway:   opts.Gateway,
		Printer:   opts.Printer,
		TxManager: repos.TxManager,
		Events:    repos.Events,
		Audit:     repos.Audit,
	}).WithSerialOptions(&numerator.Options{Strategy: opts.SerialStrategy})

	authSvc := auth.NewService(repos.Users, repos.OnlineCustomers, repos.TxManager, jwtService, opts.Auth)

	if opts.Clock != nil {
		stockSvc.WithClock(opts.Clock)
		reportSvc.WithClock(opts.Clock)
		sales.WithClock(opts.Clock)
	}

	return &Services{
		JWT:       jwtService,
		Auth:      authSvc,
		Items:     items,
		Customers: customers,
		Stock:     stockSvc,
		Sales:     sales,
		Reports:   reportSvc,
		Bills:     repos.Bills,
		Printer:   opts.Printer,
	}
}
