// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"synexpos/internal/app"
	"synexpos/internal/config"
	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/infrastructure/storage/postgres"
	"synexpos/pkg/logger"
)

type userSeed struct {
	username string
	fullName string
	role     string
	envPass  string
	password string
}

var users = []userSeed{
	{"admin", "System Admin", auth.RoleAdmin, "ADMIN_PASSWORD", "Admin123!"},
	{"manager", "Store Manager", auth.RoleManager, "MANAGER_PASSWORD", "Manager123!"},
	{"cashier", "Counter Cashier", auth.RoleCashier, "CASHIER_PASSWORD", "Cashier123!"},
}

type itemSeed struct {
	code     string
	name     string
	price    string
	discount string
	reorder  int

	// batches are (quantity, days until expiry); zero days means no expiry.
	batches [][2]int
	shelf   int
	website int
}

var items = []itemSeed{
	{"MILK1L", "Fresh Milk 1L", "320.00", "0", 20, [][2]int{{40, 7}, {40, 21}}, 30, 20},
	{"BREAD", "Sandwich Bread", "180.00", "5", 15, [][2]int{{30, 3}}, 20, 5},
	{"RICE5KG", "Samba Rice 5kg", "1450.00", "10", 10, [][2]int{{25, 300}}, 10, 10},
	{"SOAP", "Bath Soap", "120.00", "0", 25, [][2]int{{100, 0}}, 60, 30},
	{"TEA400", "Ceylon Tea 400g", "950.00", "2.5", 10, [][2]int{{20, 90}, {20, 45}}, 15, 15},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(config.MustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool.Pool); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}
	log.Info("connected to database")

	repos, err := app.PostgresRepositories(postgres.NewTxManager(pool))
	if err != nil {
		log.Fatalw("failed to create repositories", "error", err)
	}
	// Tokens are never issued here, so any secret will do.
	services := app.NewServices(repos, app.Options{
		JWT:  auth.DefaultJWTConfig("seed-only-secret-value"),
		Auth: auth.DefaultServiceConfig(),
	})

	if err := seedUsers(ctx, services, log); err != nil {
		log.Fatalw("failed to seed users", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, services, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedUsers(ctx context.Context, services *app.Services, log *logger.Logger) error {
	for _, u := range users {
		password := os.Getenv(u.envPass)
		if password == "" {
			password = u.password
		}
		created, err := services.Auth.Register(ctx, auth.RegisterRequest{
			Username: u.username,
			Password: password,
			FullName: u.fullName,
			Role:     u.role,
		})
		if apperror.Is(err, apperror.CodeDuplicate) {
			log.Infow("user already exists", "username", u.username)
			continue
		}
		if err != nil {
			return fmt.Errorf("register %s: %w", u.username, err)
		}
		log.Infow("user created", "username", created.Username, "role", created.Role, "user_id", created.ID)
	}
	return nil
}

func seedDemoData(ctx context.Context, services *app.Services, log *logger.Logger) error {
	log.Info("seeding demo data...")
	today := time.Now().UTC()

	for _, s := range items {
		price, err := types.NewMoneyFromString(s.price)
		if err != nil {
			return fmt.Errorf("price for %s: %w", s.code, err)
		}
		_, err = services.Items.Create(ctx, item.CreateInput{
			Code:         s.code,
			Name:         s.name,
			UnitPrice:    price,
			Discount:     decimal.RequireFromString(s.discount),
			ReorderLevel: s.reorder,
		})
		if apperror.Is(err, apperror.CodeDuplicate) {
			// Stock was seeded together with the item.
			log.Infow("item already exists, skipping", "code", s.code)
			continue
		}
		if err != nil {
			return fmt.Errorf("create item %s: %w", s.code, err)
		}

		for _, b := range s.batches {
			in := stock.ReceiveInput{
				ItemCode:     s.code,
				Quantity:     b[0],
				PurchaseDate: today,
			}
			if b[1] > 0 {
				expiry := today.AddDate(0, 0, b[1])
				in.ExpiryDate = &expiry
			}
			if _, err := services.Stock.ReceiveStock(ctx, in); err != nil {
				return fmt.Errorf("receive %s: %w", s.code, err)
			}
		}

		moves := []struct {
			channel stock.Channel
			qty     int
		}{
			{stock.ChannelShelf, s.shelf},
			{stock.ChannelWebsite, s.website},
		}
		for _, m := range moves {
			if m.qty == 0 {
				continue
			}
			if _, err := services.Stock.MoveToChannel(ctx, stock.MoveInput{
				ItemCode: s.code,
				Quantity: m.qty,
				Channel:  m.channel,
			}); err != nil {
				return fmt.Errorf("move %s to %s: %w", s.code, m.channel, err)
			}
		}
		log.Infow("item seeded", "code", s.code, "shelf", s.shelf, "website", s.website)
	}
	return nil
}
