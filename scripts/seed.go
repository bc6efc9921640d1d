// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate initial data
// required for the application to function properly. The seeding system works
// similarly to migrations, tracking executed seeds to ensure they only run once,
// making the process idempotent and safe to run on both new and existing databases.
package scripts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// Seed names recorded in the seeds table.
const (
	SeedAdminAccount = "admin_account"
	SeedDemoProducts = "demo_products"
)

// PasswordHasher hashes the seeded admin password.
type PasswordHasher interface {
	Hash(password string) (string, string, error)
}

// seed is one named unit of seed data.
type seed struct {
	Name     string
	SeedFunc func(ctx context.Context, repos repository.Repositories) error
}

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with initial required data.
type Seeder struct {
	db     *database.Pool
	cfg    *config.AppConfig
	hasher PasswordHasher
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//   - cfg: The application configuration (admin account, environment)
//   - hasher: Hashes the admin password before it is stored
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool, cfg *config.AppConfig, hasher PasswordHasher) *Seeder {
	return &Seeder{
		db:     db,
		cfg:    cfg,
		hasher: hasher,
	}
}

// SeedDatabase seeds the database with initial data.
// It runs every applicable seed that has not been recorded in the seeds table.
// The table itself is created by the migrations.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	for _, sd := range s.seeds() {
		if executedSeeds[sd.Name] {
			log.Debug().Str("seed", sd.Name).Msg("Seed already executed")
			continue
		}
		log.Info().Str("seed", sd.Name).Msg("Running seed")
		if err := s.runSeed(ctx, sd); err != nil {
			return err
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// seeds returns the seeds that apply to the current configuration. The admin
// account is seeded only when credentials are configured; demo products only in
// development.
func (s *Seeder) seeds() []seed {
	var seeds []seed
	if s.cfg.Auth.AdminEmail != "" && s.cfg.Auth.AdminPassword != "" {
		seeds = append(seeds, seed{Name: SeedAdminAccount, SeedFunc: s.seedAdminAccount})
	}
	if s.cfg.App.IsDevelopment() {
		seeds = append(seeds, seed{Name: SeedDemoProducts, SeedFunc: s.seedDemoProducts})
	}
	return seeds
}

// getExecutedSeeds returns a map of executed seeds.
// The map keys are seed names and values are always true.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM "+constants.TableSeeds)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed and records it in one transaction, so a failed seed is
// retried on the next start.
func (s *Seeder) runSeed(ctx context.Context, sd seed) error {
	return s.db.Transaction(ctx, func(tx *database.Tx) error {
		if err := sd.SeedFunc(ctx, repository.New(tx)); err != nil {
			return fmt.Errorf("seed %s failed: %w", sd.Name, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO "+constants.TableSeeds+" (name) VALUES (?)", sd.Name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedAdminAccount creates the configured admin unless the email is taken.
func (s *Seeder) seedAdminAccount(ctx context.Context, repos repository.Repositories) error {
	email := s.cfg.Auth.AdminEmail

	exists, err := repos.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		log.Info().Str("email", utils.MaskEmail(email)).Msg("Admin account already exists")
		return nil
	}

	passwordHash, salt, err := s.hasher.Hash(s.cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := s.cfg.Auth.AdminName
	if name == "" {
		name = "Administrator"
	}
	admin := models.NewUser(name, email, models.RoleAdmin)
	admin.PasswordHash = passwordHash
	admin.Salt = salt

	if err := repos.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Info().
		Int64("user_id", admin.ID).
		Str("email", utils.MaskEmail(email)).
		Msg("Admin account seeded")
	return nil
}

// seedDemoProducts fills an empty catalog with a few products.
func (s *Seeder) seedDemoProducts(ctx context.Context, repos repository.Repositories) error {
	existing, err := repos.Products.List(ctx, 0, 1)
	if err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Msg("Catalog not empty, skipping demo products")
		return nil
	}

	products := DemoProducts()
	for _, product := range products {
		if err := repos.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to insert demo product %s: %w", product.Name, err)
		}
	}

	log.Info().Int("inserted_products", len(products)).Msg("Demo products seeding completed")
	return nil
}

// DemoProducts returns the products seeded into a development catalog.
func DemoProducts() []*models.Product {
	stock := func(n int) *int { return &n }
	creates := []models.ProductCreate{
		{Name: "Ceramic Mug", Description: "350 ml stoneware mug", Price: 8.50, Stock: stock(40), Category: "kitchen"},
		{Name: "Loose Leaf Tea", Description: "Assam breakfast blend, 250 g", Price: 6.90, Stock: stock(25), Category: "kitchen"},
		{Name: "Desk Lamp", Description: "Warm LED light with dimmer", Price: 34.00, Stock: stock(12), Category: "home"},
		{Name: "Wool Throw", Description: "Merino blanket, 130 x 170 cm", Price: 59.00, Stock: stock(8), Category: "home"},
		{Name: "Notebook", Description: "A5 dotted, 160 pages", Price: 12.00, Stock: stock(60), Category: "stationery"},
		{Name: "Fountain Pen", Description: "Steel nib, medium", Price: 24.50, Stock: stock(0), Category: "stationery"},
	}

	products := make([]*models.Product, 0, len(creates))
	for i := range creates {
		products = append(products, creates[i].ToProduct())
	}
	return products
}
