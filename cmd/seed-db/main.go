// Command seed-db provisions a demo tenant with one geofenced branch, a few
// tables, and a small menu so the API can be exercised locally.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naingnainghtun662/apolo/internal/storage/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	branchID, err := seedBranch(ctx, pool)
	if err != nil {
		return errors.Wrap(err, "seed branch")
	}

	if err := seedTables(ctx, pool, branchID); err != nil {
		return errors.Wrap(err, "seed tables")
	}

	if err := seedMenu(ctx, pool, branchID); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	return nil
}

func seedBranch(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	slog.Info("seeding demo tenant and branch")

	var tenantID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO tenants (name) VALUES ('Demo Restaurant Group')
		RETURNING id`).Scan(&tenantID)
	if err != nil {
		return 0, errors.Wrap(err, "insert tenant")
	}

	// Downtown Yangon coordinates with a 150m ordering fence.
	var branchID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO branches (tenant_id, name, currency, tax, lat, long, radius)
		VALUES ($1, 'Downtown', 'MMK', 5.00, 16.7745, 96.1587, 150)
		RETURNING id`, tenantID).Scan(&branchID)
	if err != nil {
		return 0, errors.Wrap(err, "insert branch")
	}

	slog.Info("seeded branch", slog.Int64("id", branchID))
	return branchID, nil
}

func seedTables(ctx context.Context, pool *pgxpool.Pool, branchID int64) error {
	tables := []struct {
		name  string
		token string
	}{
		{"Table 1", "tbl-demo-0001"},
		{"Table 2", "tbl-demo-0002"},
		{"Terrace", "tbl-demo-0003"},
	}

	for _, t := range tables {
		_, err := pool.Exec(ctx, `
			INSERT INTO tables (branch_id, name, public_token)
			VALUES ($1, $2, $3)
			ON CONFLICT (public_token) DO NOTHING`, branchID, t.name, t.token)
		if err != nil {
			return errors.Wrapf(err, "insert table %s", t.name)
		}

		slog.Info("seeded table", slog.String("name", t.name), slog.String("token", t.token))
	}

	return nil
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, branchID int64) error {
	var categoryID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO menu_categories (branch_id, name, position)
		VALUES ($1, 'Mains', 1)
		RETURNING id`, branchID).Scan(&categoryID)
	if err != nil {
		return errors.Wrap(err, "insert category")
	}

	items := []struct {
		name     string
		price    string
		variants map[string]string
	}{
		{"Mohinga", "2500.00", nil},
		{"Shan Noodles", "3000.00", map[string]string{"Regular": "3000.00", "Large": "3800.00"}},
		{"Tea Leaf Salad", "2000.00", nil},
	}

	for _, it := range items {
		var itemID int64
		err := pool.QueryRow(ctx, `
			INSERT INTO menu_items (branch_id, category_id, name, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, branchID, categoryID, it.name, it.price).Scan(&itemID)
		if err != nil {
			return errors.Wrapf(err, "insert item %s", it.name)
		}

		for name, price := range it.variants {
			_, err := pool.Exec(ctx, `
				INSERT INTO menu_item_variants (menu_item_id, name, price)
				VALUES ($1, $2, $3)`, itemID, name, price)
			if err != nil {
				return errors.Wrapf(err, "insert variant %s of %s", name, it.name)
			}
		}

		slog.Info("seeded menu item", slog.String("name", it.name), slog.Int64("id", itemID))
	}

	return nil
}
