// Command catalog-import loads menu item shards exported by a POS system into
// a branch menu. Shards are gzip-compressed JSON lines; the same item may
// appear in several shards, and the first occurrence wins.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/naingnainghtun662/apolo/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.0001
	progressEvery = 10_000
)

type variantRecord struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type itemRecord struct {
	ExternalID string           `json:"external_id"`
	Name       string           `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	OutOfStock bool             `json:"out_of_stock"`
	Variants   []variantRecord  `json:"variants"`
}

func main() {
	var (
		dataDir     string
		databaseURL string
		branchID    int64
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing menu-items-*.gz shards")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Int64Var(&branchID, "branch", 0, "target branch ID")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if branchID == 0 {
		slog.Error("branch ID is required: set --branch")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, branchID); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string, branchID int64) error {
	shards, err := filepath.Glob(filepath.Join(dataDir, "menu-items-*.gz"))
	if err != nil {
		return errors.Wrap(err, "glob shards")
	}
	if len(shards) == 0 {
		return errors.Errorf("no menu-items-*.gz shards in %s", dataDir)
	}

	slog.Info("streaming shards", slog.Int("count", len(shards)))

	items, err := collectItems(ctx, shards)
	if err != nil {
		return errors.Wrap(err, "collect items")
	}

	slog.Info("unique items collected", slog.Int("count", len(items)))

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeItems(ctx, pool, branchID, items); err != nil {
		return errors.Wrap(err, "write items")
	}

	return nil
}

// collectItems streams all shards concurrently and keeps the first record
// seen per external ID. The bloom filter front-runs the exact-set check so the
// common duplicate case never touches the map under contention.
func collectItems(ctx context.Context, shards []string) ([]itemRecord, error) {
	var (
		mu     sync.Mutex
		filter = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		seen   = make(map[string]struct{})
		items  []itemRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			var count uint64
			err := streamShard(ctx, shard, func(rec itemRecord) {
				count++
				if count%progressEvery == 0 {
					slog.Info("shard progress", slog.Int("shard", i+1), slog.Uint64("records", count))
				}

				mu.Lock()
				defer mu.Unlock()
				if filter.TestString(rec.ExternalID) {
					if _, dup := seen[rec.ExternalID]; dup {
						return
					}
				}
				filter.AddString(rec.ExternalID)
				seen[rec.ExternalID] = struct{}{}
				items = append(items, rec)
			})
			if err != nil {
				return errors.Wrapf(err, "stream shard %s", shard)
			}

			slog.Info("shard complete", slog.Int("shard", i+1), slog.Uint64("records", count))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// streamShard decompresses one shard and calls fn for each JSON line.
func streamShard(ctx context.Context, path string, fn func(itemRecord)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec itemRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return errors.Wrapf(err, "parse record in %s", path)
		}
		if rec.ExternalID == "" || rec.Name == "" {
			continue
		}
		fn(rec)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}

// writeItems upserts items by external ID and replaces their variants.
func writeItems(ctx context.Context, pool *pgxpool.Pool, branchID int64, items []itemRecord) error {
	slog.Info("writing items to database", slog.Int("count", len(items)))

	for i, rec := range items {
		var itemID int64
		err := pool.QueryRow(ctx, `
			INSERT INTO menu_items (branch_id, external_id, name, price, out_of_stock)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (external_id) DO UPDATE
			SET name = EXCLUDED.name,
			    price = EXCLUDED.price,
			    out_of_stock = EXCLUDED.out_of_stock,
			    updated_at = now()
			RETURNING id`,
			branchID, rec.ExternalID, rec.Name, rec.Price, rec.OutOfStock,
		).Scan(&itemID)
		if err != nil {
			return errors.Wrapf(err, "upsert item %s", rec.ExternalID)
		}

		if _, err := pool.Exec(ctx, `DELETE FROM menu_item_variants WHERE menu_item_id = $1`, itemID); err != nil {
			return errors.Wrapf(err, "clear variants of %s", rec.ExternalID)
		}
		for _, v := range rec.Variants {
			_, err := pool.Exec(ctx, `
				INSERT INTO menu_item_variants (menu_item_id, name, price)
				VALUES ($1, $2, $3)`, itemID, v.Name, v.Price)
			if err != nil {
				return errors.Wrapf(err, "insert variant %s of %s", v.Name, rec.ExternalID)
			}
		}

		if (i+1)%100 == 0 || i+1 == len(items) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(items)))
		}
	}

	return nil
}
