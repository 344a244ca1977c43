// Command catalog-ingest bulk-loads supplier product feeds into the catalog
// database. Feeds are JSON arrays, optionally gzip-compressed; files are
// parsed concurrently and merged by canonical product id before upserting.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ixoye/storefront/internal/domain/catalog"
	"github.com/ixoye/storefront/internal/storage/postgres"
)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing feed files (*.json, *.json.gz)")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := feedFiles(dataDir)
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no feed files found in %s", dataDir)
	}

	slog.Info("parsing feeds", slog.Int("files", len(files)))

	// Parse every feed concurrently; results stay slotted per file so the
	// merge below is deterministic regardless of completion order.
	parsed := make([][]catalog.Product, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			products, err := catalog.LoadFeed(gctx, f)
			if err != nil {
				return errors.Wrapf(err, "parse %s", f)
			}
			slog.Info("feed parsed", slog.String("file", f), slog.Int("products", len(products)))
			parsed[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := mergeFeeds(parsed)
	slog.Info("feeds merged", slog.Int("products", len(merged)))

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCatalogRepository(pool)
	for i, p := range merged {
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
		if (i+1)%100 == 0 || i+1 == len(merged) {
			slog.Info("upsert progress", slog.Int("written", i+1), slog.Int("total", len(merged)))
		}
	}

	return nil
}

// feedFiles returns the feed files in dataDir in name order, so later-named
// feeds win the merge deterministically.
func feedFiles(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz") {
			files = append(files, filepath.Join(dataDir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// mergeFeeds flattens per-file products into one list, deduplicated by
// canonical id. The last occurrence wins: a supplier's newer feed overrides
// an older one for the same product.
func mergeFeeds(parsed [][]catalog.Product) []catalog.Product {
	index := make(map[string]int)
	var merged []catalog.Product

	for _, products := range parsed {
		for _, p := range products {
			if i, ok := index[p.ID]; ok {
				merged[i] = p
				continue
			}
			index[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}
	return merged
}
