// Command seed-db runs migrations and loads the development catalog
// into the products table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/medikart/order-service/internal/domain/product"
	"github.com/medikart/order-service/internal/repository"
)

type productJSON struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Price                decimal.Decimal `json:"price"`
	Currency             string          `json:"currency"`
	Category             string          `json:"category"`
	RequiresPrescription bool            `json:"requires_prescription"`
	Active               *bool           `json:"active"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
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

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, repository.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	return nil
}

func seedProducts(ctx context.Context, products *repository.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var entries []productJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(entries)))

	for _, e := range entries {
		p := product.Product{
			ID:                   e.ID,
			Name:                 e.Name,
			Price:                e.Price,
			Currency:             e.Currency,
			Category:             e.Category,
			RequiresPrescription: e.RequiresPrescription,
			Active:               true,
		}
		if p.Currency == "" {
			p.Currency = "USD"
		}
		if e.Active != nil {
			p.Active = *e.Active
		}

		if err := products.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", e.ID)
		}

		slog.Info("upserted product",
			slog.String("id", p.ID),
			slog.String("name", p.Name),
			slog.Bool("rx", p.RequiresPrescription),
		)
	}

	return nil
}
