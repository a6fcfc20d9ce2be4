// Command catalog-ingest imports supplier catalog feeds into the
// products table. Each supplier ships a gzipped CSV feed; a SKU is only
// trusted when at least two independent suppliers list it, which
// filters out typos and stale entries in any single feed.
//
// The tool runs in two passes so feeds of hundreds of millions of rows
// never have to fit in memory: pass 1 builds a bloom filter of SKUs per
// feed, pass 2 re-streams each feed and keeps records whose SKU appears
// in another feed's filter.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/medikart/order-service/internal/domain/product"
	"github.com/medikart/order-service/internal/repository"
)

const (
	bloomCapacity = 120_000_000
	bloomFPR      = 0.001
	numFeeds      = 3
	progressEvery = 10_000_000
	minSKULen     = 6
	maxSKULen     = 24
)

// record is one parsed catalog row.
type record struct {
	sku      string
	name     string
	price    decimal.Decimal
	category string
	rx       bool
}

// feedResult holds candidate records found in a single feed during pass 2.
type feedResult struct {
	candidates map[string]record
	masks      map[string]uint
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalogN.gz supplier feeds")
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
	feeds := make([]string, numFeeds)
	for i := range numFeeds {
		feeds[i] = filepath.Join(dataDir, fmt.Sprintf("catalog%d.gz", i+1))
	}
	for _, f := range feeds {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check feed %s", f)
		}
	}

	// Pass 1: build bloom filters of SKUs concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("feeds", numFeeds))

	filters, err := buildBloomFilters(ctx, feeds)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: find records whose SKU appears in 2+ feeds.
	slog.Info("pass 2: finding verified SKUs")

	verified, err := findVerifiedRecords(ctx, feeds, filters)
	if err != nil {
		return errors.Wrap(err, "find verified records")
	}

	slog.Info("verified SKUs found", slog.Int("count", len(verified)))

	if len(verified) == 0 {
		slog.Info("no verified records to insert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeProducts(ctx, repository.NewProductRepository(pool), verified); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per feed, concurrently.
func buildBloomFilters(ctx context.Context, feeds []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range feeds {
		g.Go(buildFilterForFeed(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFeed(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFeed(ctx, path, func(line string) {
			sku, _, ok := strings.Cut(line, ",")
			if !ok || len(sku) < minSKULen || len(sku) > maxSKULen {
				return
			}
			filter.AddString(sku)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("rows", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for feed %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_rows", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findVerifiedRecords re-streams each feed and checks SKUs against the
// OTHER feeds' bloom filters. A record is kept if its SKU appears in 2
// or more feeds.
func findVerifiedRecords(ctx context.Context, feeds []string, filters []*bloom.BloomFilter) ([]record, error) {
	results := make([]feedResult, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range feeds {
		g.Go(findCandidatesInFeed(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge membership bitmasks from all feeds. The earliest feed that
	// carries a SKU supplies the record, so feed order is the priority
	// order for conflicting names or prices.
	merged := make(map[string]record)
	masks := make(map[string]uint)
	for _, r := range results {
		for sku, mask := range r.masks {
			masks[sku] |= mask
			if _, ok := merged[sku]; !ok {
				merged[sku] = r.candidates[sku]
			}
		}
	}

	var verified []record
	for sku, mask := range masks {
		if bits.OnesCount(mask) >= 2 {
			verified = append(verified, merged[sku])
		}
	}

	return verified, nil
}

func findCandidatesInFeed(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []feedResult,
) func() error {
	return func() error {
		candidates := make(map[string]record)
		masks := make(map[string]uint)
		feedBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFeed(ctx, path, func(line string) {
			rec, err := parseRecord(line)
			if err != nil {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("rows", count),
				)
			}

			// Keep the record only if some OTHER feed also lists the SKU.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(rec.sku) {
					candidates[rec.sku] = rec
					masks[rec.sku] |= feedBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan feed %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_rows", count),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = feedResult{candidates: candidates, masks: masks}
		return nil
	}
}

// parseRecord parses one feed row of the form
// sku,name,price,category,rx where rx is "RX" or "OTC".
func parseRecord(line string) (record, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return record{}, errors.Errorf("expected 5 fields, got %d", len(fields))
	}

	sku := strings.TrimSpace(fields[0])
	if len(sku) < minSKULen || len(sku) > maxSKULen {
		return record{}, errors.New("sku length out of range")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil {
		return record{}, errors.Wrap(err, "parse price")
	}
	if price.IsNegative() {
		return record{}, errors.New("negative price")
	}

	return record{
		sku:      sku,
		name:     strings.TrimSpace(fields[1]),
		price:    price,
		category: strings.TrimSpace(fields[3]),
		rx:       strings.EqualFold(strings.TrimSpace(fields[4]), "RX"),
	}, nil
}

// streamGzFeed opens a gzip-compressed feed and calls fn for each line.
func streamGzFeed(ctx context.Context, path string, fn func(line string)) error {
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
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeProducts upserts all verified records into the products table.
func writeProducts(ctx context.Context, products *repository.ProductRepository, records []record) error {
	slog.Info("writing products to database", slog.Int("count", len(records)))

	for i, rec := range records {
		p := product.Product{
			ID:                   rec.sku,
			Name:                 rec.name,
			Price:                rec.price,
			Currency:             "USD",
			Category:             rec.category,
			RequiresPrescription: rec.rx,
			Active:               true,
		}
		if err := products.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", rec.sku)
		}

		if (i+1)%100 == 0 || i+1 == len(records) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(records)))
		}
	}

	return nil
}
