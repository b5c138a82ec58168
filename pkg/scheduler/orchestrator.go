// Package scheduler implements the fetch orchestrator: a single triggered
// ingestion job that pages through provider categories with bounded
// concurrency and writes through the metadata and feature stores.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/feature"
	"github.com/20ns/movierec-sub005/pkg/provider"
	"github.com/20ns/movierec-sub005/pkg/repository"
)

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . Provider
//go:generate moq -out mocks/media_store.go -pkg mocks -skip-ensure -fmt goimports . MediaStore
//go:generate moq -out mocks/feature_store.go -pkg mocks -skip-ensure -fmt goimports . FeatureStore

// Provider interface for paginated category listings
type Provider interface {
	FetchPage(ctx context.Context, category provider.Category, page int) (provider.Page, error)
}

// MediaStore interface for metadata cache writes
type MediaStore interface {
	Upsert(ctx context.Context, item *domain.MediaItem, fetchedAt time.Time, sourceTag domain.ScheduleType) (repository.UpsertOutcome, error)
	Count(ctx context.Context) (int, error)
}

// FeatureStore interface for derived vector writes
type FeatureStore interface {
	Upsert(ctx context.Context, id string, mediaType domain.MediaType, vec feature.Vector) error
}

// Config holds orchestrator configuration
type Config struct {
	MaxWorkers int           // bounded fan-out for category fetches and store writes
	PageCap    int           // safety cap on pages per category
	RunBudget  time.Duration // soft wall-clock budget for the whole run
}

// Orchestrator runs fetch jobs. A run is never retried automatically; the
// invoking scheduler decides whether to re-trigger, and is responsible for
// not running the same schedule type concurrently.
type Orchestrator struct {
	provider   Provider
	media      MediaStore
	features   FeatureStore
	maxWorkers int
	pageCap    int
	runBudget  time.Duration
	nowFunc    func() time.Time
}

// New creates an orchestrator
func New(p Provider, media MediaStore, features FeatureStore, cfg Config) *Orchestrator {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.PageCap == 0 {
		cfg.PageCap = 5
	}
	if cfg.RunBudget == 0 {
		cfg.RunBudget = 10 * time.Minute
	}

	return &Orchestrator{
		provider:   p,
		media:      media,
		features:   features,
		maxWorkers: cfg.MaxWorkers,
		pageCap:    cfg.PageCap,
		runBudget:  cfg.RunBudget,
		nowFunc:    time.Now,
	}
}

// mediaKey identifies an item within a run
type mediaKey struct {
	id        string
	mediaType domain.MediaType
}

// categoryResult accumulates the outcome of paging through one category
type categoryResult struct {
	items       []domain.MediaItem
	pagesOK     int
	pagesFailed int
	abandoned   bool
}

// Run executes a single fetch: resolve categories for the schedule type, fan
// out page fetches on a bounded worker pool, then derive feature vectors and
// write through both stores. Partial failures never abort the run; only a
// run where every category failed is classified as failed.
func (o *Orchestrator) Run(ctx context.Context, schedule domain.ScheduleType) domain.FetchResult {
	start := o.nowFunc()
	deadline := start.Add(o.runBudget)

	result := domain.FetchResult{ScheduleType: schedule}

	categories := CategoriesFor(schedule)
	if len(categories) == 0 {
		result.Status = domain.FetchFailed
		result.Error = "unknown schedule type " + string(schedule)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	lgr.Printf("[INFO] starting %s fetch run, %d categories, %d workers", schedule, len(categories), o.maxWorkers)

	catResults := o.fetchCategories(ctx, categories, deadline)

	// collect unique items; duplicates across categories are the same
	// snapshot, the first occurrence wins
	var items []domain.MediaItem
	seen := make(map[mediaKey]bool)
	pagesFailed := 0
	for i, cr := range catResults {
		if cr.pagesFailed > 0 {
			lgr.Printf("[WARN] category %s: %d pages failed", categories[i].Name, cr.pagesFailed)
		}
		pagesFailed += cr.pagesFailed
		if cr.abandoned || (cr.pagesOK == 0 && cr.pagesFailed > 0) {
			result.CategoriesFailed++
			continue
		}
		for _, item := range cr.items {
			key := mediaKey{id: item.ID, mediaType: item.Type}
			if seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, item)
		}
	}

	fetched, failed := o.writeThrough(ctx, items, schedule)
	result.ItemsFetched = fetched
	result.ItemsFailed = failed

	switch {
	case result.CategoriesFailed == len(categories):
		result.Status = domain.FetchFailed
		result.Error = "all categories failed"
	case result.CategoriesFailed > 0 || result.ItemsFailed > 0 || pagesFailed > 0:
		result.Status = domain.FetchPartiallyFailed
	default:
		result.Status = domain.FetchCompleted
		result.Success = true
	}

	if count, err := o.media.Count(ctx); err != nil {
		lgr.Printf("[WARN] failed to read cache size: %v", err)
	} else {
		result.CacheStats.TotalCachedItems = count
	}

	result.DurationMs = time.Since(start).Milliseconds()
	lgr.Printf("[INFO] %s fetch run %s: %d items fetched, %d failed, %d categories failed in %dms",
		schedule, result.Status, result.ItemsFetched, result.ItemsFailed, result.CategoriesFailed, result.DurationMs)
	return result
}

// fetchCategories fans page fetching out over the bounded worker pool.
// Cancellation and the soft budget are checked cooperatively before each
// category and each page; in-flight fetches complete or time out on their own.
func (o *Orchestrator) fetchCategories(ctx context.Context, categories []provider.Category, deadline time.Time) []categoryResult {
	results := make([]categoryResult, len(categories))

	g := &errgroup.Group{}
	g.SetLimit(o.maxWorkers)

	for i, cat := range categories {
		g.Go(func() error {
			if ctx.Err() != nil || o.nowFunc().After(deadline) {
				results[i].abandoned = true
				return nil
			}
			results[i] = o.fetchCategory(ctx, cat, deadline)
			return nil
		})
	}

	_ = g.Wait() // workers never return errors, failures are recorded per category
	return results
}

// fetchCategory pages through a single category up to the page safety cap
func (o *Orchestrator) fetchCategory(ctx context.Context, cat provider.Category, deadline time.Time) categoryResult {
	var cr categoryResult

	page := 1
	for fetched := 0; fetched < o.pageCap; fetched++ {
		if ctx.Err() != nil || o.nowFunc().After(deadline) {
			lgr.Printf("[WARN] category %s abandoned after %d pages", cat.Name, cr.pagesOK)
			if cr.pagesOK == 0 {
				cr.abandoned = true
			}
			return cr
		}

		p, err := o.provider.FetchPage(ctx, cat, page)
		if err != nil {
			// exhausted retries: skip the page, keep the category going
			lgr.Printf("[WARN] category %s page %d skipped: %v", cat.Name, page, err)
			cr.pagesFailed++
			page++
			continue
		}

		cr.pagesOK++
		cr.items = append(cr.items, p.Items...)
		if p.NextPage == 0 {
			break
		}
		page = p.NextPage
	}

	lgr.Printf("[DEBUG] category %s: %d items from %d pages", cat.Name, len(cr.items), cr.pagesOK)
	return cr
}

// writeThrough derives feature vectors and writes items to both stores with
// bounded concurrency. Per-item failures are counted and skipped, never fatal.
func (o *Orchestrator) writeThrough(ctx context.Context, items []domain.MediaItem, schedule domain.ScheduleType) (fetched, failed int) {
	if len(items) == 0 {
		return 0, 0
	}

	// popularity is normalized against the maximum observed in this run
	maxPopularity := 0.0
	for _, item := range items {
		if item.Popularity > maxPopularity {
			maxPopularity = item.Popularity
		}
	}

	fetchedAt := o.nowFunc().UTC()

	var mu sync.Mutex
	g := &errgroup.Group{}
	g.SetLimit(o.maxWorkers)

	for _, item := range items {
		g.Go(func() error {
			outcome, err := o.media.Upsert(ctx, &item, fetchedAt, schedule)
			if err != nil {
				lgr.Printf("[WARN] failed to store %s/%s: %v", item.Type, item.ID, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			// a stale skip means a newer snapshot is already cached and its
			// vector is current, nothing to recompute
			if outcome == repository.OutcomeWritten {
				vec := feature.Compute(feature.Input{
					Genres:      item.Genres,
					Popularity:  item.Popularity,
					VoteCount:   item.VoteCount,
					ReleaseDate: item.ReleaseDate,
				}, maxPopularity, fetchedAt)

				if err := o.features.Upsert(ctx, item.ID, item.Type, vec); err != nil {
					lgr.Printf("[WARN] failed to store vector %s/%s: %v", item.Type, item.ID, err)
					mu.Lock()
					failed++
					mu.Unlock()
					return nil
				}
			}

			mu.Lock()
			fetched++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return fetched, failed
}
