package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/feature"
	"github.com/20ns/movierec-sub005/pkg/repository"
)

//go:generate moq -out mocks/candidate_source.go -pkg mocks -skip-ensure -fmt goimports . CandidateSource
//go:generate moq -out mocks/vector_source.go -pkg mocks -skip-ensure -fmt goimports . VectorSource

// CandidateSource provides read access to the metadata cache
type CandidateSource interface {
	CandidatePool(ctx context.Context, filter domain.CandidateFilter) ([]domain.CacheEntry, error)
}

// VectorSource provides read access to the derived feature vectors
type VectorSource interface {
	GetMany(ctx context.Context, keys []repository.FeatureKey) (map[repository.FeatureKey]feature.Vector, error)
}

// Config holds recommendation service settings
type Config struct {
	DefaultLanguage   string
	LanguageAllowList []string
	FreshnessWindow   time.Duration // maximum metadata age for candidates
	MaxCandidates     int           // candidate pool size read per request
	MaxGenreShare     float64       // diversity guard share cap
}

// Service answers recommendation queries. It holds read-only access to both
// stores, carries no mutable state, and is safe under arbitrary concurrent
// invocation.
type Service struct {
	media    CandidateSource
	features VectorSource
	cfg      Config
	nowFunc  func() time.Time
}

// NewService creates a recommendation service
func NewService(media CandidateSource, features VectorSource, cfg Config) *Service {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.FreshnessWindow == 0 {
		cfg.FreshnessWindow = 14 * 24 * time.Hour
	}
	if cfg.MaxCandidates == 0 {
		cfg.MaxCandidates = 500
	}
	if cfg.MaxGenreShare == 0 {
		cfg.MaxGenreShare = 0.4
	}

	return &Service{media: media, features: features, cfg: cfg, nowFunc: time.Now}
}

// Request is a recommendation query from the request-handling layer
type Request struct {
	Profile   domain.ProfileRequest `json:"preferenceProfile"`
	MediaType string                `json:"mediaType,omitempty"`
	Limit     int                   `json:"limit"`
}

// Recommend reads the candidate pool, scores it against the caller's profile
// and returns the ranked, diversity-guarded top results. The second return
// value lists profile validation warnings. An empty pool yields an empty
// list, not an error.
func (s *Service) Recommend(ctx context.Context, req Request) ([]domain.ScoredCandidate, []string, error) {
	filter := domain.CandidateFilter{MaxAge: s.cfg.FreshnessWindow, Limit: s.cfg.MaxCandidates}
	if req.MediaType != "" {
		mediaType, err := domain.ParseMediaType(req.MediaType)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid media type filter: %w", err)
		}
		filter.MediaType = mediaType
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	profile, warnings := domain.ParseProfile(req.Profile)
	for _, w := range warnings {
		lgr.Printf("[WARN] profile validation: %s", w)
	}

	entries, err := s.media.CandidatePool(ctx, filter)
	if err != nil {
		return nil, warnings, fmt.Errorf("read candidate pool: %w", err)
	}
	if len(entries) == 0 {
		return []domain.ScoredCandidate{}, warnings, nil
	}

	candidates, err := s.buildCandidates(ctx, entries)
	if err != nil {
		return nil, warnings, err
	}

	ranked := Rank(candidates, profile, Options{
		DefaultLanguage:   s.cfg.DefaultLanguage,
		LanguageAllowList: s.cfg.LanguageAllowList,
	})
	ranked = Diversify(ranked, limit, s.cfg.MaxGenreShare)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]domain.ScoredCandidate, len(ranked))
	for i := range ranked {
		results[i] = ranked[i].ToScoredCandidate()
	}
	return results, warnings, nil
}

// buildCandidates pairs cache entries with their vectors. A missing vector is
// recomputed in memory from the metadata snapshot - the feature store is a
// rebuildable cache and this service never writes to it.
func (s *Service) buildCandidates(ctx context.Context, entries []domain.CacheEntry) ([]Candidate, error) {
	keys := make([]repository.FeatureKey, len(entries))
	for i, e := range entries {
		keys[i] = repository.FeatureKey{ID: e.Item.ID, MediaType: e.Item.Type}
	}

	vectors, err := s.features.GetMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read feature vectors: %w", err)
	}

	// normalization reference for recomputed vectors: the maximum popularity
	// across the current pool
	maxPopularity := 0.0
	for _, e := range entries {
		if e.Item.Popularity > maxPopularity {
			maxPopularity = e.Item.Popularity
		}
	}

	now := s.nowFunc()
	missing := 0
	candidates := make([]Candidate, len(entries))
	for i, e := range entries {
		vec, ok := vectors[keys[i]]
		if !ok {
			vec = feature.Compute(feature.Input{
				Genres:      e.Item.Genres,
				Popularity:  e.Item.Popularity,
				VoteCount:   e.Item.VoteCount,
				ReleaseDate: e.Item.ReleaseDate,
			}, maxPopularity, now)
			missing++
		}
		candidates[i] = Candidate{Item: e.Item, Vector: vec}
	}

	if missing > 0 {
		lgr.Printf("[DEBUG] recomputed %d missing feature vectors", missing)
	}
	return candidates, nil
}
