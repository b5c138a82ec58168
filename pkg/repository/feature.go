package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/feature"
)

// FeatureKey identifies a stored vector, same composite key as media items
type FeatureKey struct {
	ID        string
	MediaType domain.MediaType
}

// FeatureRepository is the feature store: derived per-item vectors keyed like
// the metadata store. It is an optimization cache, not a source of truth -
// vectors can always be recomputed from the media item that produced them.
type FeatureRepository struct {
	db *sqlx.DB
}

// NewFeatureRepository creates a new feature repository
func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

// featureSQL represents a feature vector row for SQL operations
type featureSQL struct {
	ID              string     `db:"id"`
	MediaType       string     `db:"media_type"`
	GenreWeights    weightsSQL `db:"genre_weights"`
	PopularityNorm  float64    `db:"popularity_norm"`
	RecencyScore    float64    `db:"recency_score"`
	VoteReliability float64    `db:"vote_reliability"`
	ComputedAt      time.Time  `db:"computed_at"`
}

// weightsSQL is a JSON object of genre code to weight for SQL operations
type weightsSQL map[int]float64

// Value implements driver.Valuer for database storage
func (w weightsSQL) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner for database retrieval
func (w *weightsSQL) Scan(value interface{}) error {
	if value == nil {
		*w = weightsSQL{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported genre weights type %T", value)
	}

	return json.Unmarshal(data, w)
}

// Upsert stores a derived vector, overwriting any previous one
func (r *FeatureRepository) Upsert(ctx context.Context, id string, mediaType domain.MediaType, vec feature.Vector) error {
	row := &featureSQL{
		ID:              id,
		MediaType:       string(mediaType),
		GenreWeights:    weightsSQL(vec.GenreWeights),
		PopularityNorm:  vec.PopularityNorm,
		RecencyScore:    vec.RecencyScore,
		VoteReliability: vec.VoteReliability,
		ComputedAt:      time.Now().UTC(),
	}

	query := `
		INSERT INTO feature_vectors (
			id, media_type, genre_weights, popularity_norm, recency_score, vote_reliability, computed_at
		) VALUES (
			:id, :media_type, :genre_weights, :popularity_norm, :recency_score, :vote_reliability, :computed_at
		)
		ON CONFLICT(id, media_type) DO UPDATE SET
			genre_weights = excluded.genre_weights,
			popularity_norm = excluded.popularity_norm,
			recency_score = excluded.recency_score,
			vote_reliability = excluded.vote_reliability,
			computed_at = excluded.computed_at
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("upsert feature vector: %w", err)}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert vector %s/%s: %w", mediaType, id, err)
	}
	return nil
}

// Get retrieves a single vector, nil when absent
func (r *FeatureRepository) Get(ctx context.Context, id string, mediaType domain.MediaType) (*feature.Vector, error) {
	var row featureSQL
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM feature_vectors WHERE id = ? AND media_type = ?", id, string(mediaType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get feature vector: %w", err)
	}
	vec := row.toVector()
	return &vec, nil
}

// GetMany retrieves vectors for the given keys. Missing keys are simply
// absent from the result, never an error.
func (r *FeatureRepository) GetMany(ctx context.Context, keys []FeatureKey) (map[FeatureKey]feature.Vector, error) {
	result := make(map[FeatureKey]feature.Vector, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	// sqlite has no tuple IN support worth relying on, chunk by media type
	byType := make(map[domain.MediaType][]string)
	for _, k := range keys {
		byType[k.MediaType] = append(byType[k.MediaType], k.ID)
	}

	for mediaType, ids := range byType {
		query, args, err := sqlx.In(
			"SELECT * FROM feature_vectors WHERE media_type = ? AND id IN (?)", string(mediaType), ids)
		if err != nil {
			return nil, fmt.Errorf("build getmany query: %w", err)
		}

		var rows []featureSQL
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("get feature vectors: %w", err)
		}

		for _, row := range rows {
			result[FeatureKey{ID: row.ID, MediaType: domain.MediaType(row.MediaType)}] = row.toVector()
		}
	}

	return result, nil
}

// toVector converts a SQL row to a feature vector
func (f *featureSQL) toVector() feature.Vector {
	return feature.Vector{
		GenreWeights:    map[int]float64(f.GenreWeights),
		PopularityNorm:  f.PopularityNorm,
		RecencyScore:    f.RecencyScore,
		VoteReliability: f.VoteReliability,
	}
}
