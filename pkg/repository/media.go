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
)

// UpsertOutcome reports what an upsert did to the stored row
type UpsertOutcome string

const (
	OutcomeWritten      UpsertOutcome = "written"
	OutcomeSkippedStale UpsertOutcome = "skipped-stale"
)

// MediaRepository is the metadata store: a typed accessor over the cached
// media items. Upsert is the only mutation path and enforces the monotonic
// fetched_at rule.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// mediaSQL represents a media item row for SQL operations
type mediaSQL struct {
	ID               string     `db:"id"`
	MediaType        string     `db:"media_type"`
	Title            string     `db:"title"`
	Overview         string     `db:"overview"`
	Genres           genresSQL  `db:"genres"`
	VoteAverage      float64    `db:"vote_average"`
	VoteCount        int        `db:"vote_count"`
	Popularity       float64    `db:"popularity"`
	ReleaseDate      *time.Time `db:"release_date"`
	OriginalLanguage string     `db:"original_language"`
	RuntimeMinutes   int        `db:"runtime_minutes"`
	PosterPath       string     `db:"poster_path"`
	BackdropPath     string     `db:"backdrop_path"`
	FetchedAt        time.Time  `db:"fetched_at"`
	SourceTag        string     `db:"source_tag"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// genresSQL is a JSON array of genre codes for SQL operations
type genresSQL []int

// Value implements driver.Valuer for database storage
func (g genresSQL) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner for database retrieval
func (g *genresSQL) Scan(value interface{}) error {
	if value == nil {
		*g = genresSQL{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported genres type %T", value)
	}

	return json.Unmarshal(data, g)
}

// Upsert writes a media item snapshot. A write whose fetchedAt is older than
// the stored row is rejected as stale and leaves the row unchanged; equal or
// newer timestamps overwrite, which makes the operation idempotent for
// identical input.
func (r *MediaRepository) Upsert(ctx context.Context, item *domain.MediaItem, fetchedAt time.Time, sourceTag domain.ScheduleType) (UpsertOutcome, error) {
	row := &mediaSQL{
		ID:               item.ID,
		MediaType:        string(item.Type),
		Title:            item.Title,
		Overview:         item.Overview,
		Genres:           genresSQL(item.Genres),
		VoteAverage:      item.VoteAverage,
		VoteCount:        item.VoteCount,
		Popularity:       item.Popularity,
		ReleaseDate:      item.ReleaseDate,
		OriginalLanguage: item.OriginalLanguage,
		RuntimeMinutes:   item.RuntimeMinutes,
		PosterPath:       item.PosterPath,
		BackdropPath:     item.BackdropPath,
		FetchedAt:        fetchedAt.UTC(),
		SourceTag:        string(sourceTag),
	}

	query := `
		INSERT INTO media_items (
			id, media_type, title, overview, genres, vote_average, vote_count,
			popularity, release_date, original_language, runtime_minutes,
			poster_path, backdrop_path, fetched_at, source_tag
		) VALUES (
			:id, :media_type, :title, :overview, :genres, :vote_average, :vote_count,
			:popularity, :release_date, :original_language, :runtime_minutes,
			:poster_path, :backdrop_path, :fetched_at, :source_tag
		)
		ON CONFLICT(id, media_type) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			genres = excluded.genres,
			vote_average = excluded.vote_average,
			vote_count = excluded.vote_count,
			popularity = excluded.popularity,
			release_date = excluded.release_date,
			original_language = excluded.original_language,
			runtime_minutes = excluded.runtime_minutes,
			poster_path = excluded.poster_path,
			backdrop_path = excluded.backdrop_path,
			fetched_at = excluded.fetched_at,
			source_tag = excluded.source_tag,
			updated_at = CURRENT_TIMESTAMP
		WHERE excluded.fetched_at >= media_items.fetched_at
	`

	var affected int64
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		result, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("upsert media item: %w", err)}
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("rows affected: %w", err)}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("upsert %s/%s: %w", item.Type, item.ID, err)
	}

	if affected == 0 {
		return OutcomeSkippedStale, nil
	}
	return OutcomeWritten, nil
}

// Get retrieves a media item by its composite key, nil when absent
func (r *MediaRepository) Get(ctx context.Context, id string, mediaType domain.MediaType) (*domain.MediaItem, error) {
	var row mediaSQL
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM media_items WHERE id = ? AND media_type = ?", id, string(mediaType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media item: %w", err)
	}
	item := row.toDomain()
	return &item.Item, nil
}

// GetEntry retrieves a full cache entry including fetch bookkeeping, nil when absent
func (r *MediaRepository) GetEntry(ctx context.Context, id string, mediaType domain.MediaType) (*domain.CacheEntry, error) {
	var row mediaSQL
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM media_items WHERE id = ? AND media_type = ?", id, string(mediaType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}
	return row.toDomain(), nil
}

// CandidatePool returns cached entries matching the filter. The result is
// finite and the query restarts from scratch on every call, ordered newest
// fetch first with id as a deterministic tie-break.
func (r *MediaRepository) CandidatePool(ctx context.Context, filter domain.CandidateFilter) ([]domain.CacheEntry, error) {
	query := "SELECT * FROM media_items WHERE 1=1"
	var args []interface{}

	if filter.MediaType != "" {
		query += " AND media_type = ?"
		args = append(args, string(filter.MediaType))
	}
	if filter.MaxAge > 0 {
		query += " AND fetched_at >= ?"
		args = append(args, time.Now().Add(-filter.MaxAge).UTC())
	}
	query += " ORDER BY fetched_at DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var rows []mediaSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query candidate pool: %w", err)
	}

	entries := make([]domain.CacheEntry, len(rows))
	for i, row := range rows {
		entries[i] = *row.toDomain()
	}
	return entries, nil
}

// Count returns the total number of cached media items
func (r *MediaRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM media_items"); err != nil {
		return 0, fmt.Errorf("count media items: %w", err)
	}
	return count, nil
}

// toDomain converts a SQL row to a domain cache entry
func (m *mediaSQL) toDomain() *domain.CacheEntry {
	return &domain.CacheEntry{
		Item: domain.MediaItem{
			ID:               m.ID,
			Type:             domain.MediaType(m.MediaType),
			Title:            m.Title,
			Overview:         m.Overview,
			Genres:           []int(m.Genres),
			VoteAverage:      m.VoteAverage,
			VoteCount:        m.VoteCount,
			Popularity:       m.Popularity,
			ReleaseDate:      m.ReleaseDate,
			OriginalLanguage: m.OriginalLanguage,
			RuntimeMinutes:   m.RuntimeMinutes,
			PosterPath:       m.PosterPath,
			BackdropPath:     m.BackdropPath,
		},
		FetchedAt: m.FetchedAt,
		SourceTag: domain.ScheduleType(m.SourceTag),
	}
}
