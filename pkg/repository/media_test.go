package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/20ns/movierec-sub005/pkg/domain"
)

func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()

	// create temp file for test database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	repos, err := NewRepositories(context.Background(), Config{
		DSN: "file:" + tmpFile.Name() + "?mode=rwc",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repos.DB.Close()
		_ = os.Remove(tmpFile.Name())
	})

	return repos
}

func testItem(id string) *domain.MediaItem {
	release := time.Date(2021, 5, 12, 0, 0, 0, 0, time.UTC)
	return &domain.MediaItem{
		ID:               id,
		Type:             domain.MediaTypeMovie,
		Title:            "Test Movie " + id,
		Overview:         "an overview",
		Genres:           []int{28, 878},
		VoteAverage:      7.4,
		VoteCount:        1500,
		Popularity:       42.5,
		ReleaseDate:      &release,
		OriginalLanguage: "en",
		RuntimeMinutes:   121,
		PosterPath:       "/poster.jpg",
	}
}

func TestRepositories_InitSchema(t *testing.T) {
	repos := setupTestRepos(t)

	var count int
	err := repos.DB.Get(&count, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name IN ('media_items', 'feature_vectors')
	`)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMediaRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("insert then read back", func(t *testing.T) {
		repos := setupTestRepos(t)

		fetchedAt := time.Now().UTC().Truncate(time.Second)
		outcome, err := repos.Media.Upsert(ctx, testItem("100"), fetchedAt, domain.ScheduleDaily)
		require.NoError(t, err)
		assert.Equal(t, OutcomeWritten, outcome)

		got, err := repos.Media.Get(ctx, "100", domain.MediaTypeMovie)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Test Movie 100", got.Title)
		assert.Equal(t, []int{28, 878}, got.Genres)
		assert.Equal(t, 1500, got.VoteCount)
		require.NotNil(t, got.ReleaseDate)
		assert.Equal(t, 2021, got.ReleaseDate.Year())
	})

	t.Run("newer snapshot overwrites", func(t *testing.T) {
		repos := setupTestRepos(t)

		first := time.Now().UTC().Add(-time.Hour)
		_, err := repos.Media.Upsert(ctx, testItem("200"), first, domain.ScheduleDaily)
		require.NoError(t, err)

		updated := testItem("200")
		updated.Title = "Updated Title"
		updated.Popularity = 99.9
		outcome, err := repos.Media.Upsert(ctx, updated, first.Add(time.Hour), domain.ScheduleWeekly)
		require.NoError(t, err)
		assert.Equal(t, OutcomeWritten, outcome)

		entry, err := repos.Media.GetEntry(ctx, "200", domain.MediaTypeMovie)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Updated Title", entry.Item.Title)
		assert.Equal(t, domain.ScheduleWeekly, entry.SourceTag)
	})

	t.Run("stale snapshot rejected", func(t *testing.T) {
		repos := setupTestRepos(t)

		now := time.Now().UTC()
		_, err := repos.Media.Upsert(ctx, testItem("300"), now, domain.ScheduleDaily)
		require.NoError(t, err)

		stale := testItem("300")
		stale.Title = "Stale Title"
		outcome, err := repos.Media.Upsert(ctx, stale, now.Add(-time.Hour), domain.ScheduleDaily)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkippedStale, outcome)

		got, err := repos.Media.Get(ctx, "300", domain.MediaTypeMovie)
		require.NoError(t, err)
		assert.Equal(t, "Test Movie 300", got.Title) // unchanged
	})

	t.Run("equal timestamp overwrites, idempotent", func(t *testing.T) {
		repos := setupTestRepos(t)

		now := time.Now().UTC()
		_, err := repos.Media.Upsert(ctx, testItem("400"), now, domain.ScheduleDaily)
		require.NoError(t, err)

		outcome, err := repos.Media.Upsert(ctx, testItem("400"), now, domain.ScheduleDaily)
		require.NoError(t, err)
		assert.Equal(t, OutcomeWritten, outcome)

		count, err := repos.Media.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("same id different media type is a distinct row", func(t *testing.T) {
		repos := setupTestRepos(t)

		now := time.Now().UTC()
		_, err := repos.Media.Upsert(ctx, testItem("500"), now, domain.ScheduleDaily)
		require.NoError(t, err)

		show := testItem("500")
		show.Type = domain.MediaTypeTV
		show.Title = "Test Show 500"
		_, err = repos.Media.Upsert(ctx, show, now, domain.ScheduleDaily)
		require.NoError(t, err)

		count, err := repos.Media.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestMediaRepository_Get(t *testing.T) {
	repos := setupTestRepos(t)

	got, err := repos.Media.Get(context.Background(), "missing", domain.MediaTypeMovie)
	require.NoError(t, err)
	assert.Nil(t, got)

	entry, err := repos.Media.GetEntry(context.Background(), "missing", domain.MediaTypeMovie)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestMediaRepository_CandidatePool(t *testing.T) {
	ctx := context.Background()
	repos := setupTestRepos(t)

	now := time.Now().UTC()

	fresh := testItem("1")
	_, err := repos.Media.Upsert(ctx, fresh, now, domain.ScheduleDaily)
	require.NoError(t, err)

	old := testItem("2")
	_, err = repos.Media.Upsert(ctx, old, now.Add(-72*time.Hour), domain.ScheduleWeekly)
	require.NoError(t, err)

	show := testItem("3")
	show.Type = domain.MediaTypeTV
	_, err = repos.Media.Upsert(ctx, show, now, domain.ScheduleDaily)
	require.NoError(t, err)

	t.Run("no filter returns all, newest first", func(t *testing.T) {
		entries, err := repos.Media.CandidatePool(ctx, domain.CandidateFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "2", entries[2].Item.ID) // oldest fetch last
	})

	t.Run("media type filter", func(t *testing.T) {
		entries, err := repos.Media.CandidatePool(ctx, domain.CandidateFilter{MediaType: domain.MediaTypeTV})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "3", entries[0].Item.ID)
	})

	t.Run("freshness window excludes old fetches", func(t *testing.T) {
		entries, err := repos.Media.CandidatePool(ctx, domain.CandidateFilter{MaxAge: 24 * time.Hour})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		for _, e := range entries {
			assert.NotEqual(t, "2", e.Item.ID)
		}
	})

	t.Run("limit caps the pool", func(t *testing.T) {
		entries, err := repos.Media.CandidatePool(ctx, domain.CandidateFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
