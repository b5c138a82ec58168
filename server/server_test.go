package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/recommend"
	"github.com/20ns/movierec-sub005/server/mocks"
)

func testServer(fetcher *mocks.FetcherMock, recommender *mocks.RecommenderMock) *Server {
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return ":0", 30 * time.Second
		},
	}
	return New(cfg, fetcher, recommender, "test", false)
}

func TestServer_StatusHandler(t *testing.T) {
	srv := testServer(&mocks.FetcherMock{}, &mocks.RecommenderMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestServer_FetchHandler(t *testing.T) {
	t.Run("successful fetch run", func(t *testing.T) {
		fetcher := &mocks.FetcherMock{
			RunFunc: func(ctx context.Context, schedule domain.ScheduleType) domain.FetchResult {
				return domain.FetchResult{
					Success:      true,
					Status:       domain.FetchCompleted,
					ScheduleType: schedule,
					ItemsFetched: 40,
				}
			},
		}
		srv := testServer(fetcher, &mocks.RecommenderMock{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"daily"}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var result domain.FetchResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, domain.ScheduleDaily, result.ScheduleType)
		assert.Equal(t, 40, result.ItemsFetched)

		calls := fetcher.RunCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, domain.ScheduleDaily, calls[0].Schedule)
	})

	t.Run("invalid schedule type rejected", func(t *testing.T) {
		srv := testServer(&mocks.FetcherMock{}, &mocks.RecommenderMock{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"hourly"}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown schedule type")
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		srv := testServer(&mocks.FetcherMock{}, &mocks.RecommenderMock{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{bad json`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failed run maps to bad gateway", func(t *testing.T) {
		fetcher := &mocks.FetcherMock{
			RunFunc: func(ctx context.Context, schedule domain.ScheduleType) domain.FetchResult {
				return domain.FetchResult{
					Status: domain.FetchFailed,
					Error:  "all categories failed",
				}
			},
		}
		srv := testServer(fetcher, &mocks.RecommenderMock{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"weekly"}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "all categories failed")
	})

	t.Run("concurrent trigger for same schedule conflicts", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		fetcher := &mocks.FetcherMock{
			RunFunc: func(ctx context.Context, schedule domain.ScheduleType) domain.FetchResult {
				close(started)
				<-release
				return domain.FetchResult{Success: true, Status: domain.FetchCompleted}
			},
		}
		srv := testServer(fetcher, &mocks.RecommenderMock{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"daily"}`))
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}()

		<-started // first run is now in flight

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"daily"}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)

		close(release)
		wg.Wait()

		// only the first trigger reached the fetcher
		assert.Len(t, fetcher.RunCalls(), 1)
	})

	t.Run("different schedule types run independently", func(t *testing.T) {
		var running int32
		release := make(chan struct{})
		started := make(chan struct{})
		fetcher := &mocks.FetcherMock{
			RunFunc: func(ctx context.Context, schedule domain.ScheduleType) domain.FetchResult {
				if schedule == domain.ScheduleDaily {
					close(started)
					<-release
				}
				atomic.AddInt32(&running, 1)
				return domain.FetchResult{Success: true, Status: domain.FetchCompleted}
			},
		}
		srv := testServer(fetcher, &mocks.RecommenderMock{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"daily"}`))
			srv.router.ServeHTTP(httptest.NewRecorder(), req)
		}()

		<-started

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", strings.NewReader(`{"scheduleType":"weekly"}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		close(release)
		wg.Wait()
		assert.Len(t, fetcher.RunCalls(), 2)
	})
}

func TestServer_RecommendationsHandler(t *testing.T) {
	t.Run("returns ranked results with warnings", func(t *testing.T) {
		recommender := &mocks.RecommenderMock{
			RecommendFunc: func(ctx context.Context, req recommend.Request) ([]domain.ScoredCandidate, []string, error) {
				return []domain.ScoredCandidate{
					{MediaID: "603", MediaType: domain.MediaTypeMovie, Title: "The Matrix", Score: 4.2,
						MatchReasons: []string{"matches your genre tastes"}},
				}, []string{"unrecognized discovery preference \"bingeable\" dropped"}, nil
			},
		}
		srv := testServer(&mocks.FetcherMock{}, recommender)

		body := `{"preferenceProfile":{"genreRatings":{"878":10},"contentDiscoveryPreference":["bingeable"]},"limit":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Recommendations []domain.ScoredCandidate `json:"recommendations"`
			Warnings        []string                 `json:"warnings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Recommendations, 1)
		assert.Equal(t, "603", resp.Recommendations[0].MediaID)
		assert.Len(t, resp.Warnings, 1)

		calls := recommender.RecommendCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, 10, calls[0].Req.Limit)
		assert.Equal(t, 10, calls[0].Req.Profile.GenreRatings[878])
	})

	t.Run("warnings omitted when empty", func(t *testing.T) {
		recommender := &mocks.RecommenderMock{
			RecommendFunc: func(ctx context.Context, req recommend.Request) ([]domain.ScoredCandidate, []string, error) {
				return []domain.ScoredCandidate{}, nil, nil
			},
		}
		srv := testServer(&mocks.FetcherMock{}, recommender)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "warnings")
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		srv := testServer(&mocks.FetcherMock{}, &mocks.RecommenderMock{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`not json`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service errors map to bad request", func(t *testing.T) {
		recommender := &mocks.RecommenderMock{
			RecommendFunc: func(ctx context.Context, req recommend.Request) ([]domain.ScoredCandidate, []string, error) {
				return nil, nil, errors.New("invalid media type filter")
			},
		}
		srv := testServer(&mocks.FetcherMock{}, recommender)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`{"mediaType":"podcast"}`))
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid media type")
	})
}

func TestServer_Run(t *testing.T) {
	srv := testServer(&mocks.FetcherMock{}, &mocks.RecommenderMock{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	// give the listener a moment, then shut down
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	RenderError(w, nil, errors.New("boom"), http.StatusInternalServerError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())

	w = httptest.NewRecorder()
	RenderError(w, nil, nil, http.StatusBadRequest)
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}
