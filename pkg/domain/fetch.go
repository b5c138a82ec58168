package domain

import "fmt"

// ScheduleType selects which category set a fetch run covers
type ScheduleType string

const (
	ScheduleDaily  ScheduleType = "daily"
	ScheduleWeekly ScheduleType = "weekly"
	ScheduleFull   ScheduleType = "full"
)

// ParseScheduleType converts a string to a ScheduleType
func ParseScheduleType(s string) (ScheduleType, error) {
	switch ScheduleType(s) {
	case ScheduleDaily, ScheduleWeekly, ScheduleFull:
		return ScheduleType(s), nil
	}
	return "", fmt.Errorf("unknown schedule type %q", s)
}

// FetchStatus classifies the outcome of a fetch run
type FetchStatus string

const (
	FetchCompleted       FetchStatus = "completed"
	FetchPartiallyFailed FetchStatus = "partiallyFailed"
	FetchFailed          FetchStatus = "failed"
)

// CacheStats reports cache-wide counters included in a fetch result
type CacheStats struct {
	TotalCachedItems int `json:"totalCachedItems"`
}

// FetchResult is the structured outcome of a single orchestrator run
type FetchResult struct {
	Success          bool         `json:"success"`
	Status           FetchStatus  `json:"status"`
	ScheduleType     ScheduleType `json:"scheduleType"`
	ItemsFetched     int          `json:"itemsFetched"`
	ItemsFailed      int          `json:"itemsFailed"`
	CategoriesFailed int          `json:"categoriesFailed"`
	DurationMs       int64        `json:"durationMs"`
	CacheStats       CacheStats   `json:"cacheStats"`
	Error            string       `json:"error,omitempty"`
}
