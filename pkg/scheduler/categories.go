package scheduler

import (
	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/provider"
)

// CategoriesFor resolves the provider categories covered by a schedule type.
// The mapping is an explicit table so adding a schedule type is a
// compile-checked change rather than a string comparison scattered around.
func CategoriesFor(schedule domain.ScheduleType) []provider.Category {
	switch schedule {
	case domain.ScheduleDaily:
		return provider.DailyCategories()
	case domain.ScheduleWeekly:
		return provider.WeeklyCategories()
	case domain.ScheduleFull:
		return append(provider.DailyCategories(), provider.WeeklyCategories()...)
	}
	return nil
}
