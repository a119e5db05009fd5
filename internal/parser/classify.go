package parser

import (
	"math"
	"time"

	"accountability/internal/model"
)

// ClassifyDeadline maps a deadline to its initial bucket based on the
// calendar-day difference to now, not elapsed hours.
func ClassifyDeadline(deadline, now time.Time) model.Bucket {
	diff := startOfDay(deadline).Sub(startOfDay(now))
	days := int(math.Ceil(diff.Hours() / 24))

	switch {
	case days <= 0:
		return model.BucketToday
	case days <= 7:
		return model.BucketThisWeek
	default:
		return model.BucketLater
	}
}
