package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"accountability/internal/model"
)

func TestClassifyDeadline(t *testing.T) {
	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     model.Bucket
	}{
		{"same instant", now, model.BucketToday},
		{"later today", endOfDay(now), model.BucketToday},
		{"earlier today", now.Add(-2 * time.Hour), model.BucketToday},
		{"yesterday", now.AddDate(0, 0, -1), model.BucketToday},
		{"tomorrow", now.AddDate(0, 0, 1), model.BucketThisWeek},
		{"seven days out", now.AddDate(0, 0, 7), model.BucketThisWeek},
		{"eight days out", now.AddDate(0, 0, 8), model.BucketLater},
		{"next month", now.AddDate(0, 1, 0), model.BucketLater},
		{"tomorrow early morning", time.Date(2024, time.January, 16, 0, 30, 0, 0, time.UTC), model.BucketThisWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDeadline(tt.deadline, now))
		})
	}
}
