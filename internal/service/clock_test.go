package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextWeeklyTarget(t *testing.T) {
	// 2025-06-10 is a Tuesday.
	tuesday10 := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		weekday time.Weekday
		hour    int
		minute  int
		want    time.Time
	}{
		{
			name:    "tuesday morning targets upcoming sunday evening",
			now:     tuesday10,
			weekday: time.Sunday,
			hour:    22,
			want:    time.Date(2025, time.June, 15, 22, 0, 0, 0, time.UTC),
		},
		{
			name:    "same day before target fires today",
			now:     tuesday10,
			weekday: time.Tuesday,
			hour:    22,
			want:    time.Date(2025, time.June, 10, 22, 0, 0, 0, time.UTC),
		},
		{
			name:    "same day after target rolls a full week",
			now:     tuesday10,
			weekday: time.Tuesday,
			hour:    9,
			want:    time.Date(2025, time.June, 17, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "exactly at the target rolls a full week",
			now:     time.Date(2025, time.June, 15, 22, 0, 0, 0, time.UTC), // Sunday 22:00
			weekday: time.Sunday,
			hour:    22,
			want:    time.Date(2025, time.June, 22, 22, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeeklyTarget(tt.now, tt.weekday, tt.hour, tt.minute)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now), "target must be strictly in the future")
		})
	}
}
