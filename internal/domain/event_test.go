package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "unpublished is always draft",
			event: Event{Published: false, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
			want:  EventStatusDraft,
		},
		{
			name:  "published before start is scheduled",
			event: Event{Published: true, StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)},
			want:  EventStatusScheduled,
		},
		{
			name:  "published between start and end is ongoing",
			event: Event{Published: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
			want:  EventStatusOngoing,
		},
		{
			name:  "published at exact start is ongoing",
			event: Event{Published: true, StartDate: now, EndDate: now.Add(time.Hour)},
			want:  EventStatusOngoing,
		},
		{
			name:  "published after end is finished",
			event: Event{Published: true, StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-time.Hour)},
			want:  EventStatusFinished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.event.Status(now))
		})
	}
}
