package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketProgressLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		progress ticketProgress
		want     string
	}{
		{ticketProgress{action: "Fetching", tickets: 3, profile: "work"}, "Fetching 3 tickets on work"},
		{ticketProgress{action: "Updating", tickets: 1, profile: "work"}, "Updating ticket on work"},
		{ticketProgress{action: "Searching"}, "Searching tickets"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.progress.String())
	}
}

func TestProgressModelShowsElapsedTimeForSlowCalls(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := newProgressModel(ticketProgress{action: "Fetching", tickets: 2, profile: "work"}, clock, nil)

	assert.Contains(t, m.View(), "Fetching 2 tickets on work...")
	assert.NotContains(t, m.View(), "(")

	now = now.Add(1250 * time.Millisecond)
	assert.Contains(t, m.View(), "Fetching 2 tickets on work... (1.2s)")

	failure := errors.New("ticket 9 does not exist")
	updated, _ := m.Update(progressDoneMsg{err: failure})
	final, ok := updated.(progressModel)
	require.True(t, ok)
	assert.Empty(t, final.View())
	assert.ErrorIs(t, final.err, failure)
}
