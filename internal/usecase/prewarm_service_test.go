package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/platform/id"
)

type stubRefresher struct {
	mu     sync.Mutex
	slates map[string]game.DaySlate
	calls  []string
}

func (s *stubRefresher) RefreshDate(_ context.Context, date string) game.DaySlate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, date)

	return s.slates[date]
}

func TestPrewarm_RefreshesEveryDateSorted(t *testing.T) {
	refresher := &stubRefresher{slates: map[string]game.DaySlate{
		"2026-07-04": {Date: "2026-07-04", Games: make([]game.Snapshot, 15)},
		"2026-07-05": {Date: "2026-07-05", Games: make([]game.Snapshot, 12)},
		"2026-07-03": {Date: "2026-07-03", Error: "schedule_error: upstream timeout"},
	}}
	svc := NewPrewarmService(refresher, id.NewRandomGenerator(), nil)

	result, err := svc.Prewarm(context.Background(), PrewarmInput{
		Dates: []string{"2026-07-04", "2026-07-05", "2026-07-03", "2026-07-04"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.RunID)
	require.Equal(t, 3, result.DateCount, "duplicate dates collapse")
	require.Equal(t, 2, result.SuccessCount)
	require.Equal(t, 1, result.FailedCount)

	require.Len(t, result.Dates, 3)
	require.Equal(t, "2026-07-03", result.Dates[0].Date)
	require.Equal(t, prewarmStatusFailed, result.Dates[0].Status)
	require.Equal(t, "2026-07-04", result.Dates[1].Date)
	require.Equal(t, 15, result.Dates[1].Games)
}

func TestPrewarm_RejectsMalformedDates(t *testing.T) {
	svc := NewPrewarmService(&stubRefresher{}, nil, nil)

	_, err := svc.Prewarm(context.Background(), PrewarmInput{Dates: []string{"July 4"}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPrewarm_EmptyInputIsANoop(t *testing.T) {
	refresher := &stubRefresher{}
	svc := NewPrewarmService(refresher, nil, nil)

	result, err := svc.Prewarm(context.Background(), PrewarmInput{})
	require.NoError(t, err)
	require.Zero(t, result.DateCount)
	require.Empty(t, refresher.calls)
}

func TestNormalizePrewarmWorkerCount(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		dates     int
		want      int
	}{
		{"defaults to the cap", 0, 5, 2},
		{"never exceeds the cap", 10, 5, 2},
		{"never exceeds the date count", 2, 1, 1},
		{"at least one worker", -3, 0, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePrewarmWorkerCount(tc.requested, tc.dates); got != tc.want {
				t.Fatalf("worker count: got=%d want=%d", got, tc.want)
			}
		})
	}
}
