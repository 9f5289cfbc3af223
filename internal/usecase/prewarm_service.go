package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/platform/id"
	"github.com/statline/gameday/internal/platform/logging"
)

// slateRefresher is the slice of the slate service the prewarm job needs.
type slateRefresher interface {
	RefreshDate(ctx context.Context, date string) game.DaySlate
}

type PrewarmInput struct {
	Dates      []string
	MaxWorkers int
}

type PrewarmResult struct {
	RunID        string              `json:"run_id"`
	DateCount    int                 `json:"date_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Dates        []PrewarmDateResult `json:"dates"`
}

type PrewarmDateResult struct {
	Date       string `json:"date"`
	Status     string `json:"status"`
	Games      int    `json:"games"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	prewarmStatusSuccess = "success"
	prewarmStatusFailed  = "failed"

	// Prewarm fans out against a single upstream; two in-flight dates is
	// the most it is allowed to hold open.
	maxPrewarmWorkers = 2
)

// PrewarmService refreshes the slate cache for a set of dates through a
// bounded worker pool. It is operator-triggered via an internal job route.
type PrewarmService struct {
	slates slateRefresher
	idGen  id.Generator
	logger *logging.Logger
}

func NewPrewarmService(slates slateRefresher, idGen id.Generator, logger *logging.Logger) *PrewarmService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PrewarmService{
		slates: slates,
		idGen:  idGen,
		logger: logger,
	}
}

func (s *PrewarmService) Prewarm(ctx context.Context, input PrewarmInput) (PrewarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrewarmService.Prewarm")
	defer span.End()

	if s.slates == nil {
		return PrewarmResult{}, fmt.Errorf("%w: slate service is not configured", ErrDependencyUnavailable)
	}

	dates, err := normalizePrewarmDates(input.Dates)
	if err != nil {
		return PrewarmResult{}, err
	}

	workerCount := normalizePrewarmWorkerCount(input.MaxWorkers, len(dates))
	result := PrewarmResult{
		RunID:       s.newRunID(),
		DateCount:   len(dates),
		WorkerCount: workerCount,
		Dates:       make([]PrewarmDateResult, 0, len(dates)),
	}
	if len(dates) == 0 {
		return result, nil
	}

	results := make(chan PrewarmDateResult, len(dates))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return PrewarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, date := range dates {
		date := date
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := PrewarmDateResult{
				Date:   date,
				Status: prewarmStatusSuccess,
			}

			slate := s.slates.RefreshDate(ctx, date)
			row.Games = len(slate.Games)
			if slate.Error != "" {
				row.Status = prewarmStatusFailed
				row.Message = slate.Error
			}
			row.DurationMs = time.Since(start).Milliseconds()

			if row.Status == prewarmStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return PrewarmResult{}, fmt.Errorf("submit date to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Dates = append(result.Dates, row)
	}

	sort.SliceStable(result.Dates, func(i, j int) bool {
		return result.Dates[i].Date < result.Dates[j].Date
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "slate prewarm finished",
		"runID", result.RunID,
		"dates", result.DateCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

func normalizePrewarmDates(dates []string) ([]string, error) {
	seen := make(map[string]bool, len(dates))
	normalized := make([]string, 0, len(dates))

	for _, date := range dates {
		if _, err := time.Parse(slateDateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, date)
		}
		if seen[date] {
			continue
		}
		seen[date] = true
		normalized = append(normalized, date)
	}

	return normalized, nil
}

func normalizePrewarmWorkerCount(requested, dateCount int) int {
	count := requested
	if count <= 0 {
		count = maxPrewarmWorkers
	}
	if count > maxPrewarmWorkers {
		count = maxPrewarmWorkers
	}
	if dateCount > 0 && count > dateCount {
		count = dateCount
	}
	if count < 1 {
		count = 1
	}

	return count
}

func (s *PrewarmService) newRunID() string {
	if s.idGen == nil {
		return ""
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return ""
	}

	return runID
}
