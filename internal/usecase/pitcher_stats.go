package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/statline/gameday/internal/domain/archive"
	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/platform/cache"
	"github.com/statline/gameday/internal/platform/logging"
)

// personFetcher is the slice of the upstream client this service needs.
type personFetcher interface {
	FetchPersonWithPitchingStats(ctx context.Context, playerID int64, season int) (*feed.Person, []byte, error)
}

// PitcherStatsService resolves pitcher season lines through a long-TTL
// cache; the season stat line moves slowly, so staleness is acceptable.
type PitcherStatsService struct {
	client   personFetcher
	cache    *cache.Store
	season   int
	archiver archive.Repository
	logger   *logging.Logger
}

func NewPitcherStatsService(client personFetcher, store *cache.Store, season int, archiver archive.Repository, logger *logging.Logger) *PitcherStatsService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PitcherStatsService{
		client:   client,
		cache:    store,
		season:   season,
		archiver: archiver,
		logger:   logger,
	}
}

func (s *PitcherStatsService) Line(ctx context.Context, playerID int64) (game.PitcherLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PitcherStatsService.Line")
	defer span.End()

	if playerID == 0 {
		return game.PitcherLine{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	key := fmt.Sprintf("pitcher:%d:%d", s.season, playerID)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.fetchLine(ctx, playerID)
	})
	if err != nil {
		return game.PitcherLine{}, err
	}

	line, ok := value.(game.PitcherLine)
	if !ok {
		return game.PitcherLine{}, fmt.Errorf("unexpected cached pitcher line type %T", value)
	}

	return line, nil
}

func (s *PitcherStatsService) fetchLine(ctx context.Context, playerID int64) (game.PitcherLine, error) {
	person, raw, err := s.client.FetchPersonWithPitchingStats(ctx, playerID, s.season)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return game.PitcherLine{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
		}

		return game.PitcherLine{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if person == nil || len(person.People) == 0 {
		return game.PitcherLine{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	s.archivePerson(ctx, playerID, raw)

	detail := person.People[0]
	line := game.PitcherLine{
		ID:   detail.ID,
		Name: detail.FullName,
	}
	if detail.PitchHand != nil {
		line.Hand = detail.PitchHand.Code
	}

	if stat, ok := seasonPitchingSplit(detail); ok {
		line.Wins = feed.Int(stat, "wins", "w")
		line.Losses = feed.Int(stat, "losses", "l")
		line.ERA = feed.Text(stat, "era")
	}

	return line, nil
}

func (s *PitcherStatsService) archivePerson(ctx context.Context, playerID int64, raw []byte) {
	if s.archiver == nil || len(raw) == 0 {
		return
	}

	payload := archive.Payload{
		Source:     "statsapi",
		EntityType: archive.EntityTypePerson,
		EntityKey:  fmt.Sprintf("%d:%d", s.season, playerID),
		Payload:    raw,
		Hash:       payloadHash(raw),
		FetchedAt:  time.Now().UTC(),
	}
	if err := s.archiver.Upsert(ctx, []archive.Payload{payload}); err != nil {
		s.logger.WarnContext(ctx, "person archive failed", "playerID", playerID, "error", err)
	}
}

func seasonPitchingSplit(detail feed.PersonDetail) (map[string]any, bool) {
	for _, group := range detail.Stats {
		if group.Group.DisplayName != "pitching" {
			continue
		}
		for _, split := range group.Splits {
			if len(split.Stat) > 0 {
				return split.Stat, true
			}
		}
	}

	return nil, false
}
