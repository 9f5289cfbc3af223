package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/statline/gameday/internal/domain/archive"
	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/platform/cache"
	"github.com/statline/gameday/internal/platform/logging"
	"github.com/statline/gameday/internal/platform/resilience"
)

// feedFetcher is the slice of the upstream client the slate service needs.
// Fetches also return the raw body for best-effort archival.
type feedFetcher interface {
	FetchSchedule(ctx context.Context, date string) (*feed.Schedule, []byte, error)
	FetchLiveFeed(ctx context.Context, gamePk int64) (*feed.LiveFeed, []byte, error)
}

// SlateTTLs are the response-cache windows: short while any game on the
// payload is live, long otherwise, and a brief negative window after an
// essential upstream failure.
type SlateTTLs struct {
	Live  time.Duration
	Idle  time.Duration
	Error time.Duration
}

func NormalizeSlateTTLs(ttls SlateTTLs) SlateTTLs {
	if ttls.Live <= 0 {
		ttls.Live = 15 * time.Second
	}
	if ttls.Idle <= 0 {
		ttls.Idle = 5 * time.Minute
	}
	if ttls.Error <= 0 {
		ttls.Error = 10 * time.Second
	}

	return ttls
}

// SlateService builds the day-slate, detail, and header payloads. Every
// response is success-shaped: essential upstream failures become typed
// error strings inside the payload, and one game's bad feed never aborts
// the rest of the slate.
type SlateService struct {
	client   feedFetcher
	shaper   *Shaper
	cache    *cache.Store
	archiver archive.Repository
	ttls     SlateTTLs
	logger   *logging.Logger
	flight   resilience.SingleFlight
}

func NewSlateService(
	client feedFetcher,
	shaper *Shaper,
	store *cache.Store,
	archiver archive.Repository,
	ttls SlateTTLs,
	logger *logging.Logger,
) *SlateService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &SlateService{
		client:   client,
		shaper:   shaper,
		cache:    store,
		archiver: archiver,
		ttls:     NormalizeSlateTTLs(ttls),
		logger:   logger,
	}
}

const slateDateLayout = "2006-01-02"

// GamesByDate returns the shaped slate for a date, cached with a TTL that
// tightens while any game is live.
func (s *SlateService) GamesByDate(ctx context.Context, date string) (game.DaySlate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.GamesByDate")
	defer span.End()

	if _, err := time.Parse(slateDateLayout, date); err != nil {
		return game.DaySlate{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	key := "slate:" + date
	if cached, ok := s.cache.Get(ctx, key); ok {
		if slate, ok := cached.(game.DaySlate); ok {
			return slate, nil
		}
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}

		return s.RefreshDate(ctx, date), nil
	})
	if err != nil {
		return game.DaySlate{}, err
	}

	slate, ok := value.(game.DaySlate)
	if !ok {
		return game.DaySlate{}, fmt.Errorf("unexpected cached slate type %T", value)
	}

	return slate, nil
}

// RefreshDate rebuilds the slate for a date from upstream and stores it,
// bypassing any cached entry. The prewarm job calls this directly.
func (s *SlateService) RefreshDate(ctx context.Context, date string) game.DaySlate {
	slate := s.buildSlate(ctx, date)
	s.cache.SetWithTTL(ctx, "slate:"+date, slate, s.slateTTL(slate))

	return slate
}

func (s *SlateService) slateTTL(slate game.DaySlate) time.Duration {
	if slate.Error != "" {
		return s.ttls.Error
	}
	if slate.HasLiveGame() {
		return s.ttls.Live
	}

	return s.ttls.Idle
}

func (s *SlateService) buildSlate(ctx context.Context, date string) game.DaySlate {
	slate := game.DaySlate{
		Date:  date,
		Games: []game.Snapshot{},
	}

	schedule, raw, err := s.client.FetchSchedule(ctx, date)
	if err != nil {
		s.logger.WarnContext(ctx, "schedule fetch failed", "date", date, "error", err)
		slate.Error = "schedule_error: " + err.Error()
		return slate
	}

	payloads := []archive.Payload{schedulePayload(date, raw)}
	records := recordsFromSchedule(schedule)

	for _, scheduled := range scheduledGames(schedule) {
		doc, rawFeed, err := s.client.FetchLiveFeed(ctx, scheduled.GamePk)
		if err != nil {
			s.logger.WarnContext(ctx, "live feed fetch failed", "gamePk", scheduled.GamePk, "error", err)
			slate.Games = append(slate.Games, game.Snapshot{
				GamePk: scheduled.GamePk,
				Status: game.StatusError,
				Error:  "live_fetch_failed: " + err.Error(),
			})
			continue
		}

		payloads = append(payloads, liveFeedPayload(scheduled.GamePk, rawFeed))
		slate.Games = append(slate.Games, s.shaper.Shape(ctx, doc, records))
	}

	s.archivePayloads(ctx, payloads)

	return slate
}

func scheduledGames(schedule *feed.Schedule) []feed.ScheduleGame {
	if schedule == nil {
		return nil
	}

	var games []feed.ScheduleGame
	for _, date := range schedule.Dates {
		games = append(games, date.Games...)
	}

	return games
}

func recordsFromSchedule(schedule *feed.Schedule) map[int64]string {
	records := make(map[int64]string)

	for _, scheduled := range scheduledGames(schedule) {
		for _, side := range []feed.ScheduleTeam{scheduled.Teams.Away, scheduled.Teams.Home} {
			if side.LeagueRecord != nil {
				records[side.Team.ID] = fmt.Sprintf("%d-%d", side.LeagueRecord.Wins, side.LeagueRecord.Losses)
			}
		}
	}

	return records
}

// GameDetail returns the shaped snapshot plus formatted play-by-play rows
// and the meta block for one game.
func (s *SlateService) GameDetail(ctx context.Context, gamePk int64) (game.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.GameDetail")
	defer span.End()

	doc, err := s.fetchFeed(ctx, gamePk)
	if err != nil {
		return game.Detail{}, err
	}

	snapshot := s.shaper.Shape(ctx, doc, nil)

	return game.Detail{
		Game:  snapshot,
		Plays: playRows(doc),
		Meta: game.DetailMeta{
			Venue:     doc.GameData.Venue.Name,
			StartET:   snapshot.StartET,
			Weather:   formatWeather(doc.GameData.Weather),
			Status:    snapshot.Status,
			Decisions: decisionsSummary(doc.LiveData.Decisions),
		},
	}, nil
}

// GameHeader returns the compact page-rendering summary for one game.
func (s *SlateService) GameHeader(ctx context.Context, gamePk int64) (game.Header, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.GameHeader")
	defer span.End()

	doc, err := s.fetchFeed(ctx, gamePk)
	if err != nil {
		return game.Header{}, err
	}

	state := normalizeLiveState(doc.GameData.Status)
	ls := doc.LiveData.Linescore

	header := game.Header{
		GamePk:  doc.GamePk,
		Status:  state.presentation(),
		Chip:    statusChip(state, doc),
		StartET: formatStartET(doc.GameData.Datetime.DateTime),
		Venue:   doc.GameData.Venue.Name,
		Away:    headerSide(doc.GameData.Teams.Away),
		Home:    headerSide(doc.GameData.Teams.Home),
	}
	if state != statePreview {
		header.Away.Score = ptrInt(ls.Teams.Away.Runs)
		header.Home.Score = ptrInt(ls.Teams.Home.Runs)
	}

	return header, nil
}

func (s *SlateService) fetchFeed(ctx context.Context, gamePk int64) (*feed.LiveFeed, error) {
	if gamePk <= 0 {
		return nil, fmt.Errorf("%w: gamePk must be positive", ErrInvalidInput)
	}

	key := fmt.Sprintf("feed:%d", gamePk)
	if cached, ok := s.cache.Get(ctx, key); ok {
		if doc, ok := cached.(*feed.LiveFeed); ok {
			return doc, nil
		}
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}

		doc, raw, err := s.client.FetchLiveFeed(ctx, gamePk)
		if err != nil {
			return nil, err
		}

		ttl := s.ttls.Idle
		if normalizeLiveState(doc.GameData.Status) == stateLive {
			ttl = s.ttls.Live
		}
		s.cache.SetWithTTL(ctx, key, doc, ttl)
		s.archivePayloads(ctx, []archive.Payload{liveFeedPayload(gamePk, raw)})

		return doc, nil
	})
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrNotFound, gamePk)
		}

		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	doc, ok := value.(*feed.LiveFeed)
	if !ok {
		return nil, fmt.Errorf("unexpected cached feed type %T", value)
	}

	return doc, nil
}

// playRows formats the play-by-play table. The heuristic proxies fill
// xBA/xSLG only when the feed has hit data but omits the expected stats.
func playRows(doc *feed.LiveFeed) []game.PlayRow {
	plays := doc.LiveData.Plays.AllPlays
	rows := make([]game.PlayRow, 0, len(plays))

	for _, play := range plays {
		if play.Result.Description == "" {
			continue
		}

		row := game.PlayRow{
			Inning: inningLabel(play.About),
			Play:   play.Result.Description,
			Away:   play.Result.AwayScore,
			Home:   play.Result.HomeScore,
		}

		if metrics, ok := hitMetricsFromPlay(play); ok {
			if metrics.hasEV {
				row.EV = formatExitVelocity(metrics.ev)
			}
			if metrics.hasLA {
				row.LA = formatLaunchAngle(metrics.la)
			}
			if metrics.hasDist {
				row.Dist = formatDistance(metrics.dist)
			}

			switch {
			case metrics.hasXBA:
				row.XBA = formatExpectedAverage(metrics.xba)
			case metrics.hasEV && metrics.hasLA:
				row.XBA = formatExpectedAverage(estimateExpectedAverage(metrics.ev, metrics.la))
			}
			if metrics.hasEV && metrics.hasLA {
				row.XSLG = formatExpectedAverage(estimateExpectedSlugging(metrics.ev, metrics.la))
			}
		}

		rows = append(rows, row)
	}

	return rows
}

func formatWeather(weather feed.Weather) string {
	switch {
	case weather.Condition == "" && weather.Temp == "":
		return ""
	case weather.Temp == "":
		return weather.Condition
	case weather.Condition == "":
		return weather.Temp + "°"
	default:
		return fmt.Sprintf("%s, %s°", weather.Condition, weather.Temp)
	}
}

func decisionsSummary(decisions *feed.Decisions) string {
	if decisions == nil {
		return ""
	}

	var parts []string
	if decisions.Winner != nil {
		parts = append(parts, "W: "+decisions.Winner.FullName)
	}
	if decisions.Loser != nil {
		parts = append(parts, "L: "+decisions.Loser.FullName)
	}
	if decisions.Save != nil {
		parts = append(parts, "SV: "+decisions.Save.FullName)
	}

	return joinNonEmpty(parts, " • ")
}

func joinNonEmpty(parts []string, sep string) string {
	joined := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if joined != "" {
			joined += sep
		}
		joined += part
	}

	return joined
}

func headerSide(team feed.GameDataTeam) game.HeaderSide {
	side := game.HeaderSide{
		ID:   team.ID,
		Abbr: team.Abbreviation,
		Name: team.Name,
		Logo: teamLogoURL(team.ID, "team-cap-on-light"),
	}
	if team.Record != nil {
		side.Record = fmt.Sprintf("%d-%d", team.Record.Wins, team.Record.Losses)
	}

	return side
}

// teamLogoURL builds the static logo URL for a team id and visual
// variant.
func teamLogoURL(teamID int64, variant string) string {
	return fmt.Sprintf("https://www.mlbstatic.com/team-logos/%s/%d.svg", variant, teamID)
}

// ArchivedPayloads lists the retained raw documents for one game, newest
// first. Serves the internal archive inspection route.
func (s *SlateService) ArchivedPayloads(ctx context.Context, gamePk int64, limit int) ([]archive.Payload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.ArchivedPayloads")
	defer span.End()

	if gamePk <= 0 {
		return nil, fmt.Errorf("%w: gamePk must be positive", ErrInvalidInput)
	}
	if s.archiver == nil {
		return nil, fmt.Errorf("%w: payload archive is not configured", ErrDependencyUnavailable)
	}

	payloads, err := s.archiver.FindByGamePk(ctx, gamePk, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return payloads, nil
}

func (s *SlateService) archivePayloads(ctx context.Context, payloads []archive.Payload) {
	if s.archiver == nil || len(payloads) == 0 {
		return
	}

	if err := s.archiver.Upsert(ctx, payloads); err != nil {
		s.logger.WarnContext(ctx, "payload archive failed", "count", len(payloads), "error", err)
	}
}

func schedulePayload(date string, raw []byte) archive.Payload {
	return archive.Payload{
		Source:     "statsapi",
		EntityType: archive.EntityTypeSchedule,
		EntityKey:  date,
		Payload:    raw,
		Hash:       payloadHash(raw),
		FetchedAt:  time.Now().UTC(),
	}
}

func liveFeedPayload(gamePk int64, raw []byte) archive.Payload {
	return archive.Payload{
		Source:     "statsapi",
		EntityType: archive.EntityTypeLiveFeed,
		EntityKey:  fmt.Sprintf("%d", gamePk),
		GamePk:     gamePk,
		Payload:    raw,
		Hash:       payloadHash(raw),
		FetchedAt:  time.Now().UTC(),
	}
}

func payloadHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
