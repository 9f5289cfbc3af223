package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/statline/gameday/internal/domain/archive"
	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/platform/cache"
)

type stubFeedClient struct {
	mu            sync.Mutex
	schedule      *feed.Schedule
	scheduleErr   error
	feeds         map[int64]*feed.LiveFeed
	feedErrs      map[int64]error
	scheduleCalls int
	feedCalls     int
}

func (c *stubFeedClient) FetchSchedule(context.Context, string) (*feed.Schedule, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleCalls++
	if c.scheduleErr != nil {
		return nil, nil, c.scheduleErr
	}

	return c.schedule, []byte(`{}`), nil
}

func (c *stubFeedClient) FetchLiveFeed(_ context.Context, gamePk int64) (*feed.LiveFeed, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedCalls++
	if err := c.feedErrs[gamePk]; err != nil {
		return nil, nil, err
	}
	doc, ok := c.feeds[gamePk]
	if !ok {
		return nil, nil, fmt.Errorf("no fixture for game %d", gamePk)
	}

	return doc, []byte(`{}`), nil
}

type recordingArchiver struct {
	mu       sync.Mutex
	payloads []archive.Payload
	err      error
}

func (a *recordingArchiver) Upsert(_ context.Context, payloads []archive.Payload) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.payloads = append(a.payloads, payloads...)

	return nil
}

func (a *recordingArchiver) FindByGamePk(_ context.Context, gamePk int64, limit int) ([]archive.Payload, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}

	var matched []archive.Payload
	for _, payload := range a.payloads {
		if payload.GamePk == gamePk {
			matched = append(matched, payload)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func scheduleFixture(date string, gamePks ...int64) *feed.Schedule {
	day := feed.ScheduleDate{Date: date}
	for _, pk := range gamePks {
		day.Games = append(day.Games, feed.ScheduleGame{GamePk: pk})
	}

	return &feed.Schedule{TotalGames: len(gamePks), Dates: []feed.ScheduleDate{day}}
}

func newSlateServiceForTest(client *stubFeedClient, archiver archive.Repository) *SlateService {
	return NewSlateService(
		client,
		NewShaper(nil, nil),
		cache.NewStore(time.Minute),
		archiver,
		SlateTTLs{Live: 15 * time.Second, Idle: 5 * time.Minute, Error: 10 * time.Second},
		nil,
	)
}

func TestGamesByDate_RejectsBadDate(t *testing.T) {
	svc := newSlateServiceForTest(&stubFeedClient{}, nil)

	_, err := svc.GamesByDate(context.Background(), "07/04/2026")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGamesByDate_ScheduleFailureEmbedsTypedError(t *testing.T) {
	client := &stubFeedClient{scheduleErr: errors.New("upstream timeout")}
	svc := newSlateServiceForTest(client, nil)

	slate, err := svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)
	require.Equal(t, "schedule_error: upstream timeout", slate.Error)
	require.Empty(t, slate.Games)
}

func TestGamesByDate_IsolatesPerGameFailures(t *testing.T) {
	goodFeed := finalFeedFixture()
	client := &stubFeedClient{
		schedule: scheduleFixture("2026-07-04", 745804, 745805),
		feeds:    map[int64]*feed.LiveFeed{745804: goodFeed},
		feedErrs: map[int64]error{745805: errors.New("boom")},
	}
	svc := newSlateServiceForTest(client, nil)

	slate, err := svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)
	require.Len(t, slate.Games, 2)

	require.Equal(t, game.StatusFinal, slate.Games[0].Status)
	require.Equal(t, game.StatusError, slate.Games[1].Status)
	require.Equal(t, "live_fetch_failed: boom", slate.Games[1].Error)
	require.Empty(t, slate.Error)
}

func TestGamesByDate_CachesTheSlate(t *testing.T) {
	client := &stubFeedClient{
		schedule: scheduleFixture("2026-07-04", 745804),
		feeds:    map[int64]*feed.LiveFeed{745804: finalFeedFixture()},
	}
	svc := newSlateServiceForTest(client, nil)

	_, err := svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)
	_, err = svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)

	require.Equal(t, 1, client.scheduleCalls)
	require.Equal(t, 1, client.feedCalls)
}

func TestGamesByDate_ArchivesFetchedPayloads(t *testing.T) {
	archiver := &recordingArchiver{}
	client := &stubFeedClient{
		schedule: scheduleFixture("2026-07-04", 745804),
		feeds:    map[int64]*feed.LiveFeed{745804: finalFeedFixture()},
	}
	svc := newSlateServiceForTest(client, archiver)

	_, err := svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)

	require.Len(t, archiver.payloads, 2)
	require.Equal(t, archive.EntityTypeSchedule, archiver.payloads[0].EntityType)
	require.Equal(t, archive.EntityTypeLiveFeed, archiver.payloads[1].EntityType)
	require.Equal(t, int64(745804), archiver.payloads[1].GamePk)
}

func TestGamesByDate_ArchiveFailureIsNonFatal(t *testing.T) {
	archiver := &recordingArchiver{err: errors.New("db down")}
	client := &stubFeedClient{
		schedule: scheduleFixture("2026-07-04", 745804),
		feeds:    map[int64]*feed.LiveFeed{745804: finalFeedFixture()},
	}
	svc := newSlateServiceForTest(client, archiver)

	slate, err := svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)
	require.Len(t, slate.Games, 1)
}

func TestGameDetail_BuildsPlayRowsAndMeta(t *testing.T) {
	doc := finalFeedFixture()
	doc.GameData.Venue.Name = "Camden Yards"
	doc.GameData.Weather = feed.Weather{Condition: "Clear", Temp: "78"}
	doc.LiveData.Plays.AllPlays = []feed.Play{
		{
			Result: feed.PlayResult{Description: "Home run to deep left.", AwayScore: 0, HomeScore: 1},
			About:  feed.PlayAbout{HalfInning: "bottom", Inning: 1},
			PlayEvents: []feed.PlayEvent{
				{HitData: map[string]any{"launchSpeed": 104.0, "launchAngle": 26.0, "totalDistance": 398.0}},
			},
		},
	}
	client := &stubFeedClient{feeds: map[int64]*feed.LiveFeed{745804: doc}}
	svc := newSlateServiceForTest(client, nil)

	detail, err := svc.GameDetail(context.Background(), 745804)
	require.NoError(t, err)

	require.Equal(t, "Camden Yards", detail.Meta.Venue)
	require.Equal(t, "Clear, 78°", detail.Meta.Weather)
	require.Equal(t, game.StatusFinal, detail.Meta.Status)
	require.Equal(t, "W: Winning Arm • L: Losing Arm • SV: Closer Arm", detail.Meta.Decisions)

	require.Len(t, detail.Plays, 1)
	row := detail.Plays[0]
	require.Equal(t, "B1", row.Inning)
	require.Equal(t, "104.0 MPH", row.EV)
	require.Equal(t, "26.0°", row.LA)
	require.Equal(t, "398 ft", row.Dist)
	require.NotEmpty(t, row.XBA, "heuristic xBA should fill in for missing upstream stat")
	require.NotEmpty(t, row.XSLG)
}

func TestGameDetail_RejectsNonPositiveGamePk(t *testing.T) {
	svc := newSlateServiceForTest(&stubFeedClient{}, nil)

	_, err := svc.GameDetail(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGameDetail_MapsUnknownGameToNotFound(t *testing.T) {
	client := &stubFeedClient{
		feedErrs: map[int64]error{999999: fmt.Errorf("%w: /v1.1/game/999999/feed/live", feed.ErrNotFound)},
	}
	svc := newSlateServiceForTest(client, nil)

	_, err := svc.GameDetail(context.Background(), 999999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGameDetail_MapsUpstreamOutageToDependencyUnavailable(t *testing.T) {
	client := &stubFeedClient{
		feedErrs: map[int64]error{745804: errors.New("connection refused")},
	}
	svc := newSlateServiceForTest(client, nil)

	_, err := svc.GameDetail(context.Background(), 745804)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestGameHeader_BuildsLogoURLsAndScores(t *testing.T) {
	client := &stubFeedClient{feeds: map[int64]*feed.LiveFeed{745804: finalFeedFixture()}}
	svc := newSlateServiceForTest(client, nil)

	header, err := svc.GameHeader(context.Background(), 745804)
	require.NoError(t, err)

	require.Equal(t, game.StatusFinal, header.Status)
	require.Equal(t, "https://www.mlbstatic.com/team-logos/team-cap-on-light/110.svg", header.Home.Logo)
	require.Equal(t, "61-37", header.Home.Record)
	require.NotNil(t, header.Home.Score)
	require.Equal(t, 5, *header.Home.Score)
}

func TestArchivedPayloads_RequiresConfiguredArchive(t *testing.T) {
	svc := newSlateServiceForTest(&stubFeedClient{}, nil)

	_, err := svc.ArchivedPayloads(context.Background(), 745804, 0)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestArchivedPayloads_RejectsNonPositiveGamePk(t *testing.T) {
	svc := newSlateServiceForTest(&stubFeedClient{}, &recordingArchiver{})

	_, err := svc.ArchivedPayloads(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestArchivedPayloads_ReturnsRetainedFeedDocuments(t *testing.T) {
	archiver := &recordingArchiver{}
	client := &stubFeedClient{feeds: map[int64]*feed.LiveFeed{745804: finalFeedFixture()}}
	svc := newSlateServiceForTest(client, archiver)

	_, err := svc.GameDetail(context.Background(), 745804)
	require.NoError(t, err)

	payloads, err := svc.ArchivedPayloads(context.Background(), 745804, 10)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, archive.EntityTypeLiveFeed, payloads[0].EntityType)
	require.Equal(t, int64(745804), payloads[0].GamePk)
	require.NotEmpty(t, payloads[0].Hash)
}

func TestRefreshDate_BypassesCachedEntry(t *testing.T) {
	client := &stubFeedClient{
		schedule: scheduleFixture("2026-07-04", 745804),
		feeds:    map[int64]*feed.LiveFeed{745804: finalFeedFixture()},
	}
	svc := newSlateServiceForTest(client, nil)

	_, err := svc.GamesByDate(context.Background(), "2026-07-04")
	require.NoError(t, err)

	slate := svc.RefreshDate(context.Background(), "2026-07-04")
	require.Len(t, slate.Games, 1)
	require.Equal(t, 2, client.scheduleCalls, "refresh must hit upstream again")
}
