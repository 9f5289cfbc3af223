package httpapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/statline/gameday/internal/domain/archive"
	"github.com/statline/gameday/internal/domain/game"
)

type daySlateDTO struct {
	Date  string            `json:"date"`
	Games []gameSnapshotDTO `json:"games"`
	Error string            `json:"error,omitempty"`
}

type gameSnapshotDTO struct {
	GamePk    int64            `json:"gamePk"`
	Status    string           `json:"status"`
	Chip      string           `json:"chip,omitempty"`
	StartET   string           `json:"startET,omitempty"`
	Teams     snapshotTeamsDTO `json:"teams"`
	Linescore *linescoreDTO    `json:"linescore"`
	Count     *countDTO        `json:"count,omitempty"`
	Bases     *basesDTO        `json:"bases,omitempty"`
	DueUp     []string         `json:"dueUp,omitempty"`
	LastPlay  string           `json:"lastPlay,omitempty"`
	Statcast  string           `json:"statcast,omitempty"`
	Scoring   []scoringPlayDTO `json:"scoring"`
	Error     string           `json:"error,omitempty"`
}

type snapshotTeamsDTO struct {
	Away teamSideDTO `json:"away"`
	Home teamSideDTO `json:"home"`
}

// teamSideDTO keeps batters/pitchers as bare slices: nil renders as JSON
// null for scheduled games, and an empty slice renders as [] otherwise.
type teamSideDTO struct {
	ID             int64            `json:"id"`
	Abbr           string           `json:"abbr"`
	Name           string           `json:"name"`
	Record         string           `json:"record,omitempty"`
	Runs           *int             `json:"runs"`
	Hits           *int             `json:"hits"`
	Errors         *int             `json:"errors"`
	Probable       string           `json:"probable,omitempty"`
	Lineup         []string         `json:"lineup,omitempty"`
	CurrentPitcher string           `json:"currentPitcher,omitempty"`
	CurrentBatter  string           `json:"currentBatter,omitempty"`
	BreakPitcher   string           `json:"breakPitcher,omitempty"`
	FinalPitcher   string           `json:"finalPitcher,omitempty"`
	SavePitcher    string           `json:"savePitcher,omitempty"`
	Batters        []battingRowDTO  `json:"batters"`
	Pitchers       []pitchingRowDTO `json:"pitchers"`
}

type linescoreDTO struct {
	N      int              `json:"n"`
	Away   []string         `json:"away"`
	Home   []string         `json:"home"`
	Totals linescoreSumsDTO `json:"totals"`
}

type linescoreSumsDTO struct {
	Away teamTotalsDTO `json:"away"`
	Home teamTotalsDTO `json:"home"`
}

type teamTotalsDTO struct {
	R int `json:"r"`
	H int `json:"h"`
	E int `json:"e"`
}

type countDTO struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
	Outs    int `json:"outs"`
}

type basesDTO struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

type battingRowDTO struct {
	Pos       string `json:"pos"`
	Name      string `json:"name"`
	AB        int    `json:"ab"`
	R         int    `json:"r"`
	H         int    `json:"h"`
	RBI       int    `json:"rbi"`
	BB        int    `json:"bb"`
	K         int    `json:"k"`
	AVG       string `json:"avg,omitempty"`
	OrderCode int    `json:"orderCode"`
	Indent    bool   `json:"indent"`
}

type pitchingRowDTO struct {
	PID    int64  `json:"pid"`
	Pos    string `json:"pos"`
	Name   string `json:"name"`
	IP     string `json:"ip"`
	H      int    `json:"h"`
	R      int    `json:"r"`
	ER     int    `json:"er"`
	BB     int    `json:"bb"`
	K      int    `json:"k"`
	HR     int    `json:"hr"`
	P      int    `json:"p"`
	ERA    string `json:"era,omitempty"`
	Indent bool   `json:"indent"`
}

type scoringPlayDTO struct {
	Inning string `json:"inning"`
	Play   string `json:"play"`
	Away   int    `json:"away"`
	Home   int    `json:"home"`
}

type gameDetailDTO struct {
	Game  gameSnapshotDTO `json:"game"`
	Plays []playRowDTO    `json:"plays"`
	Meta  detailMetaDTO   `json:"meta"`
}

type playRowDTO struct {
	Inning string `json:"inning"`
	Desc   string `json:"desc"`
	EV     string `json:"ev,omitempty"`
	LA     string `json:"la,omitempty"`
	Dist   string `json:"dist,omitempty"`
	XBA    string `json:"xba,omitempty"`
	XSLG   string `json:"xslg,omitempty"`
	Away   int    `json:"away"`
	Home   int    `json:"home"`
}

type detailMetaDTO struct {
	Venue     string `json:"venue,omitempty"`
	StartET   string `json:"startET,omitempty"`
	Weather   string `json:"weather,omitempty"`
	Status    string `json:"status"`
	Decisions string `json:"decisions,omitempty"`
}

type gameHeaderDTO struct {
	GamePk  int64         `json:"gamePk"`
	Status  string        `json:"status"`
	Chip    string        `json:"chip,omitempty"`
	StartET string        `json:"startET,omitempty"`
	Venue   string        `json:"venue,omitempty"`
	Away    headerSideDTO `json:"away"`
	Home    headerSideDTO `json:"home"`
}

type headerSideDTO struct {
	ID     int64  `json:"id"`
	Abbr   string `json:"abbr"`
	Name   string `json:"name"`
	Record string `json:"record,omitempty"`
	Score  *int   `json:"score"`
	Logo   string `json:"logo"`
}

// archivedPayloadDTO is one retained raw upstream document on the
// internal archive route. Payload passes through as stored JSON.
type archivedPayloadDTO struct {
	ID         int64           `json:"id"`
	Source     string          `json:"source"`
	EntityType string          `json:"entityType"`
	EntityKey  string          `json:"entityKey"`
	GamePk     int64           `json:"gamePk"`
	Hash       string          `json:"hash"`
	FetchedAt  string          `json:"fetchedAt"`
	Payload    json.RawMessage `json:"payload"`
}

func toArchivedPayloadDTOs(payloads []archive.Payload) []archivedPayloadDTO {
	dtos := make([]archivedPayloadDTO, 0, len(payloads))
	for _, payload := range payloads {
		dtos = append(dtos, archivedPayloadDTO{
			ID:         payload.ID,
			Source:     payload.Source,
			EntityType: payload.EntityType,
			EntityKey:  payload.EntityKey,
			GamePk:     payload.GamePk,
			Hash:       payload.Hash,
			FetchedAt:  payload.FetchedAt.UTC().Format(time.RFC3339),
			Payload:    json.RawMessage(payload.Payload),
		})
	}

	return dtos
}

func toDaySlateDTO(ctx context.Context, slate game.DaySlate) daySlateDTO {
	ctx, span := startSpan(ctx, "httpapi.toDaySlateDTO")
	defer span.End()

	games := make([]gameSnapshotDTO, 0, len(slate.Games))
	for _, snapshot := range slate.Games {
		games = append(games, toGameSnapshotDTO(ctx, snapshot))
	}

	return daySlateDTO{
		Date:  slate.Date,
		Games: games,
		Error: slate.Error,
	}
}

func toGameSnapshotDTO(ctx context.Context, snapshot game.Snapshot) gameSnapshotDTO {
	_, span := startSpan(ctx, "httpapi.toGameSnapshotDTO")
	defer span.End()

	return gameSnapshotDTO{
		GamePk:  snapshot.GamePk,
		Status:  string(snapshot.Status),
		Chip:    snapshot.Chip,
		StartET: snapshot.StartET,
		Teams: snapshotTeamsDTO{
			Away: toTeamSideDTO(snapshot.Away),
			Home: toTeamSideDTO(snapshot.Home),
		},
		Linescore: toLinescoreDTO(snapshot.Linescore),
		Count:     toCountDTO(snapshot.Count),
		Bases:     toBasesDTO(snapshot.Bases),
		DueUp:     snapshot.DueUp,
		LastPlay:  snapshot.LastPlay,
		Statcast:  snapshot.Statcast,
		Scoring:   toScoringDTOs(snapshot.Scoring),
		Error:     snapshot.Error,
	}
}

func toTeamSideDTO(side game.TeamSide) teamSideDTO {
	dto := teamSideDTO{
		ID:             side.ID,
		Abbr:           side.Abbr,
		Name:           side.Name,
		Record:         side.Record,
		Runs:           side.Runs,
		Hits:           side.Hits,
		Errors:         side.Errors,
		Probable:       side.Probable,
		Lineup:         side.Lineup,
		CurrentPitcher: side.CurrentPitcher,
		CurrentBatter:  side.CurrentBatter,
		BreakPitcher:   side.BreakPitcher,
		FinalPitcher:   side.FinalPitcher,
		SavePitcher:    side.SavePitcher,
	}

	if side.Batters != nil {
		dto.Batters = make([]battingRowDTO, 0, len(side.Batters))
		for _, row := range side.Batters {
			dto.Batters = append(dto.Batters, battingRowDTO{
				Pos:       row.Position,
				Name:      row.Name,
				AB:        row.AB,
				R:         row.R,
				H:         row.H,
				RBI:       row.RBI,
				BB:        row.BB,
				K:         row.K,
				AVG:       row.AVG,
				OrderCode: row.OrderCode,
				Indent:    row.Indent,
			})
		}
	}
	if side.Pitchers != nil {
		dto.Pitchers = make([]pitchingRowDTO, 0, len(side.Pitchers))
		for _, row := range side.Pitchers {
			dto.Pitchers = append(dto.Pitchers, pitchingRowDTO{
				PID:    row.PlayerID,
				Pos:    row.Position,
				Name:   row.Name,
				IP:     row.IP,
				H:      row.H,
				R:      row.R,
				ER:     row.ER,
				BB:     row.BB,
				K:      row.K,
				HR:     row.HR,
				P:      row.Pitches,
				ERA:    row.ERA,
				Indent: row.Indent,
			})
		}
	}

	return dto
}

func toLinescoreDTO(ls *game.Linescore) *linescoreDTO {
	if ls == nil {
		return nil
	}

	return &linescoreDTO{
		N:    ls.N,
		Away: ls.Away,
		Home: ls.Home,
		Totals: linescoreSumsDTO{
			Away: teamTotalsDTO{R: ls.Totals.Away.Runs, H: ls.Totals.Away.Hits, E: ls.Totals.Away.Errors},
			Home: teamTotalsDTO{R: ls.Totals.Home.Runs, H: ls.Totals.Home.Hits, E: ls.Totals.Home.Errors},
		},
	}
}

func toCountDTO(count *game.Count) *countDTO {
	if count == nil {
		return nil
	}

	return &countDTO{Balls: count.Balls, Strikes: count.Strikes, Outs: count.Outs}
}

func toBasesDTO(bases *game.Bases) *basesDTO {
	if bases == nil {
		return nil
	}

	return &basesDTO{First: bases.First, Second: bases.Second, Third: bases.Third}
}

func toScoringDTOs(scoring []game.ScoringPlay) []scoringPlayDTO {
	dtos := make([]scoringPlayDTO, 0, len(scoring))
	for _, play := range scoring {
		dtos = append(dtos, scoringPlayDTO{
			Inning: play.Inning,
			Play:   play.Play,
			Away:   play.Away,
			Home:   play.Home,
		})
	}

	return dtos
}

func toGameDetailDTO(ctx context.Context, detail game.Detail) gameDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.toGameDetailDTO")
	defer span.End()

	plays := make([]playRowDTO, 0, len(detail.Plays))
	for _, row := range detail.Plays {
		plays = append(plays, playRowDTO{
			Inning: row.Inning,
			Desc:   row.Play,
			EV:     row.EV,
			LA:     row.LA,
			Dist:   row.Dist,
			XBA:    row.XBA,
			XSLG:   row.XSLG,
			Away:   row.Away,
			Home:   row.Home,
		})
	}

	return gameDetailDTO{
		Game:  toGameSnapshotDTO(ctx, detail.Game),
		Plays: plays,
		Meta: detailMetaDTO{
			Venue:     detail.Meta.Venue,
			StartET:   detail.Meta.StartET,
			Weather:   detail.Meta.Weather,
			Status:    string(detail.Meta.Status),
			Decisions: detail.Meta.Decisions,
		},
	}
}

func toGameHeaderDTO(ctx context.Context, header game.Header) gameHeaderDTO {
	_, span := startSpan(ctx, "httpapi.toGameHeaderDTO")
	defer span.End()

	return gameHeaderDTO{
		GamePk:  header.GamePk,
		Status:  string(header.Status),
		Chip:    header.Chip,
		StartET: header.StartET,
		Venue:   header.Venue,
		Away:    toHeaderSideDTO(header.Away),
		Home:    toHeaderSideDTO(header.Home),
	}
}

func toHeaderSideDTO(side game.HeaderSide) headerSideDTO {
	return headerSideDTO{
		ID:     side.ID,
		Abbr:   side.Abbr,
		Name:   side.Name,
		Record: side.Record,
		Score:  side.Score,
		Logo:   side.Logo,
	}
}
