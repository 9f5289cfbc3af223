package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/domain/game"
	"github.com/statline/gameday/internal/platform/logging"
)

// pitcherLineProvider resolves a pitcher's cached season line for
// probable-pitcher enrichment. Lookup failures degrade to a bare name.
type pitcherLineProvider interface {
	Line(ctx context.Context, playerID int64) (game.PitcherLine, error)
}

// Shaper decorates assembled game state into the final presentation
// contract. Shaping is a pure function of the upstream document: the same
// feed shapes to the same snapshot on every call.
type Shaper struct {
	pitcherLines pitcherLineProvider
	logger       *logging.Logger
}

func NewShaper(pitcherLines pitcherLineProvider, logger *logging.Logger) *Shaper {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Shaper{
		pitcherLines: pitcherLines,
		logger:       logger,
	}
}

// Shape produces the per-game snapshot. records optionally overrides the
// per-team W-L record strings (keyed by team id) when the caller has
// fresher schedule data than the feed.
func (s *Shaper) Shape(ctx context.Context, doc *feed.LiveFeed, records map[int64]string) game.Snapshot {
	ctx, span := startUsecaseSpan(ctx, "usecase.Shaper.Shape")
	defer span.End()

	state := normalizeLiveState(doc.GameData.Status)

	switch state {
	case stateLive:
		return s.shapeLive(doc, records)
	case stateFinal:
		return s.shapeFinal(doc, records)
	default:
		return s.shapeScheduled(ctx, doc, records)
	}
}

// shapeScheduled attaches probable pitchers and a pregame lineup preview.
// Batters/Pitchers stay nil for scheduled games.
func (s *Shaper) shapeScheduled(ctx context.Context, doc *feed.LiveFeed, records map[int64]string) game.Snapshot {
	snapshot := s.baseSnapshot(doc, statePreview, records)

	snapshot.Away.Probable = s.probableLine(ctx, doc.GameData.ProbablePitchers.Away)
	snapshot.Home.Probable = s.probableLine(ctx, doc.GameData.ProbablePitchers.Home)
	snapshot.Away.Lineup = lineupPreview(doc.LiveData.Boxscore.Teams.Away)
	snapshot.Home.Lineup = lineupPreview(doc.LiveData.Boxscore.Teams.Home)

	return snapshot
}

// shapeLive forces the linescore to nine-column minimum width and attaches
// count, bases, participant lines, due-up, and the last play.
func (s *Shaper) shapeLive(doc *feed.LiveFeed, records map[int64]string) game.Snapshot {
	snapshot := s.baseSnapshot(doc, stateLive, records)
	ls := doc.LiveData.Linescore

	snapshot.Linescore = paddedLinescore(ls, 9)
	snapshot.Count = &game.Count{Balls: ls.Balls, Strikes: ls.Strikes, Outs: ls.Outs}
	snapshot.Bases = basesFromOffense(ls.Offense)
	s.attachTotals(&snapshot, ls)
	s.attachBoxRows(&snapshot, doc)

	participants := resolveParticipants(doc)
	if participants.hasBatter {
		sideFor(&snapshot, participants.batterHome).CurrentBatter = participants.batterLine
	}
	if participants.hasPitcher {
		sideFor(&snapshot, participants.pitcherHome).CurrentPitcher = participants.pitcherLine
	}

	if nextHome, dueUp := dueUpSurnames(doc); len(dueUp) > 0 {
		snapshot.DueUp = dueUp
		// During the break the outgoing pitcher's line belongs to the
		// side about to bat next, inverse of the defensive side.
		if participants.hasPitcher {
			sideFor(&snapshot, nextHome).BreakPitcher = participants.pitcherLine
			sideFor(&snapshot, participants.pitcherHome).CurrentPitcher = ""
		}
	}

	snapshot.LastPlay = lastPlayDescription(doc)
	snapshot.Statcast = StatcastLine(doc)

	return snapshot
}

// shapeFinal sizes the linescore to the actual innings played (nine
// minimum) and resolves the pitching decisions.
func (s *Shaper) shapeFinal(doc *feed.LiveFeed, records map[int64]string) game.Snapshot {
	snapshot := s.baseSnapshot(doc, stateFinal, records)
	ls := doc.LiveData.Linescore

	snapshot.Linescore = paddedLinescore(ls, 9)
	s.attachTotals(&snapshot, ls)
	s.attachBoxRows(&snapshot, doc)
	s.attachDecisions(&snapshot, doc)

	return snapshot
}

// baseSnapshot builds the fields shared by every status branch: identity,
// chip, team sides, and the scoring summary.
func (s *Shaper) baseSnapshot(doc *feed.LiveFeed, state liveState, records map[int64]string) game.Snapshot {
	return game.Snapshot{
		GamePk:  doc.GamePk,
		Status:  state.presentation(),
		Chip:    statusChip(state, doc),
		StartET: formatStartET(doc.GameData.Datetime.DateTime),
		Away:    teamSide(doc.GameData.Teams.Away, records),
		Home:    teamSide(doc.GameData.Teams.Home, records),
		Scoring: scoringSummary(doc),
	}
}

func teamSide(team feed.GameDataTeam, records map[int64]string) game.TeamSide {
	record := ""
	if team.Record != nil {
		record = fmt.Sprintf("%d-%d", team.Record.Wins, team.Record.Losses)
	}
	if override, ok := records[team.ID]; ok && override != "" {
		record = override
	}

	return game.TeamSide{
		ID:     team.ID,
		Abbr:   team.Abbreviation,
		Name:   team.Name,
		Record: record,
	}
}

func (s *Shaper) attachTotals(snapshot *game.Snapshot, ls feed.Linescore) {
	away := ls.Teams.Away
	home := ls.Teams.Home

	snapshot.Away.Runs = ptrInt(away.Runs)
	snapshot.Away.Hits = ptrInt(away.Hits)
	snapshot.Away.Errors = ptrInt(away.Errors)
	snapshot.Home.Runs = ptrInt(home.Runs)
	snapshot.Home.Hits = ptrInt(home.Hits)
	snapshot.Home.Errors = ptrInt(home.Errors)
}

// attachBoxRows populates both sides' batting and pitching tables. Rows
// are non-nil for live and final games even when empty.
func (s *Shaper) attachBoxRows(snapshot *game.Snapshot, doc *feed.LiveFeed) {
	box := doc.LiveData.Boxscore.Teams

	snapshot.Away.Batters = nonNilBatting(battingRows(box.Away))
	snapshot.Away.Pitchers = nonNilPitching(pitchingRows(box.Away))
	snapshot.Home.Batters = nonNilBatting(battingRows(box.Home))
	snapshot.Home.Pitchers = nonNilPitching(pitchingRows(box.Home))
}

func (s *Shaper) attachDecisions(snapshot *game.Snapshot, doc *feed.LiveFeed) {
	decisions := doc.LiveData.Decisions
	if decisions == nil {
		return
	}

	box := doc.LiveData.Boxscore.Teams
	if decisions.Winner != nil {
		if _, home, ok := locatePlayer(box, decisions.Winner.ID); ok {
			sideFor(snapshot, home).FinalPitcher = "W: " + decisions.Winner.FullName
			if decisions.Save != nil {
				sideFor(snapshot, home).SavePitcher = saveLine(box, *decisions.Save)
			}
		}
	}
	if decisions.Loser != nil {
		if _, home, ok := locatePlayer(box, decisions.Loser.ID); ok {
			sideFor(snapshot, home).FinalPitcher = "L: " + decisions.Loser.FullName
		}
	}
}

func saveLine(box feed.BoxTeams, save feed.PersonRef) string {
	saves := 0
	if player, _, ok := locatePlayer(box, save.ID); ok {
		saves = feed.Int(player.SeasonStats.Pitching, "saves", "sv")
		if saves == 0 {
			saves = feed.Int(player.Stats.Pitching, "saves", "sv")
		}
	}

	return fmt.Sprintf("SV: %s (%d)", save.FullName, saves)
}

func (s *Shaper) probableLine(ctx context.Context, probable *feed.PersonRef) string {
	if probable == nil || probable.ID == 0 {
		return ""
	}
	if s.pitcherLines == nil {
		return probable.FullName
	}

	line, err := s.pitcherLines.Line(ctx, probable.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "probable pitcher stats lookup failed", "playerID", probable.ID, "error", err)
		return probable.FullName
	}

	role := ""
	switch line.Hand {
	case "R":
		role = "RHP "
	case "L":
		role = "LHP "
	}

	name := line.Name
	if name == "" {
		name = probable.FullName
	}
	if line.ERA == "" {
		return role + name
	}

	return fmt.Sprintf("%s%s (%d-%d, %s ERA)", role, name, line.Wins, line.Losses, line.ERA)
}

// lineupPreview lists the first non-pitcher batters by lineup order,
// capped at nine, as abbreviated names with an AVG/HR/RBI tag from the
// season stat block, falling back to the in-game block.
func lineupPreview(side feed.BoxTeam) []string {
	var preview []string

	for _, id := range side.BattingOrder {
		if len(preview) == 9 {
			break
		}

		player, ok := side.Players[playerKey(id)]
		if !ok || player.Position.Abbreviation == "P" {
			continue
		}

		entry := abbreviateName(player.Person.FullName)
		if tag := battingTag(player); tag != "" {
			entry += " (" + tag + ")"
		}
		preview = append(preview, entry)
	}

	return preview
}

func battingTag(player feed.BoxPlayer) string {
	block := player.SeasonStats.Batting
	if feed.Text(block, "avg") == "" && feed.Int(block, "homeRuns", "hr") == 0 && feed.Int(block, "rbi") == 0 {
		block = player.Stats.Batting
	}

	avg := feed.Text(block, "avg")
	if avg == "" {
		return ""
	}

	return fmt.Sprintf("%s/%d/%d", avg, feed.Int(block, "homeRuns", "hr"), feed.Int(block, "rbi"))
}

func abbreviateName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) < 2 {
		return fullName
	}

	return fields[0][:1] + ". " + strings.Join(fields[1:], " ")
}

// scoringSummary collects every scoring play with the running score after
// each, in upstream order.
func scoringSummary(doc *feed.LiveFeed) []game.ScoringPlay {
	plays := doc.LiveData.Plays
	var summary []game.ScoringPlay

	for _, idx := range plays.ScoringPlays {
		if idx < 0 || idx >= len(plays.AllPlays) {
			continue
		}

		play := plays.AllPlays[idx]
		summary = append(summary, game.ScoringPlay{
			Inning: inningLabel(play.About),
			Play:   play.Result.Description,
			Away:   play.Result.AwayScore,
			Home:   play.Result.HomeScore,
		})
	}

	return summary
}

func inningLabel(about feed.PlayAbout) string {
	half := "T"
	if strings.EqualFold(about.HalfInning, "bottom") {
		half = "B"
	}

	return fmt.Sprintf("%s%d", half, about.Inning)
}

func lastPlayDescription(doc *feed.LiveFeed) string {
	play, ok := latestDescribedPlay(doc)
	if !ok {
		return ""
	}

	return strings.TrimSpace(play.Result.Description)
}

func sideFor(snapshot *game.Snapshot, home bool) *game.TeamSide {
	if home {
		return &snapshot.Home
	}

	return &snapshot.Away
}

func nonNilBatting(rows []game.BattingRow) []game.BattingRow {
	if rows == nil {
		return []game.BattingRow{}
	}

	return rows
}

func nonNilPitching(rows []game.PitchingRow) []game.PitchingRow {
	if rows == nil {
		return []game.PitchingRow{}
	}

	return rows
}

func ptrInt(v int) *int {
	value := v
	return &value
}
