package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/domain/game"
)

// liveState is the normalized abstract status used inside the pipeline.
// Unrecognized upstream values fail open to preview so a game is never
// dropped from the slate.
type liveState string

const (
	statePreview liveState = "PREVIEW"
	stateLive    liveState = "LIVE"
	stateFinal   liveState = "FINAL"
)

func normalizeLiveState(status feed.GameStatus) liveState {
	switch status.AbstractGameState {
	case "Live":
		return stateLive
	case "Final":
		return stateFinal
	default:
		return statePreview
	}
}

func (s liveState) presentation() game.Status {
	switch s {
	case stateLive:
		return game.StatusInProgress
	case stateFinal:
		return game.StatusFinal
	default:
		return game.StatusScheduled
	}
}

// statusChip builds the compact status label for a game. Timezone
// conversion failures for previews degrade to "" rather than raising.
func statusChip(state liveState, doc *feed.LiveFeed) string {
	switch state {
	case stateFinal:
		return "Final"
	case stateLive:
		return liveChip(doc.LiveData.Linescore)
	default:
		return formatStartET(doc.GameData.Datetime.DateTime)
	}
}

func liveChip(ls feed.Linescore) string {
	switch ls.InningState {
	case "Middle":
		return fmt.Sprintf("MID %d", ls.CurrentInning)
	case "End":
		return fmt.Sprintf("END %d", ls.CurrentInning)
	}

	half := "Top"
	if strings.EqualFold(ls.InningState, "Bottom") {
		half = "Bot"
	}

	outsWord := "outs"
	if ls.Outs == 1 {
		outsWord = "out"
	}

	return fmt.Sprintf("%s %d • %d-%d, %d %s", half, ls.CurrentInning, ls.Balls, ls.Strikes, ls.Outs, outsWord)
}

// formatStartET converts the upstream RFC3339 start time to US Eastern,
// "3:04 PM ET". Any parse or zone failure yields "".
func formatStartET(raw string) string {
	if raw == "" {
		return ""
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}

	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		return ""
	}

	return ts.In(eastern).Format("3:04 PM") + " ET"
}

// paddedLinescore renders the per-inning run grid padded to at least
// forceN columns with empty-string placeholders for unplayed innings.
func paddedLinescore(ls feed.Linescore, forceN int) *game.Linescore {
	if len(ls.Innings) == 0 && forceN <= 0 {
		return nil
	}

	n := len(ls.Innings)
	if forceN > n {
		n = forceN
	}

	away := make([]string, n)
	home := make([]string, n)
	for i, inning := range ls.Innings {
		if i >= n {
			break
		}
		away[i] = inningRuns(inning.Away)
		home[i] = inningRuns(inning.Home)
	}

	return &game.Linescore{
		N:    n,
		Away: away,
		Home: home,
		Totals: game.LinescoreTotals{
			Away: game.TeamTotals{Runs: ls.Teams.Away.Runs, Hits: ls.Teams.Away.Hits, Errors: ls.Teams.Away.Errors},
			Home: game.TeamTotals{Runs: ls.Teams.Home.Runs, Hits: ls.Teams.Home.Hits, Errors: ls.Teams.Home.Errors},
		},
	}
}

func inningRuns(side feed.InningSide) string {
	if side.Runs == nil {
		return ""
	}

	return strconv.Itoa(*side.Runs)
}

func basesFromOffense(offense feed.Offense) *game.Bases {
	return &game.Bases{
		First:  offense.First != nil,
		Second: offense.Second != nil,
		Third:  offense.Third != nil,
	}
}

// participantLines carries the formatted current batter/pitcher lines plus
// which side each belongs to (true = home).
type participantLines struct {
	batterLine  string
	batterHome  bool
	pitcherLine string
	pitcherHome bool
	hasBatter   bool
	hasPitcher  bool
}

// resolveParticipants finds the current matchup's batter and pitcher in
// the side player dictionaries by identifier membership, never trusting a
// side hint. A batter missing from both dictionaries is simply omitted.
func resolveParticipants(doc *feed.LiveFeed) participantLines {
	var lines participantLines

	current := doc.LiveData.Plays.CurrentPlay
	if current == nil {
		return lines
	}

	box := doc.LiveData.Boxscore.Teams
	if batterID := current.Matchup.Batter.ID; batterID != 0 {
		if player, home, ok := locatePlayer(box, batterID); ok {
			lines.batterLine = batterGameLine(player, batterHistory(doc, batterID))
			lines.batterHome = home
			lines.hasBatter = true
		}
	}
	if pitcherID := current.Matchup.Pitcher.ID; pitcherID != 0 {
		if player, home, ok := locatePlayer(box, pitcherID); ok {
			lines.pitcherLine = pitcherGameLine(player)
			lines.pitcherHome = home
			lines.hasPitcher = true
		}
	}

	return lines
}

func locatePlayer(box feed.BoxTeams, id int64) (feed.BoxPlayer, bool, bool) {
	key := playerKey(id)
	if player, ok := box.Home.Players[key]; ok {
		return player, true, true
	}
	if player, ok := box.Away.Players[key]; ok {
		return player, false, true
	}

	return feed.BoxPlayer{}, false, false
}

// batterHistory joins the completed plate-appearance tokens for one batter
// across the play list so far.
func batterHistory(doc *feed.LiveFeed, batterID int64) string {
	var tokens []string

	for _, play := range doc.LiveData.Plays.AllPlays {
		if !play.About.IsComplete || play.Matchup.Batter.ID != batterID {
			continue
		}
		if token := DerivePlayToken(play); token != "" {
			tokens = append(tokens, token)
		}
	}

	return strings.Join(tokens, ", ")
}

func batterGameLine(player feed.BoxPlayer, history string) string {
	batting := player.Stats.Batting
	line := fmt.Sprintf("%s: %d-%d", player.Person.FullName,
		feed.Int(batting, "hits", "h"), feed.Int(batting, "atBats", "ab"))

	if history != "" {
		line += " • " + history
	}

	return line
}

func pitcherGameLine(player feed.BoxPlayer) string {
	pitching := player.Stats.Pitching

	return fmt.Sprintf("%s: %s IP, %d H, %d ER, %d K",
		player.Person.FullName,
		feed.Text(pitching, "inningsPitched", "ip"),
		feed.Int(pitching, "hits", "h"),
		feed.Int(pitching, "earnedRuns", "er"),
		feed.Int(pitching, "strikeOuts", "strikeouts", "so"))
}

// dueUpSurnames computes the next three hitters during a half-inning
// break. It returns (nextSideHome, surnames); outside Middle/End, or on
// any lookup failure, it returns (false, nil) and the caller shows no
// due-up block.
func dueUpSurnames(doc *feed.LiveFeed) (bool, []string) {
	ls := doc.LiveData.Linescore

	var nextHome bool
	switch ls.InningState {
	case "Middle":
		nextHome = true
	case "End":
		nextHome = false
	default:
		return false, nil
	}

	side := doc.LiveData.Boxscore.Teams.Away
	if nextHome {
		side = doc.LiveData.Boxscore.Teams.Home
	}

	order := side.BattingOrder
	if len(order) == 0 {
		return false, nil
	}

	nextID := int64(0)
	if ls.Offense.Batter != nil {
		nextID = ls.Offense.Batter.ID
	}
	if nextID == 0 {
		nextID = order[0]
	}

	idx := 0
	for i, id := range order {
		if id == nextID {
			idx = i
			break
		}
	}

	surnames := make([]string, 0, 3)
	for i := 0; i < 3 && i < len(order); i++ {
		id := order[(idx+i)%len(order)]
		player, ok := side.Players[playerKey(id)]
		if !ok {
			continue
		}
		surnames = append(surnames, surname(player.Person.FullName))
	}

	if len(surnames) == 0 {
		return false, nil
	}

	return nextHome, surnames
}

var nameSuffixes = map[string]bool{
	"Jr.": true,
	"Sr.": true,
	"II":  true,
	"III": true,
	"IV":  true,
}

func surname(fullName string) string {
	fields := strings.Fields(fullName)
	for len(fields) > 0 && nameSuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return fullName
	}

	return fields[len(fields)-1]
}
