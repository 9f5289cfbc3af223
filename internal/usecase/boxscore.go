package usecase

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/domain/game"
)

// pinchOrderCode marks players with nonzero counting stats but no lineup
// slot (pinch hitters/runners); it sorts after every real slot.
const pinchOrderCode = 9999

// battingRows builds one side's ordered batting table: slotted players
// sorted by lineup slot with substitutes indented, then slotless pinch
// appearances appended last.
func battingRows(side feed.BoxTeam) []game.BattingRow {
	var slotted []game.BattingRow
	var pinch []game.BattingRow

	for _, id := range battingCandidates(side) {
		player, ok := side.Players[playerKey(id)]
		if !ok {
			continue
		}

		row := battingRowFromPlayer(player)
		if code, err := strconv.Atoi(player.BattingOrder); err == nil && code > 0 {
			row.OrderCode = code
			slotted = append(slotted, row)
			continue
		}

		if hasCountingBattingStats(player.Stats.Batting) {
			row.OrderCode = pinchOrderCode
			row.Indent = true
			pinch = append(pinch, row)
		}
	}

	sort.SliceStable(slotted, func(i, j int) bool {
		return slotted[i].OrderCode < slotted[j].OrderCode
	})

	for i := 1; i < len(slotted); i++ {
		if lineupSlot(slotted[i].OrderCode) == lineupSlot(slotted[i-1].OrderCode) {
			slotted[i].Indent = true
		}
	}

	return append(slotted, pinch...)
}

// battingCandidates yields player ids in a deterministic order: the
// upstream batter list first, then any remaining dictionary entries by id.
func battingCandidates(side feed.BoxTeam) []int64 {
	seen := make(map[int64]bool, len(side.Players))
	ids := make([]int64, 0, len(side.Players))

	for _, id := range side.Batters {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var rest []int64
	for key := range side.Players {
		id := idFromPlayerKey(key)
		if id != 0 && !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return append(ids, rest...)
}

func battingRowFromPlayer(player feed.BoxPlayer) game.BattingRow {
	batting := player.Stats.Batting

	return game.BattingRow{
		PlayerID: player.Person.ID,
		Name:     player.Person.FullName,
		Position: player.Position.Abbreviation,
		AB:       feed.Int(batting, "atBats", "ab"),
		R:        feed.Int(batting, "runs", "r"),
		H:        feed.Int(batting, "hits", "h"),
		RBI:      feed.Int(batting, "rbi"),
		BB:       feed.Int(batting, "baseOnBalls", "walks", "bb"),
		K:        feed.Int(batting, "strikeOuts", "strikeouts", "so"),
		AVG:      feed.Text(player.SeasonStats.Batting, "avg"),
	}
}

func hasCountingBattingStats(batting map[string]any) bool {
	for _, keys := range [][]string{
		{"atBats", "ab"},
		{"runs", "r"},
		{"hits", "h"},
		{"rbi"},
		{"baseOnBalls", "walks", "bb"},
		{"strikeOuts", "strikeouts", "so"},
	} {
		if feed.Int(batting, keys...) > 0 {
			return true
		}
	}

	return false
}

// lineupSlot collapses the tens-incremented upstream order code (100, 101,
// 200, ...) onto the 1–9 lineup slot it belongs to.
func lineupSlot(orderCode int) int {
	if orderCode >= 100 {
		return orderCode / 100
	}

	return orderCode
}

// pitchingRows keeps the upstream appearance sequence; it is authoritative
// and never re-sorted. Every pitcher after the first is indented.
func pitchingRows(side feed.BoxTeam) []game.PitchingRow {
	rows := make([]game.PitchingRow, 0, len(side.Pitchers))

	for _, id := range side.Pitchers {
		player, ok := side.Players[playerKey(id)]
		if !ok {
			continue
		}

		pitching := player.Stats.Pitching
		rows = append(rows, game.PitchingRow{
			PlayerID: player.Person.ID,
			Name:     player.Person.FullName,
			Position: player.Position.Abbreviation,
			Indent:   len(rows) > 0,
			IP:       feed.Text(pitching, "inningsPitched", "ip"),
			H:        feed.Int(pitching, "hits", "h"),
			R:        feed.Int(pitching, "runs", "r"),
			ER:       feed.Int(pitching, "earnedRuns", "er"),
			BB:       feed.Int(pitching, "baseOnBalls", "walks", "bb"),
			K:        feed.Int(pitching, "strikeOuts", "strikeouts", "so"),
			HR:       feed.Int(pitching, "homeRuns", "hr"),
			Pitches:  feed.Int(pitching, "numberOfPitches", "pitchesThrown"),
			ERA:      feed.Text(player.SeasonStats.Pitching, "era"),
		})
	}

	return rows
}

func playerKey(id int64) string {
	return fmt.Sprintf("ID%d", id)
}

func idFromPlayerKey(key string) int64 {
	if len(key) <= 2 || key[:2] != "ID" {
		return 0
	}

	id, err := strconv.ParseInt(key[2:], 10, 64)
	if err != nil {
		return 0
	}

	return id
}
