package usecase

import (
	"testing"

	"github.com/statline/gameday/internal/domain/feed"
)

func sideWithPlayers(players map[string]feed.BoxPlayer, batters, pitchers []int64) feed.BoxTeam {
	return feed.BoxTeam{
		Players:  players,
		Batters:  batters,
		Pitchers: pitchers,
	}
}

func boxPlayer(id int64, name, pos, order string, batting map[string]any) feed.BoxPlayer {
	return feed.BoxPlayer{
		Person:       feed.PersonRef{ID: id, FullName: name},
		Position:     feed.Position{Abbreviation: pos},
		BattingOrder: order,
		Stats:        feed.BoxPlayerStats{Batting: batting},
	}
}

func TestBattingRows_SortsBySlotAndIndentsSubstitutes(t *testing.T) {
	players := map[string]feed.BoxPlayer{
		"ID3": boxPlayer(3, "Cedric Mullins", "CF", "300", map[string]any{"atBats": 4.0}),
		"ID1": boxPlayer(1, "Gunnar Henderson", "SS", "100", map[string]any{"atBats": 4.0}),
		"ID2": boxPlayer(2, "Jackson Holliday", "2B", "101", map[string]any{"atBats": 1.0}),
	}

	rows := battingRows(sideWithPlayers(players, []int64{1, 2, 3}, nil))
	if len(rows) != 3 {
		t.Fatalf("row count: got=%d want=3", len(rows))
	}

	if rows[0].Name != "Gunnar Henderson" || rows[0].Indent {
		t.Fatalf("starter row wrong: %+v", rows[0])
	}
	if rows[1].Name != "Jackson Holliday" || !rows[1].Indent {
		t.Fatalf("substitute sharing slot 1 should be indented: %+v", rows[1])
	}
	if rows[2].Name != "Cedric Mullins" || rows[2].Indent {
		t.Fatalf("slot 3 starter wrong: %+v", rows[2])
	}
}

func TestBattingRows_PinchHitterWithoutSlotSortsLast(t *testing.T) {
	players := map[string]feed.BoxPlayer{
		"ID1": boxPlayer(1, "Starter One", "1B", "100", map[string]any{"atBats": 3.0}),
		"ID9": boxPlayer(9, "Pinch Hitter", "PH", "", map[string]any{"hits": 1.0}),
	}

	rows := battingRows(sideWithPlayers(players, []int64{1, 9}, nil))
	if len(rows) != 2 {
		t.Fatalf("row count: got=%d want=2", len(rows))
	}

	last := rows[len(rows)-1]
	if last.Name != "Pinch Hitter" || last.OrderCode != pinchOrderCode || !last.Indent {
		t.Fatalf("pinch row wrong: %+v", last)
	}
}

func TestBattingRows_SkipsSlotlessPlayerWithoutCountingStats(t *testing.T) {
	players := map[string]feed.BoxPlayer{
		"ID1": boxPlayer(1, "Starter One", "1B", "100", map[string]any{"atBats": 3.0}),
		"ID8": boxPlayer(8, "Defensive Sub", "LF", "", map[string]any{}),
	}

	rows := battingRows(sideWithPlayers(players, []int64{1, 8}, nil))
	if len(rows) != 1 {
		t.Fatalf("slotless player with empty stats should be skipped, rows=%d", len(rows))
	}
}

func TestBattingRows_MissingPersonYieldsEmptyName(t *testing.T) {
	players := map[string]feed.BoxPlayer{
		"ID5": {
			BattingOrder: "100",
			Stats:        feed.BoxPlayerStats{Batting: map[string]any{"atBats": 2.0}},
		},
	}

	rows := battingRows(sideWithPlayers(players, []int64{5}, nil))
	if len(rows) != 1 || rows[0].Name != "" {
		t.Fatalf("missing person should yield empty name: %+v", rows)
	}
}

func TestPitchingRows_KeepsAppearanceOrderAndIndentsRelievers(t *testing.T) {
	players := map[string]feed.BoxPlayer{
		"ID10": {
			Person:   feed.PersonRef{ID: 10, FullName: "Starter Arm"},
			Position: feed.Position{Abbreviation: "P"},
			Stats: feed.BoxPlayerStats{Pitching: map[string]any{
				"inningsPitched":  "6.0",
				"strikeOuts":      7.0,
				"numberOfPitches": 92.0,
			}},
		},
		"ID11": {
			Person: feed.PersonRef{ID: 11, FullName: "Reliever Arm"},
			Stats: feed.BoxPlayerStats{Pitching: map[string]any{
				"inningsPitched": "2.0",
				"pitchesThrown":  31.0,
			}},
		},
	}

	rows := pitchingRows(sideWithPlayers(players, nil, []int64{10, 11}))
	if len(rows) != 2 {
		t.Fatalf("row count: got=%d want=2", len(rows))
	}

	if rows[0].Name != "Starter Arm" || rows[0].Indent {
		t.Fatalf("first pitcher should not be indented: %+v", rows[0])
	}
	if rows[0].Pitches != 92 || rows[0].K != 7 || rows[0].IP != "6.0" {
		t.Fatalf("starter stats wrong: %+v", rows[0])
	}
	if rows[0].Position != "P" {
		t.Fatalf("starter position wrong: %+v", rows[0])
	}
	if rows[1].Name != "Reliever Arm" || !rows[1].Indent {
		t.Fatalf("reliever should be indented: %+v", rows[1])
	}
	if rows[1].Pitches != 31 {
		t.Fatalf("pitch count should resolve the alternate field name: %+v", rows[1])
	}
}

func TestLineupSlot(t *testing.T) {
	cases := []struct {
		orderCode int
		want      int
	}{
		{100, 1},
		{101, 1},
		{900, 9},
		{5, 5},
	}

	for _, tc := range cases {
		if got := lineupSlot(tc.orderCode); got != tc.want {
			t.Fatalf("lineupSlot(%d): got=%d want=%d", tc.orderCode, got, tc.want)
		}
	}
}
