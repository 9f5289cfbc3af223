package usecase

import (
	"reflect"
	"testing"

	"github.com/statline/gameday/internal/domain/feed"
)

func intPtr(v int) *int {
	return &v
}

func TestPaddedLinescore_PadsToNineInnings(t *testing.T) {
	ls := feed.Linescore{}
	for i := 1; i <= 6; i++ {
		ls.Innings = append(ls.Innings, feed.Inning{
			Num:  i,
			Away: feed.InningSide{Runs: intPtr(i % 2)},
			Home: feed.InningSide{Runs: intPtr(0)},
		})
	}
	ls.Teams.Away.Runs = 3
	ls.Teams.Home.Hits = 5

	padded := paddedLinescore(ls, 9)
	if padded == nil {
		t.Fatalf("expected a linescore")
	}

	if padded.N != 9 || len(padded.Away) != 9 || len(padded.Home) != 9 {
		t.Fatalf("padding: n=%d away=%d home=%d, want 9 each", padded.N, len(padded.Away), len(padded.Home))
	}
	for i := 6; i < 9; i++ {
		if padded.Away[i] != "" || padded.Home[i] != "" {
			t.Fatalf("unplayed inning %d should be empty, got %q/%q", i+1, padded.Away[i], padded.Home[i])
		}
	}
	if padded.Away[0] != "1" || padded.Home[0] != "0" {
		t.Fatalf("played innings should carry runs: %q/%q", padded.Away[0], padded.Home[0])
	}
	if padded.Totals.Away.Runs != 3 || padded.Totals.Home.Hits != 5 {
		t.Fatalf("totals wrong: %+v", padded.Totals)
	}
}

func TestPaddedLinescore_ExtraInningsExceedForcedWidth(t *testing.T) {
	ls := feed.Linescore{}
	for i := 1; i <= 11; i++ {
		ls.Innings = append(ls.Innings, feed.Inning{Num: i})
	}

	padded := paddedLinescore(ls, 9)
	if padded.N != 11 || len(padded.Away) != 11 {
		t.Fatalf("extra innings: n=%d want 11", padded.N)
	}
}

func dueUpFixture(inningState string, nextBatterID int64) *feed.LiveFeed {
	doc := &feed.LiveFeed{}
	doc.LiveData.Linescore.InningState = inningState
	if nextBatterID != 0 {
		doc.LiveData.Linescore.Offense.Batter = &feed.PersonRef{ID: nextBatterID}
	}

	home := feed.BoxTeam{Players: map[string]feed.BoxPlayer{}}
	names := []string{
		"Alpha One", "Bravo Two", "Charlie Three", "Delta Four", "Echo Five",
		"Foxtrot Six", "Golf Seven", "Hotel Eight", "India Nine",
	}
	for i, name := range names {
		id := int64(i + 1)
		home.BattingOrder = append(home.BattingOrder, id)
		home.Players[playerKey(id)] = feed.BoxPlayer{Person: feed.PersonRef{ID: id, FullName: name}}
	}
	doc.LiveData.Boxscore.Teams.Home = home

	return doc
}

func TestDueUpSurnames_WrapsAroundTheOrder(t *testing.T) {
	doc := dueUpFixture("Middle", 8)

	nextHome, surnames := dueUpSurnames(doc)
	if !nextHome {
		t.Fatalf("Middle means the home side bats next")
	}

	want := []string{"Eight", "Nine", "One"}
	if !reflect.DeepEqual(surnames, want) {
		t.Fatalf("due-up order: got=%v want=%v", surnames, want)
	}
}

func TestDueUpSurnames_UnknownBatterFallsBackToLeadoff(t *testing.T) {
	doc := dueUpFixture("Middle", 555)

	_, surnames := dueUpSurnames(doc)
	want := []string{"One", "Two", "Three"}
	if !reflect.DeepEqual(surnames, want) {
		t.Fatalf("fallback due-up: got=%v want=%v", surnames, want)
	}
}

func TestDueUpSurnames_OnlyDuringHalfInningBreaks(t *testing.T) {
	for _, state := range []string{"Top", "Bottom", ""} {
		doc := dueUpFixture(state, 1)
		if _, surnames := dueUpSurnames(doc); surnames != nil {
			t.Fatalf("state %q should not produce a due-up list", state)
		}
	}
}

func TestLiveChip(t *testing.T) {
	cases := []struct {
		name string
		ls   feed.Linescore
		want string
	}{
		{
			name: "middle of an inning",
			ls:   feed.Linescore{InningState: "Middle", CurrentInning: 5},
			want: "MID 5",
		},
		{
			name: "end of an inning",
			ls:   feed.Linescore{InningState: "End", CurrentInning: 7},
			want: "END 7",
		},
		{
			name: "top with one out",
			ls:   feed.Linescore{InningState: "Top", CurrentInning: 3, Balls: 2, Strikes: 1, Outs: 1},
			want: "Top 3 • 2-1, 1 out",
		},
		{
			name: "bottom with two outs",
			ls:   feed.Linescore{InningState: "Bottom", CurrentInning: 9, Balls: 3, Strikes: 2, Outs: 2},
			want: "Bot 9 • 3-2, 2 outs",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := liveChip(tc.ls); got != tc.want {
				t.Fatalf("chip: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestNormalizeLiveState_FailsOpenToPreview(t *testing.T) {
	cases := []struct {
		abstract string
		want     liveState
	}{
		{"Preview", statePreview},
		{"Live", stateLive},
		{"Final", stateFinal},
		{"Suspended?", statePreview},
		{"", statePreview},
	}

	for _, tc := range cases {
		got := normalizeLiveState(feed.GameStatus{AbstractGameState: tc.abstract})
		if got != tc.want {
			t.Fatalf("normalize %q: got=%s want=%s", tc.abstract, got, tc.want)
		}
	}
}

func TestFormatStartET(t *testing.T) {
	t.Run("converts to eastern", func(t *testing.T) {
		got := formatStartET("2026-06-12T23:05:00Z")
		if got != "7:05 PM ET" {
			t.Fatalf("start time: got=%q want=%q", got, "7:05 PM ET")
		}
	})

	t.Run("unparseable input degrades to empty", func(t *testing.T) {
		if got := formatStartET("tonight-ish"); got != "" {
			t.Fatalf("expected empty, got %q", got)
		}
	})
}

func TestSurname(t *testing.T) {
	cases := []struct {
		full string
		want string
	}{
		{"Bobby Witt Jr.", "Witt"},
		{"Ronald Acuna Jr.", "Acuna"},
		{"Shohei Ohtani", "Ohtani"},
		{"Ichiro", "Ichiro"},
	}

	for _, tc := range cases {
		if got := surname(tc.full); got != tc.want {
			t.Fatalf("surname(%q): got=%q want=%q", tc.full, got, tc.want)
		}
	}
}

func TestBatterHistory_JoinsCompletedTokens(t *testing.T) {
	doc := &feed.LiveFeed{}
	doc.LiveData.Plays.AllPlays = []feed.Play{
		{
			About:   feed.PlayAbout{IsComplete: true},
			Matchup: feed.PlayMatchup{Batter: feed.PersonRef{ID: 99}},
			Result:  feed.PlayResult{EventType: "single"},
		},
		{
			About:   feed.PlayAbout{IsComplete: true},
			Matchup: feed.PlayMatchup{Batter: feed.PersonRef{ID: 42}},
			Result:  feed.PlayResult{EventType: "double"},
		},
		{
			About:   feed.PlayAbout{IsComplete: true},
			Matchup: feed.PlayMatchup{Batter: feed.PersonRef{ID: 99}},
			Result:  feed.PlayResult{EventType: "strikeout"},
		},
		{
			About:   feed.PlayAbout{IsComplete: false},
			Matchup: feed.PlayMatchup{Batter: feed.PersonRef{ID: 99}},
			Result:  feed.PlayResult{EventType: "triple"},
		},
	}

	if got := batterHistory(doc, 99); got != "1B, K" {
		t.Fatalf("history: got=%q want=%q", got, "1B, K")
	}
}
