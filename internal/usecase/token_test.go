package usecase

import (
	"testing"

	"github.com/statline/gameday/internal/domain/feed"
)

func TestDerivePlayToken_HitTable(t *testing.T) {
	cases := []struct {
		eventType string
		want      string
	}{
		{"single", "1B"},
		{"double", "2B"},
		{"triple", "3B"},
		{"home_run", "HR"},
		{"walk", "BB"},
		{"intent_walk", "BB"},
		{"hit_by_pitch", "HBP"},
		{"strikeout", "K"},
		{"strikeout_double_play", "KDP"},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			play := feed.Play{Result: feed.PlayResult{EventType: tc.eventType}}
			if got := DerivePlayToken(play); got != tc.want {
				t.Fatalf("token for %s: got=%q want=%q", tc.eventType, got, tc.want)
			}
		})
	}
}

func TestDerivePlayToken_GroundoutChainFromCredits(t *testing.T) {
	play := feed.Play{
		Result: feed.PlayResult{EventType: "grounded_into_double_play"},
		Runners: []feed.PlayRunner{
			{Credits: []feed.FieldingCredit{
				{Position: feed.Position{Code: "6"}, Credit: "f_assist"},
				{Position: feed.Position{Code: "4"}, Credit: "f_putout"},
			}},
			{Credits: []feed.FieldingCredit{
				{Position: feed.Position{Code: "4"}, Credit: "f_assist"},
				{Position: feed.Position{Code: "3"}, Credit: "f_putout"},
			}},
		},
	}

	if got := DerivePlayToken(play); got != "6-4-3" {
		t.Fatalf("double play chain: got=%q want=%q", got, "6-4-3")
	}
}

func TestDerivePlayToken_AirOutFromDescription(t *testing.T) {
	play := feed.Play{
		Result: feed.PlayResult{
			EventType:   "field_out",
			Event:       "Flyout",
			Description: "Mike Trout flies out to center fielder Julio Rodriguez.",
		},
	}

	if got := DerivePlayToken(play); got != "F8" {
		t.Fatalf("fly out token: got=%q want=%q", got, "F8")
	}
}

func TestDerivePlayToken_AirOutPrefixes(t *testing.T) {
	cases := []struct {
		event string
		want  string
	}{
		{"Pop Out", "P"},
		{"Lineout", "L"},
		{"Flyout", "F"},
	}

	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			play := feed.Play{Result: feed.PlayResult{EventType: "field_out", Event: tc.event}}
			if got := DerivePlayToken(play); got != tc.want {
				t.Fatalf("bare air out: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestDerivePlayToken_GroundoutParenChain(t *testing.T) {
	play := feed.Play{
		Result: feed.PlayResult{
			EventType:   "groundout",
			Description: "Bobby Witt Jr. grounds out (6-3).",
		},
	}

	if got := DerivePlayToken(play); got != "6-3" {
		t.Fatalf("paren chain: got=%q want=%q", got, "6-3")
	}
}

func TestDerivePlayToken_BareCategoryCodes(t *testing.T) {
	cases := []struct {
		eventType string
		want      string
	}{
		{"groundout", "GO"},
		{"field_error", "E"},
		{"fielders_choice", "FC"},
		{"sac_fly", "SF"},
		{"sac_bunt", "SH"},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			play := feed.Play{Result: feed.PlayResult{EventType: tc.eventType}}
			if got := DerivePlayToken(play); got != tc.want {
				t.Fatalf("bare category: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestDerivePlayToken_SacFlyWithPosition(t *testing.T) {
	play := feed.Play{
		Result: feed.PlayResult{
			EventType:   "sac_fly",
			Description: "Jose Altuve out on a sacrifice fly to right fielder Juan Soto.",
		},
	}

	if got := DerivePlayToken(play); got != "SF9" {
		t.Fatalf("sac fly token: got=%q want=%q", got, "SF9")
	}
}

func TestDerivePlayToken_Fallbacks(t *testing.T) {
	t.Run("parenthesized chain returned verbatim", func(t *testing.T) {
		play := feed.Play{
			Result: feed.PlayResult{
				EventType:   "runner_double_play_weirdness",
				Description: "strange play (3-6-1).",
			},
		}
		// Unknown classification but contains double_play, so the chain
		// branch resolves it from the description.
		if got := DerivePlayToken(play); got != "3-6-1" {
			t.Fatalf("fallback chain: got=%q want=%q", got, "3-6-1")
		}
	})

	t.Run("short event name truncated to six characters", func(t *testing.T) {
		play := feed.Play{
			Result: feed.PlayResult{
				EventType: "catcher_interf",
				Event:     "Catcher Interference",
			},
		}
		if got := DerivePlayToken(play); got != "Catche" {
			t.Fatalf("truncated event: got=%q want=%q", got, "Catche")
		}
	})

	t.Run("empty classification yields empty token", func(t *testing.T) {
		if got := DerivePlayToken(feed.Play{}); got != "" {
			t.Fatalf("empty play: got=%q want empty", got)
		}
	})
}

func TestResolveFielderChain_CreditsTakePriority(t *testing.T) {
	play := feed.Play{
		Result: feed.PlayResult{Description: "grounds out (4-3)."},
		Runners: []feed.PlayRunner{
			{Credits: []feed.FieldingCredit{
				{Position: feed.Position{Code: "6"}, Credit: "f_assist"},
				{Position: feed.Position{Code: "3"}, Credit: "f_putout"},
			}},
		},
	}

	if got := resolveFielderChain(play); got != "6-3" {
		t.Fatalf("credit priority: got=%q want=%q", got, "6-3")
	}
}

func TestChainFromCredits_UnassistedPutout(t *testing.T) {
	play := feed.Play{
		Runners: []feed.PlayRunner{
			{Credits: []feed.FieldingCredit{
				{Position: feed.Position{Code: "3"}, Credit: "f_putout"},
			}},
		},
	}

	if got := chainFromCredits(play); got != "3" {
		t.Fatalf("unassisted putout: got=%q want=%q", got, "3")
	}
}
