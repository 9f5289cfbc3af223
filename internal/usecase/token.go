package usecase

import (
	"regexp"
	"strings"

	"github.com/statline/gameday/internal/domain/feed"
)

// Plate-appearance outcome codes for directly classifiable events. Walk and
// strikeout variants are normalized before lookup, so only the canonical
// forms appear here.
var outcomeTokens = map[string]string{
	"single":                "1B",
	"double":                "2B",
	"triple":                "3B",
	"home_run":              "HR",
	"walk":                  "BB",
	"hit_by_pitch":          "HBP",
	"strikeout":             "K",
	"strikeout_double_play": "KDP",
}

var positionNumbers = map[string]string{
	"pitcher":        "1",
	"catcher":        "2",
	"first baseman":  "3",
	"second baseman": "4",
	"third baseman":  "5",
	"shortstop":      "6",
	"left fielder":   "7",
	"center fielder": "8",
	"right fielder":  "9",
}

var (
	parenChainPattern = regexp.MustCompile(`\((\d(?:-\d)*)\)`)
	toPositionPattern = regexp.MustCompile(`to (pitcher|catcher|first baseman|second baseman|third baseman|shortstop|left fielder|center fielder|right fielder)`)
)

// DerivePlayToken maps one play record to a compact outcome code, or ""
// when the play is unclassifiable. Callers treat "" as "not yet resolved".
func DerivePlayToken(play feed.Play) string {
	class := classifyEvent(play)
	if class == "" {
		return ""
	}

	if token, ok := outcomeTokens[normalizeOutcomeClass(class)]; ok {
		return token
	}

	chain := resolveFielderChain(play)

	switch {
	case strings.Contains(class, "sac_fly"):
		return "SF" + chain
	case strings.Contains(class, "sac_bunt"):
		return "SH" + chain
	case strings.Contains(class, "error"):
		return "E" + chain
	case strings.Contains(class, "fielders_choice"):
		return "FC" + chain
	case isAirOutClass(class):
		prefix := airOutPrefix(class)
		if chain != "" {
			return prefix + chain
		}
		return prefix
	case isGroundOutClass(class):
		if chain != "" {
			return chain
		}
		return "GO"
	}

	if match := parenChainPattern.FindString(play.Result.Description); match != "" {
		return match
	}
	if short := play.Result.Event; short != "" {
		if len(short) > 6 {
			return short[:6]
		}
		return short
	}

	return ""
}

// classifyEvent returns the normalized snake_case event classification.
// The generic "field_out" classification hides the batted-ball type, so the
// display event name is preferred in that case.
func classifyEvent(play feed.Play) string {
	class := normalizeEventName(play.Result.EventType)
	if class == "" || class == "field_out" {
		class = normalizeEventName(play.Result.Event)
	}

	return class
}

func normalizeEventName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")

	return name
}

// normalizeOutcomeClass folds event variants onto the canonical table keys:
// every walk flavor is a walk, every strikeout flavor is a strikeout unless
// it doubled a runner off.
func normalizeOutcomeClass(class string) string {
	switch {
	case strings.Contains(class, "strikeout") && strings.Contains(class, "double_play"):
		return "strikeout_double_play"
	case strings.Contains(class, "strikeout") || strings.Contains(class, "strike_out"):
		return "strikeout"
	case strings.Contains(class, "walk"):
		return "walk"
	case strings.Contains(class, "hit_by_pitch"):
		return "hit_by_pitch"
	default:
		return class
	}
}

func isGroundOutClass(class string) bool {
	for _, marker := range []string{"groundout", "ground_out", "grounded_into", "force_out", "forceout", "double_play", "triple_play", "field_out"} {
		if strings.Contains(class, marker) {
			return true
		}
	}

	return false
}

func isAirOutClass(class string) bool {
	for _, marker := range []string{"flyout", "fly_out", "lineout", "line_out", "pop_out", "popout", "pop_up"} {
		if strings.Contains(class, marker) {
			return true
		}
	}

	return false
}

func airOutPrefix(class string) string {
	switch {
	case strings.Contains(class, "pop"):
		return "P"
	case strings.Contains(class, "line"):
		return "L"
	default:
		return "F"
	}
}

// resolveFielderChain derives the hyphen-joined defensive position chain
// for a play, in priority order: structured credits, a parenthesized chain
// in the description, then a "to <position>" phrase.
func resolveFielderChain(play feed.Play) string {
	if chain := chainFromCredits(play); chain != "" {
		return chain
	}
	if match := parenChainPattern.FindStringSubmatch(play.Result.Description); len(match) == 2 {
		return match[1]
	}
	if match := toPositionPattern.FindStringSubmatch(strings.ToLower(play.Result.Description)); len(match) == 2 {
		return positionNumbers[match[1]]
	}

	return ""
}

// chainFromCredits concatenates every assist position in credited order and
// appends only the last putout, so double plays do not enumerate
// intermediate putouts.
func chainFromCredits(play feed.Play) string {
	var assists []string
	putout := ""

	for _, runner := range play.Runners {
		for _, credit := range runner.Credits {
			code := strings.TrimSpace(credit.Position.Code)
			if code == "" {
				continue
			}

			switch {
			case strings.Contains(credit.Credit, "assist"):
				assists = append(assists, code)
			case strings.Contains(credit.Credit, "putout"):
				putout = code
			}
		}
	}

	if putout == "" {
		if len(assists) == 0 {
			return ""
		}
		return strings.Join(assists, "-")
	}

	return strings.Join(append(assists, putout), "-")
}
