package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/statline/gameday/internal/domain/feed"
)

// hitMetrics is the extracted batted-ball line for one play. Zero-valued
// fields with ok=false are omitted from formatting, never zero-filled.
type hitMetrics struct {
	ev, la, dist, xba             float64
	hasEV, hasLA, hasDist, hasXBA bool
}

// StatcastLine locates the most recent described plate appearance in the
// document and formats its batted-ball metrics, joined by " • ". Returns
// "" when no hit data exists anywhere.
func StatcastLine(doc *feed.LiveFeed) string {
	play, ok := latestDescribedPlay(doc)
	if !ok {
		return ""
	}

	metrics, ok := hitMetricsFromPlay(play)
	if !ok {
		return ""
	}

	return formatHitMetrics(metrics)
}

// latestDescribedPlay walks the play list backward for the most recent
// play with a non-empty description, falling back to the current play and
// then the most recent scoring play.
func latestDescribedPlay(doc *feed.LiveFeed) (feed.Play, bool) {
	plays := doc.LiveData.Plays

	for i := len(plays.AllPlays) - 1; i >= 0; i-- {
		if strings.TrimSpace(plays.AllPlays[i].Result.Description) != "" {
			return plays.AllPlays[i], true
		}
	}

	if plays.CurrentPlay != nil && strings.TrimSpace(plays.CurrentPlay.Result.Description) != "" {
		return *plays.CurrentPlay, true
	}

	if n := len(plays.ScoringPlays); n > 0 {
		idx := plays.ScoringPlays[n-1]
		if idx >= 0 && idx < len(plays.AllPlays) {
			return plays.AllPlays[idx], true
		}
	}

	return feed.Play{}, false
}

// hitMetricsFromPlay reads the most recent sub-event carrying hit data, or
// the play-level hit data when no sub-event has any.
func hitMetricsFromPlay(play feed.Play) (hitMetrics, bool) {
	for i := len(play.PlayEvents) - 1; i >= 0; i-- {
		if len(play.PlayEvents[i].HitData) > 0 {
			return hitMetricsFromBlock(play.PlayEvents[i].HitData)
		}
	}

	if len(play.HitData) > 0 {
		return hitMetricsFromBlock(play.HitData)
	}

	return hitMetrics{}, false
}

func hitMetricsFromBlock(block map[string]any) (hitMetrics, bool) {
	var m hitMetrics

	m.ev, m.hasEV = feed.Number(block, "launchSpeed", "launch_speed", "exitVelocity")
	m.la, m.hasLA = feed.Number(block, "launchAngle", "launch_angle")
	m.dist, m.hasDist = feed.Number(block, "totalDistance", "hitDistance", "hit_distance_sc")
	m.xba, m.hasXBA = feed.Number(block, "estimatedBA", "estimatedBa", "estimated_ba_using_speedangle", "xba")

	ok := m.hasEV || m.hasLA || m.hasDist || m.hasXBA

	return m, ok
}

func formatHitMetrics(m hitMetrics) string {
	var parts []string

	if m.hasEV {
		parts = append(parts, formatExitVelocity(m.ev))
	}
	if m.hasLA {
		parts = append(parts, formatLaunchAngle(m.la))
	}
	if m.hasDist {
		parts = append(parts, formatDistance(m.dist))
	}
	if m.hasXBA {
		parts = append(parts, "xBA "+formatExpectedAverage(m.xba))
	}

	return strings.Join(parts, " • ")
}

func formatExitVelocity(ev float64) string {
	return fmt.Sprintf("%.1f MPH", ev)
}

func formatLaunchAngle(la float64) string {
	return fmt.Sprintf("%.1f°", la)
}

// formatDistance renders integer feet; an incidental float representation
// of a whole number is truncated, a real fraction is rounded.
func formatDistance(dist float64) string {
	whole := math.Trunc(dist)
	if math.Abs(dist-whole) < 0.005 {
		return fmt.Sprintf("%d ft", int(whole))
	}

	return fmt.Sprintf("%d ft", int(math.Round(dist)))
}

// formatExpectedAverage normalizes percentage-scale values (>1.0) and
// renders three decimals with the leading zero stripped.
func formatExpectedAverage(xba float64) string {
	if xba > 1.0 {
		xba = xba / 100
	}

	formatted := fmt.Sprintf("%.3f", xba)
	formatted = strings.TrimPrefix(formatted, "0")

	return formatted
}

// estimateExpectedAverage is an approximate, centered heuristic for
// expected batting average from exit velocity and launch angle. It is not
// a calibrated model; it only fills the gap when the feed omits the stat.
func estimateExpectedAverage(ev, la float64) float64 {
	value := 0.25 + 0.22*(ev-88)/12 + 0.18*math.Exp(-0.5*math.Pow((la-12)/15, 2))

	return clamp(value, 0.02, 0.90)
}

// estimateExpectedSlugging is the companion heuristic for expected
// slugging. Same caveat as estimateExpectedAverage.
func estimateExpectedSlugging(ev, la float64) float64 {
	value := 0.35 + 0.45*math.Max(0, (ev-85)/15)*math.Exp(-0.5*math.Pow((la-20)/18, 2))

	return clamp(value, 0.05, 2.50)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}

	return value
}
