// Package game holds the presentation-ready shapes served to the web
// front end: day slates, shaped game snapshots, box score rows, and the
// detail/header payloads.
package game

// Status is the closed set of presentation statuses. Unknown upstream
// states fail open to scheduled so a game is never hidden from the slate.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
	StatusError      Status = "error"
)

// DaySlate is the /v1/games payload: every game of a date, shaped, with a
// slate-level error when the schedule itself could not be fetched.
type DaySlate struct {
	Date  string
	Games []Snapshot
	Error string
}

// HasLiveGame reports whether any snapshot on the slate is in progress,
// which drives the short cache TTL.
func (s DaySlate) HasLiveGame() bool {
	for _, g := range s.Games {
		if g.Status == StatusInProgress {
			return true
		}
	}

	return false
}

// Snapshot is one shaped game on the slate.
type Snapshot struct {
	GamePk    int64
	Status    Status
	Chip      string
	StartET   string
	Away      TeamSide
	Home      TeamSide
	Linescore *Linescore
	Count     *Count
	Bases     *Bases
	DueUp     []string
	LastPlay  string
	Statcast  string
	Scoring   []ScoringPlay
	Error     string
}

// TeamSide is one team's half of a snapshot. Batters/Pitchers are nil for
// scheduled and errored games and populated otherwise, even when empty.
type TeamSide struct {
	ID       int64
	Abbr     string
	Name     string
	Record   string
	Runs     *int
	Hits     *int
	Errors   *int
	Probable string
	Lineup   []string

	CurrentPitcher string
	CurrentBatter  string
	BreakPitcher   string
	FinalPitcher   string
	SavePitcher    string

	Batters  []BattingRow
	Pitchers []PitchingRow
}

// Count is the live balls/strikes/outs state.
type Count struct {
	Balls   int
	Strikes int
	Outs    int
}

// Bases marks occupied bases.
type Bases struct {
	First  bool
	Second bool
	Third  bool
}

// Linescore is the padded per-inning run grid plus R/H/E totals. Away and
// Home always hold exactly N entries; innings not yet played are "".
type Linescore struct {
	N      int
	Away   []string
	Home   []string
	Totals LinescoreTotals
}

type LinescoreTotals struct {
	Away TeamTotals
	Home TeamTotals
}

type TeamTotals struct {
	Runs   int
	Hits   int
	Errors int
}

// BattingRow is one batting box line. Indent marks a substitute sharing
// the previous row's lineup slot.
type BattingRow struct {
	PlayerID  int64
	Name      string
	Position  string
	OrderCode int
	Indent    bool
	AB        int
	R         int
	H         int
	RBI       int
	BB        int
	K         int
	AVG       string
}

// PitchingRow is one pitching box line, kept in upstream appearance order.
type PitchingRow struct {
	PlayerID int64
	Name     string
	Position string
	Indent   bool
	IP       string
	H        int
	R        int
	ER       int
	BB       int
	K        int
	HR       int
	Pitches  int
	ERA      string
}

// ScoringPlay is one entry of the scoring summary.
type ScoringPlay struct {
	Inning string
	Play   string
	Away   int
	Home   int
}

// Detail is the /v1/games/{gamePk} payload.
type Detail struct {
	Game  Snapshot
	Plays []PlayRow
	Meta  DetailMeta
}

// PlayRow is one play-by-play line with formatted Statcast columns.
type PlayRow struct {
	Inning string
	Play   string
	EV     string
	LA     string
	Dist   string
	XBA    string
	XSLG   string
	Away   int
	Home   int
}

type DetailMeta struct {
	Venue     string
	StartET   string
	Weather   string
	Status    Status
	Decisions string
}

// Header is the /v1/games/{gamePk}/header payload.
type Header struct {
	GamePk  int64
	Status  Status
	Chip    string
	StartET string
	Venue   string
	Away    HeaderSide
	Home    HeaderSide
}

type HeaderSide struct {
	ID     int64
	Abbr   string
	Name   string
	Record string
	Score  *int
	Logo   string
}

// PitcherLine is a cached pitcher season summary used for probable-pitcher
// enrichment.
type PitcherLine struct {
	ID     int64
	Name   string
	Hand   string
	Wins   int
	Losses int
	ERA    string
}
