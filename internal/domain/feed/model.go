// Package feed holds JSON-tagged mirrors of the upstream stats feed
// documents. Heterogeneous stat blocks (per-player batting/pitching maps,
// Statcast hit data) stay as map[string]any and are read through the
// candidate-key helpers in this package.
package feed

// Schedule is the day-schedule document.
type Schedule struct {
	TotalGames int            `json:"totalGames"`
	Dates      []ScheduleDate `json:"dates"`
}

type ScheduleDate struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games"`
}

type ScheduleGame struct {
	GamePk   int64         `json:"gamePk"`
	GameDate string        `json:"gameDate"`
	Status   GameStatus    `json:"status"`
	Teams    ScheduleTeams `json:"teams"`
	Venue    Venue         `json:"venue"`
}

type ScheduleTeams struct {
	Away ScheduleTeam `json:"away"`
	Home ScheduleTeam `json:"home"`
}

type ScheduleTeam struct {
	Team         TeamRef       `json:"team"`
	LeagueRecord *LeagueRecord `json:"leagueRecord,omitempty"`
	Score        *int          `json:"score,omitempty"`
}

type LeagueRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type TeamRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Venue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode"`
}

// LiveFeed is the full live game document.
type LiveFeed struct {
	GamePk   int64    `json:"gamePk"`
	GameData GameData `json:"gameData"`
	LiveData LiveData `json:"liveData"`
}

type GameData struct {
	Status           GameStatus           `json:"status"`
	Teams            GameDataTeams        `json:"teams"`
	Datetime         GameDatetime         `json:"datetime"`
	Venue            Venue                `json:"venue"`
	Weather          Weather              `json:"weather"`
	ProbablePitchers ProbablePitchers     `json:"probablePitchers"`
	Players          map[string]PersonRef `json:"players"`
}

type GameDataTeams struct {
	Away GameDataTeam `json:"away"`
	Home GameDataTeam `json:"home"`
}

type GameDataTeam struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Abbreviation string        `json:"abbreviation"`
	Record       *LeagueRecord `json:"record,omitempty"`
}

type GameDatetime struct {
	DateTime     string `json:"dateTime"`
	OriginalDate string `json:"originalDate"`
}

type Weather struct {
	Condition string `json:"condition"`
	Temp      string `json:"temp"`
	Wind      string `json:"wind"`
}

type ProbablePitchers struct {
	Away *PersonRef `json:"away,omitempty"`
	Home *PersonRef `json:"home,omitempty"`
}

type PersonRef struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type LiveData struct {
	Linescore Linescore  `json:"linescore"`
	Boxscore  Boxscore   `json:"boxscore"`
	Plays     Plays      `json:"plays"`
	Decisions *Decisions `json:"decisions,omitempty"`
}

type Decisions struct {
	Winner *PersonRef `json:"winner,omitempty"`
	Loser  *PersonRef `json:"loser,omitempty"`
	Save   *PersonRef `json:"save,omitempty"`
}

type Linescore struct {
	CurrentInning        int            `json:"currentInning"`
	CurrentInningOrdinal string         `json:"currentInningOrdinal"`
	InningState          string         `json:"inningState"`
	Balls                int            `json:"balls"`
	Strikes              int            `json:"strikes"`
	Outs                 int            `json:"outs"`
	Innings              []Inning       `json:"innings"`
	Teams                LinescoreTeams `json:"teams"`
	Offense              Offense        `json:"offense"`
	Defense              Defense        `json:"defense"`
}

type Inning struct {
	Num  int        `json:"num"`
	Away InningSide `json:"away"`
	Home InningSide `json:"home"`
}

type InningSide struct {
	Runs   *int `json:"runs,omitempty"`
	Hits   *int `json:"hits,omitempty"`
	Errors *int `json:"errors,omitempty"`
}

type LinescoreTeams struct {
	Away LinescoreTotals `json:"away"`
	Home LinescoreTotals `json:"home"`
}

type LinescoreTotals struct {
	Runs   int `json:"runs"`
	Hits   int `json:"hits"`
	Errors int `json:"errors"`
}

// Offense describes the half-inning offensive context: current/upcoming
// batter and occupied bases.
type Offense struct {
	Batter *PersonRef `json:"batter,omitempty"`
	OnDeck *PersonRef `json:"onDeck,omitempty"`
	InHole *PersonRef `json:"inHole,omitempty"`
	First  *PersonRef `json:"first,omitempty"`
	Second *PersonRef `json:"second,omitempty"`
	Third  *PersonRef `json:"third,omitempty"`
}

type Defense struct {
	Pitcher *PersonRef `json:"pitcher,omitempty"`
}

type Boxscore struct {
	Teams BoxTeams `json:"teams"`
}

type BoxTeams struct {
	Away BoxTeam `json:"away"`
	Home BoxTeam `json:"home"`
}

type BoxTeam struct {
	Team         TeamRef              `json:"team"`
	Players      map[string]BoxPlayer `json:"players"`
	Batters      []int64              `json:"batters"`
	Pitchers     []int64              `json:"pitchers"`
	BattingOrder []int64              `json:"battingOrder"`
}

type BoxPlayer struct {
	Person       PersonRef      `json:"person"`
	Position     Position       `json:"position"`
	BattingOrder string         `json:"battingOrder"`
	Stats        BoxPlayerStats `json:"stats"`
	SeasonStats  BoxPlayerStats `json:"seasonStats"`
}

type Position struct {
	Code         string `json:"code"`
	Abbreviation string `json:"abbreviation"`
}

// BoxPlayerStats keeps the upstream stat groups as loose maps; field names
// vary between feed revisions, so callers read them with candidate keys.
type BoxPlayerStats struct {
	Batting  map[string]any `json:"batting"`
	Pitching map[string]any `json:"pitching"`
}

type Plays struct {
	AllPlays     []Play `json:"allPlays"`
	CurrentPlay  *Play  `json:"currentPlay,omitempty"`
	ScoringPlays []int  `json:"scoringPlays"`
}

type Play struct {
	Result     PlayResult     `json:"result"`
	About      PlayAbout      `json:"about"`
	Matchup    PlayMatchup    `json:"matchup"`
	PlayEvents []PlayEvent    `json:"playEvents"`
	Runners    []PlayRunner   `json:"runners"`
	HitData    map[string]any `json:"hitData,omitempty"`
}

type PlayResult struct {
	Event       string `json:"event"`
	EventType   string `json:"eventType"`
	Description string `json:"description"`
	RBI         int    `json:"rbi"`
	AwayScore   int    `json:"awayScore"`
	HomeScore   int    `json:"homeScore"`
}

type PlayAbout struct {
	AtBatIndex    int    `json:"atBatIndex"`
	HalfInning    string `json:"halfInning"`
	Inning        int    `json:"inning"`
	IsComplete    bool   `json:"isComplete"`
	IsScoringPlay bool   `json:"isScoringPlay"`
}

type PlayMatchup struct {
	Batter  PersonRef `json:"batter"`
	Pitcher PersonRef `json:"pitcher"`
}

type PlayEvent struct {
	HitData map[string]any `json:"hitData,omitempty"`
}

type PlayRunner struct {
	Credits []FieldingCredit `json:"credits"`
}

type FieldingCredit struct {
	Player   *PersonRef `json:"player,omitempty"`
	Position Position   `json:"position"`
	Credit   string     `json:"credit"`
}

// Person is the people endpoint document, used for pitcher season splits.
type Person struct {
	People []PersonDetail `json:"people"`
}

type PersonDetail struct {
	ID        int64       `json:"id"`
	FullName  string      `json:"fullName"`
	PitchHand *HandedRef  `json:"pitchHand,omitempty"`
	Stats     []StatGroup `json:"stats"`
}

type HandedRef struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type StatGroup struct {
	Group  NamedRef    `json:"group"`
	Type   NamedRef    `json:"type"`
	Splits []StatSplit `json:"splits"`
}

type NamedRef struct {
	DisplayName string `json:"displayName"`
}

type StatSplit struct {
	Season string         `json:"season"`
	Stat   map[string]any `json:"stat"`
}
