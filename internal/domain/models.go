package domain

// Position is an offensive roster position eligible for the game.
type Position string

const (
	QB Position = "QB"
	RB Position = "RB"
	WR Position = "WR"
	TE Position = "TE"
)

// Slot identifies one of the five question slots in a round. WR appears
// twice, so slots carry a suffix while Position stays the roster label.
type Slot string

const (
	SlotQB  Slot = "QB"
	SlotWR1 Slot = "WR1"
	SlotWR2 Slot = "WR2"
	SlotRB  Slot = "RB"
	SlotTE  Slot = "TE"
)

// Position strips the WR1/WR2 suffix back to the roster position.
func (s Slot) Position() Position {
	switch s {
	case SlotWR1, SlotWR2:
		return WR
	default:
		return Position(s)
	}
}

// StatCategory names a seasonal stat column.
type StatCategory string

const (
	PassingYards   StatCategory = "passing_yards"
	PassingTDs     StatCategory = "passing_tds"
	Completions    StatCategory = "completions"
	Attempts       StatCategory = "attempts"
	Receptions     StatCategory = "receptions"
	ReceivingYards StatCategory = "receiving_yards"
	ReceivingTDs   StatCategory = "receiving_tds"
	Targets        StatCategory = "targets"
	RushingYards   StatCategory = "rushing_yards"
	RushingTDs     StatCategory = "rushing_tds"
	Carries        StatCategory = "carries"
)

// PlayerSeason is one player's stat line for a single season.
type PlayerSeason struct {
	PlayerID     string   `json:"playerId"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Season       int      `json:"season"`
	OffenseSnaps int      `json:"offenseSnaps"`

	PassingYards   int `json:"passingYards"`
	PassingTDs     int `json:"passingTds"`
	Completions    int `json:"completions"`
	Attempts       int `json:"attempts"`
	Receptions     int `json:"receptions"`
	ReceivingYards int `json:"receivingYards"`
	ReceivingTDs   int `json:"receivingTds"`
	Targets        int `json:"targets"`
	RushingYards   int `json:"rushingYards"`
	RushingTDs     int `json:"rushingTds"`
	Carries        int `json:"carries"`
}

// Stat returns the value of the given category for this season line.
func (p PlayerSeason) Stat(cat StatCategory) int {
	switch cat {
	case PassingYards:
		return p.PassingYards
	case PassingTDs:
		return p.PassingTDs
	case Completions:
		return p.Completions
	case Attempts:
		return p.Attempts
	case Receptions:
		return p.Receptions
	case ReceivingYards:
		return p.ReceivingYards
	case ReceivingTDs:
		return p.ReceivingTDs
	case Targets:
		return p.Targets
	case RushingYards:
		return p.RushingYards
	case RushingTDs:
		return p.RushingTDs
	case Carries:
		return p.Carries
	default:
		return 0
	}
}

// Leader is the player with the highest value for a stat, season, and position.
type Leader struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
}

// Candidate is an entry in a question's eligible-player pool.
type Candidate struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// Question asks who led a stat category for a position in a season.
// Immutable once a round is assembled.
type Question struct {
	Slot       Slot         `json:"slot"`
	Season     int          `json:"season"`
	Stat       StatCategory `json:"stat"`
	Prompt     string       `json:"prompt"`
	Leader     Leader       `json:"-"`
	Candidates []Candidate  `json:"candidates"`
	DataIssue  bool         `json:"dataIssue"`
}

// GuessResult records the scored outcome of a single guess.
type GuessResult struct {
	QuestionIndex int    `json:"questionIndex"`
	GuessedID     string `json:"guessedId"`
	GuessedName   string `json:"guessedName"`
	GuessedValue  int    `json:"guessedValue"`
	CorrectID     string `json:"correctId"`
	CorrectName   string `json:"correctName"`
	CorrectValue  int    `json:"correctValue"`
	Points        int    `json:"points"`
	EmojiRow      string `json:"emojiRow"`
}

// RoundMode distinguishes the daily challenge from practice play.
type RoundMode string

const (
	ModeDaily    RoundMode = "daily"
	ModePractice RoundMode = "practice"
)

// Round is a fixed sequence of five questions played front to back.
type Round struct {
	ID        string        `json:"id"`
	Mode      RoundMode     `json:"mode"`
	Date      string        `json:"date,omitempty"` // daily rounds only, YYYY-MM-DD UTC
	Questions []Question    `json:"questions"`
	Results   []GuessResult `json:"results"`
}

// DailyState tracks a session's progress for one UTC calendar date.
// Completed never flips back to false except by the date advancing.
type DailyState struct {
	Date      string        `json:"date"`
	Completed bool          `json:"completed"`
	Score     int           `json:"score"`
	MaxScore  int           `json:"maxScore"`
	Results   []GuessResult `json:"results"`
}
