package domain

import "time"

// Address is the opaque delivery handle for one participant's chat:
// a per-player bot token plus the chat id the bot talks to.
type Address struct {
	Token  string
	ChatID string
}

// Participant is one roster entry. Immutable for the duration of a run.
type Participant struct {
	Name    string
	Address Address
}

// Question is one entry of the static geography bank.
type Question struct {
	Country   string `json:"Country"`
	Capital   string `json:"Capital"`
	Continent string `json:"Continent"`
}

// Direction selects which way a question is asked.
type Direction int

const (
	// AskCapital asks for the capital given the country.
	AskCapital Direction = iota
	// AskCountry asks for the country given its capital.
	AskCountry
)

// Prompt is one asked unit: a question plus its chosen direction.
// Every prompt additionally carries an implicit continent sub-question.
type Prompt struct {
	Question  Question
	Direction Direction
}

// Status is the terminal state of one participant's session.
type Status int

const (
	// Abandoned means the participant never confirmed, or their
	// transport broke beyond recovery mid-session.
	Abandoned Status = iota
	// Completed means the participant played the full question sequence.
	Completed
)

func (s Status) String() string {
	switch s {
	case Abandoned:
		return "abandoned"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one session. Points is meaningful only when
// Status is Completed.
type Outcome struct {
	Participant Participant
	Status      Status
	Points      int
}

// Run aggregates every outcome of one orchestration pass.
type Run struct {
	Outcomes   []Outcome
	SecondTurn bool
}

// LeaderboardEntry is one row of the persistent classification table.
type LeaderboardEntry struct {
	Player string
	Points int
}

// InboundMessage is one reply received from a participant's chat.
type InboundMessage struct {
	Text   string
	SentAt time.Time
}
