package entity

import "time"

const (
	TournamentWaiting   = "waiting"
	TournamentActive    = "active"
	TournamentCompleted = "completed"
)

const (
	MatchPending   = "pending"
	MatchCompleted = "completed"
)

// Match is one bracket slot. Matches are only appended, never deleted,
// so a completed tournament keeps its full history.
type Match struct {
	Player1   string `json:"player1"`
	Player2   string `json:"player2"`
	Winner    string `json:"winner,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Status    string `json:"status"`
}

type Tournament struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Creator      string           `json:"creator"`
	MaxPlayers   int              `json:"max_players"`
	Prize        string           `json:"prize"`
	Participants []string         `json:"participants"`
	Status       string           `json:"status"`
	Bracket      map[int][]*Match `json:"bracket"`
	Byes         map[int][]string `json:"byes"`
	CurrentRound int              `json:"current_round"`
	Champion     string           `json:"champion,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewTournament creates a waiting tournament with the creator as its
// first participant.
func NewTournament(id, name, creator string, maxPlayers int, prize string) *Tournament {
	return &Tournament{
		ID:           id,
		Name:         name,
		Creator:      creator,
		MaxPlayers:   maxPlayers,
		Prize:        prize,
		Participants: []string{creator},
		Status:       TournamentWaiting,
		Bracket:      make(map[int][]*Match),
		Byes:         make(map[int][]string),
		CurrentRound: 1,
		CreatedAt:    time.Now(),
	}
}

func (that *Tournament) IsWaiting() bool {
	return that.Status == TournamentWaiting
}

func (that *Tournament) IsActive() bool {
	return that.Status == TournamentActive
}

func (that *Tournament) IsCompleted() bool {
	return that.Status == TournamentCompleted
}

func (that *Tournament) HasParticipant(id string) bool {
	for _, participant := range that.Participants {
		if participant == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to readers outside the
// manager's per-tournament critical section.
func (that *Tournament) Clone() *Tournament {
	clone := *that
	clone.Participants = append([]string(nil), that.Participants...)

	clone.Bracket = make(map[int][]*Match, len(that.Bracket))
	for round, matches := range that.Bracket {
		copied := make([]*Match, 0, len(matches))
		for _, match := range matches {
			m := *match
			copied = append(copied, &m)
		}
		clone.Bracket[round] = copied
	}

	clone.Byes = make(map[int][]string, len(that.Byes))
	for round, byes := range that.Byes {
		clone.Byes[round] = append([]string(nil), byes...)
	}

	return &clone
}

// RoundComplete reports whether every match of the round has a winner.
func (that *Tournament) RoundComplete(round int) bool {
	for _, match := range that.Bracket[round] {
		if match.Status != MatchCompleted {
			return false
		}
	}
	return true
}

// Survivors returns the pool that seeds the next round: bye holders first,
// then winners in match order.
func (that *Tournament) Survivors(round int) []string {
	pool := make([]string, 0, len(that.Byes[round])+len(that.Bracket[round]))
	pool = append(pool, that.Byes[round]...)
	for _, match := range that.Bracket[round] {
		if match.Winner != "" {
			pool = append(pool, match.Winner)
		}
	}
	return pool
}

// TournamentSummary is the listing shape for the active-tournament view.
type TournamentSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Creator        string    `json:"creator"`
	Status         string    `json:"status"`
	CurrentPlayers int       `json:"current_players"`
	MaxPlayers     int       `json:"max_players"`
	Prize          string    `json:"prize"`
	CreatedAt      time.Time `json:"created_at"`
}
