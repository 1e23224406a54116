package entity

import (
	"maps"
	"time"
)

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDrawn      = "drawn"
	StatusResigned   = "resigned"

	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	BoardSize = 3
)

const (
	ModeVsAI       = "vs_ai"
	ModeVsFriend   = "vs_friend"
	ModeQuickMatch = "quick_match"
	ModeGroupTable = "group_table"
)

const (
	DifficultyEasy       = "easy"
	DifficultyMedium     = "medium"
	DifficultyHard       = "hard"
	DifficultyImpossible = "impossible"
)

// AIPlayerID is the reserved participant identifier for the built-in opponent.
const AIPlayerID = "ai"

// HintAllowance is the per-participant hint budget for one session.
const HintAllowance = 3

// Move is one accepted board mutation, kept in order of application.
type Move struct {
	Actor string    `json:"actor"`
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	At    time.Time `json:"at"`
}

// TournamentRef points a session back at the bracket match it decides.
// It is a back-reference only; the tournament never owns the session.
type TournamentRef struct {
	TournamentID string `json:"tournament_id"`
	Round        int    `json:"round"`
	MatchIndex   int    `json:"match_index"`
}

type Session struct {
	ID            string            `json:"id"`
	Players       []string          `json:"players"`
	Symbols       map[string]string `json:"symbols"`
	Board         [9]string         `json:"board"`
	Turn          string            `json:"turn"`
	Mode          string            `json:"mode"`
	Difficulty    string            `json:"difficulty,omitempty"`
	Moves         []Move            `json:"moves"`
	HintsLeft     map[string]int    `json:"hints_left"`
	Status        string            `json:"status"`
	Winner        string            `json:"winner,omitempty"`
	ResignedBy    string            `json:"resigned_by,omitempty"`
	TournamentRef *TournamentRef    `json:"tournament_ref,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewSession creates a session with its first participant seated as X.
// A second participant (or the AI) must be seated before play starts.
func NewSession(id, mode, creator string) *Session {
	return &Session{
		ID:        id,
		Players:   []string{creator},
		Symbols:   map[string]string{creator: MarkX},
		Turn:      creator,
		Mode:      mode,
		Status:    StatusWaiting,
		HintsLeft: map[string]int{creator: HintAllowance},
		CreatedAt: time.Now(),
	}
}

// SeatOpponent fills the second slot and puts the session in play.
func (that *Session) SeatOpponent(id string) {
	that.Players = append(that.Players, id)
	that.Symbols[id] = MarkO
	that.HintsLeft[id] = HintAllowance
	that.Status = StatusInProgress
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Session) IsTerminal() bool {
	switch that.Status {
	case StatusWon, StatusDrawn, StatusResigned:
		return true
	}
	return false
}

func (that *Session) IsVsAI() bool {
	return that.Mode == ModeVsAI
}

// Opponent returns the other seated participant, or "" if the slot is empty.
func (that *Session) Opponent(id string) string {
	for _, player := range that.Players {
		if player != id {
			return player
		}
	}
	return ""
}

func (that *Session) HasPlayer(id string) bool {
	for _, player := range that.Players {
		if player == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to readers outside the
// registry's single-writer section.
func (that *Session) Clone() *Session {
	clone := *that
	clone.Players = append([]string(nil), that.Players...)
	clone.Moves = append([]Move(nil), that.Moves...)
	clone.Symbols = maps.Clone(that.Symbols)
	clone.HintsLeft = maps.Clone(that.HintsLeft)
	if that.TournamentRef != nil {
		ref := *that.TournamentRef
		clone.TournamentRef = &ref
	}
	return &clone
}

// HumanPlayers returns the seated participants excluding the AI slot.
func (that *Session) HumanPlayers() []string {
	humans := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		if player != AIPlayerID {
			humans = append(humans, player)
		}
	}
	return humans
}
