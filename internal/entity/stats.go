package entity

import "time"

// Stats is the persisted per-user scoreboard.
type Stats struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	Draws          int    `json:"draws"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	TotalGames     int    `json:"total_games"`
	TournamentWins int    `json:"tournament_wins"`
}

// StatsDelta is one game outcome applied to a user's stats. Streak columns
// are derived by the storage layer: a win extends the streak, a loss resets
// it, a draw leaves it untouched.
type StatsDelta struct {
	Wins           int
	Losses         int
	Draws          int
	TournamentWins int
}

// HistoryRecord is one completed game, persisted best-effort.
type HistoryRecord struct {
	SessionID  string    `json:"session_id"`
	Player1    string    `json:"player1"`
	Player2    string    `json:"player2"`
	WinnerID   string    `json:"winner_id,omitempty"`
	Mode       string    `json:"mode"`
	Duration   int       `json:"duration"`
	MoveCount  int       `json:"move_count"`
	BoardState string    `json:"board_state"`
	CreatedAt  time.Time `json:"created_at"`
}
