package entity

// Control names the actions a render surface should offer next to a board.
const (
	ControlHint         = "hint"
	ControlUndo         = "undo"
	ControlResign       = "resign"
	ControlRematch      = "rematch"
	ControlStopSpectate = "stop_spectate"
	ControlRefresh      = "refresh"
	ControlMainMenu     = "main_menu"
)

// RenderInstruction tells the external transport what one observer should
// see. The core never formats platform markup, only structured state.
type RenderInstruction struct {
	For        string    `json:"for"`
	SessionID  string    `json:"session_id,omitempty"`
	HeaderText string    `json:"header_text"`
	StatusText string    `json:"status_text"`
	Board      [9]string `json:"board"`
	Controls   []string  `json:"controls"`
	IsTerminal bool      `json:"is_terminal"`
}
