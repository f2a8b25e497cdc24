package proto

import "ctchen222/Tic-Tac-Toe-Solo/internal/game"

// Message types
const (
	TypeClick      = "click"
	TypeRestart    = "restart"
	TypeStarter    = "starter"
	TypeDifficulty = "difficulty"

	TypeUpdate     = "update"
	TypeAssignment = "assignment"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type       string `json:"type" validate:"required,oneof=click restart starter difficulty"`
	Position   *int   `json:"position,omitempty" validate:"required_if=Type click"`
	Starter    string `json:"starter,omitempty" validate:"omitempty,starter"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,difficulty"`
}

// ServerToClientMessage is a full snapshot of a room, pushed after every change.
type ServerToClientMessage struct {
	Type        string          `json:"type" validate:"required"`
	RoomID      string          `json:"roomId"`
	Board       game.Board      `json:"board"`
	Next        game.PlayerMark `json:"next,omitempty"`
	Phase       string          `json:"phase"`
	Outcome     game.Result     `json:"outcome"`
	Winner      game.PlayerMark `json:"winner,omitempty"`
	WinningLine []int           `json:"winningLine,omitempty"`
	Status      string          `json:"status"`
	Starter     game.Starter    `json:"starter"`
	Difficulty  string          `json:"difficulty"`
	Generation  uint64          `json:"generation"`
}

// PlayerAssignmentMessage informs a player of their room and mark. Token is
// set only for the connection that opened the room.
type PlayerAssignmentMessage struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId"`
	PlayerID string          `json:"playerId,omitempty"`
	Mark     game.PlayerMark `json:"mark"`
	Token    string          `json:"token,omitempty"`
}
