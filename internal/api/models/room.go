package models

import "ctchen222/Tic-Tac-Toe-Solo/pkg/proto"

// CreateRoomRequest defines the body for opening a room.
type CreateRoomRequest struct {
	Starter    string `json:"starter" binding:"omitempty,oneof=player bot"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// CreateRoomResponse returns the new room, its state and the token needed to play in it.
type CreateRoomResponse struct {
	RoomID   string                      `json:"room_id"`
	Token    string                      `json:"token"`
	Snapshot proto.ServerToClientMessage `json:"snapshot"`
}

// ClickRequest is a click on one cell. Positions off the board are accepted
// and ignored by the game.
type ClickRequest struct {
	Position *int `json:"position" binding:"required"`
}

// RestartRequest optionally changes who opens the next game.
type RestartRequest struct {
	Starter string `json:"starter" binding:"omitempty,oneof=player bot"`
}

// DifficultyRequest changes the echoed difficulty.
type DifficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// MoveResponse wraps a snapshot with whether the action changed anything.
type MoveResponse struct {
	Accepted bool                        `json:"accepted"`
	Snapshot proto.ServerToClientMessage `json:"snapshot"`
}
