package types

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/player"
)

// RegistrationRequest represents a request to attach a websocket player to a room.
type RegistrationRequest struct {
	Player     *player.Player
	RoomID     string // Existing room to join; empty creates one
	Starter    string // "player" or "bot"
	Difficulty string // Echoed only
	IssueToken func(roomID string) (string, error)
	Ctx        context.Context
	Done       chan<- RegistrationResult
}

// RegistrationResult reports where a registered player ended up.
type RegistrationResult struct {
	RoomID string
	Err    error
}
