package events

import "encoding/json"

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeRoomCreated   = "room_created"
	TypeMovePlayed    = "move_played"
	TypeGameFinished  = "game_finished"
	TypeRoomRestarted = "room_restarted"
	TypeRoomClosed    = "room_closed"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RoomCreatedPayload is the payload for the "room_created" event.
type RoomCreatedPayload struct {
	RoomID     string `json:"room_id"`
	Starter    string `json:"starter"`
	Difficulty string `json:"difficulty"`
}

// MovePlayedPayload is the payload for the "move_played" event.
type MovePlayedPayload struct {
	RoomID     string `json:"room_id"`
	Side       string `json:"side"`
	Position   int    `json:"position"`
	Generation uint64 `json:"generation"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	RoomID      string `json:"room_id"`
	Outcome     string `json:"outcome"`
	WinningLine []int  `json:"winning_line,omitempty"`
	Generation  uint64 `json:"generation"`
}

// RoomRestartedPayload is the payload for the "room_restarted" event.
type RoomRestartedPayload struct {
	RoomID     string `json:"room_id"`
	Starter    string `json:"starter"`
	Generation uint64 `json:"generation"`
}

// RoomClosedPayload is the payload for the "room_closed" event.
type RoomClosedPayload struct {
	RoomID string `json:"room_id"`
}
