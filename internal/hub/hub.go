package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"ctchen222/Tic-Tac-Toe-Solo/internal/hub/types"
	"ctchen222/Tic-Tac-Toe-Solo/internal/room"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 10 * time.Second
	sweepInterval     = 30 * time.Second
)

var tracer = otel.Tracer("hub")

var ErrRoomNotFound = errors.New("room not found")

// Hub manages all the rooms.
type Hub struct {
	mu             sync.RWMutex
	rooms          map[string]*room.Room
	register       chan *types.RegistrationRequest
	moveCalculator room.MoveCalculator
	roomOptions    room.Options
	idleTTL        time.Duration
	now            func() time.Time
}

// NewHub creates a new hub. opts are applied to every room it creates;
// Starter and Difficulty are overridden per room.
func NewHub(calculator room.MoveCalculator, opts room.Options, idleTTL time.Duration) *Hub {
	return &Hub{
		rooms:          make(map[string]*room.Room),
		register:       make(chan *types.RegistrationRequest),
		moveCalculator: calculator,
		roomOptions:    opts,
		idleTTL:        idleTTL,
		now:            time.Now,
	}
}

// Run processes registrations, pings players and sweeps idle rooms until ctx
// is cancelled, then closes every room.
func (h *Hub) Run(ctx context.Context) {
	pingTicker := time.NewTicker(heartbeatInterval)
	sweepTicker := time.NewTicker(sweepInterval)
	defer func() {
		pingTicker.Stop()
		sweepTicker.Stop()
		h.closeAll(context.Background())
	}()

	slog.InfoContext(ctx, "Hub started")
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Hub stopping")
			return

		case req := <-h.register:
			h.handleRegistration(req)

		case <-pingTicker.C:
			for _, r := range h.snapshotRooms() {
				r.Ping(ctx)
			}

		case <-sweepTicker.C:
			h.Sweep(ctx)
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// CreateRoom opens a new room and starts its first game.
func (h *Hub) CreateRoom(ctx context.Context, starter game.Starter, difficulty bot.Difficulty) *room.Room {
	ctx, span := tracer.Start(ctx, "hub.CreateRoom", trace.WithAttributes(
		attribute.String("game.starter", string(starter)),
		attribute.String("bot.difficulty", string(difficulty)),
	))
	defer span.End()

	opts := h.roomOptions
	opts.Starter = starter
	opts.Difficulty = difficulty

	roomID := uuid.New().String()
	r := room.NewRoom(ctx, roomID, h.moveCalculator, opts)
	span.SetAttributes(attribute.String("room.id", roomID))

	h.mu.Lock()
	h.rooms[roomID] = r
	h.mu.Unlock()

	slog.InfoContext(ctx, "Room created", "room.id", roomID, "starter", starter, "difficulty", difficulty)
	return r
}

// Room looks up a room by id.
func (h *Hub) Room(id string) (*room.Room, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// RemoveRoom closes a room and forgets it.
func (h *Hub) RemoveRoom(ctx context.Context, id string) error {
	h.mu.Lock()
	r, ok := h.rooms[id]
	delete(h.rooms, id)
	h.mu.Unlock()

	if !ok {
		return ErrRoomNotFound
	}
	r.Close(ctx)
	return nil
}

// RoomCount returns how many rooms are open.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Sweep closes rooms that have no connected players and have been idle for
// longer than the configured TTL.
func (h *Hub) Sweep(ctx context.Context) {
	if h.idleTTL <= 0 {
		return
	}
	now := h.now()
	for id, r := range h.snapshotRoomMap() {
		if r.ConnectedPlayers() > 0 || now.Sub(r.LastActive()) < h.idleTTL {
			continue
		}
		slog.InfoContext(ctx, "Room exceeded idle TTL. Closing.", "room.id", id)
		if err := h.RemoveRoom(ctx, id); err != nil && !errors.Is(err, ErrRoomNotFound) {
			slog.ErrorContext(ctx, "failed to remove idle room", "room.id", id, "error", err)
		}
	}
}

func (h *Hub) snapshotRooms() []*room.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*room.Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		out = append(out, r)
	}
	return out
}

func (h *Hub) snapshotRoomMap() map[string]*room.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]*room.Room, len(h.rooms))
	for id, r := range h.rooms {
		out[id] = r
	}
	return out
}

func (h *Hub) closeAll(ctx context.Context) {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]*room.Room)
	h.mu.Unlock()

	for _, r := range rooms {
		r.Close(ctx)
	}
}
