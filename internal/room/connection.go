package room

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"ctchen222/Tic-Tac-Toe-Solo/internal/player"
	"ctchen222/Tic-Tac-Toe-Solo/pkg/proto"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AddPlayer attaches a player to the room and sends them the current state.
// A non-empty token is handed to the player in the assignment message.
func (r *Room) AddPlayer(ctx context.Context, p *player.Player, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Players = append(r.Players, p)
	r.lastActive = time.Now()

	assignment, err := json.Marshal(proto.PlayerAssignmentMessage{
		Type:     proto.TypeAssignment,
		RoomID:   r.ID,
		PlayerID: p.ID,
		Mark:     game.Player,
		Token:    token,
	})
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling assignment", "error", err)
		return
	}
	r.writeLocked(ctx, p, assignment)
	r.sendLocked(ctx, p, r.snapshotLocked())
}

// RemovePlayer detaches a player. The room itself stays open until the hub
// sweeps it.
func (r *Room) RemovePlayer(p *player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, other := range r.Players {
		if other == p {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	p.Status = player.StatusDisconnected
	p.LastSeen = time.Now()
}

// ConnectedPlayers returns how many players are attached.
func (r *Room) ConnectedPlayers() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.Players {
		if p.Status == player.StatusConnected {
			n++
		}
	}
	return n
}

func (r *Room) isConnected(p *player.Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return p.Status == player.StatusConnected
}

// Broadcast sends the current snapshot to all connected players in the room.
func (r *Room) Broadcast(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(ctx)
}

// Ping writes a websocket ping to every connected player.
func (r *Room) Ping(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.Players {
		if p.Status != player.StatusConnected || p.Conn == nil {
			continue
		}
		if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			slog.WarnContext(ctx, "Failed to send ping to player, assuming disconnect", "player.id", p.ID, "error", err)
			p.Status = player.StatusDisconnected
		}
	}
}

func (r *Room) broadcastLocked(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.Broadcast", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	data, err := json.Marshal(r.snapshotLocked())
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	for _, p := range r.Players {
		r.writeLocked(ctx, p, data)
	}
}

func (r *Room) sendLocked(ctx context.Context, p *player.Player, msg proto.ServerToClientMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return
	}
	r.writeLocked(ctx, p, data)
}

func (r *Room) writeLocked(ctx context.Context, p *player.Player, data []byte) {
	if p.Status != player.StatusConnected || p.Conn == nil {
		return
	}
	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
		p.Status = player.StatusDisconnected
	}
}

// ReadPump pumps messages from the player's connection into the room until
// the connection fails, then detaches the player.
func (r *Room) ReadPump(p *player.Player) {
	ctx, span := tracer.Start(context.Background(), "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	defer func() {
		p.Conn.Close()
		r.RemovePlayer(p)
		slog.InfoContext(ctx, "Player disconnected", "player.id", p.ID, "room.id", r.ID)
	}()

	for {
		_, msg, err := p.Conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", p.ID, "room.id", r.ID, "error", err)
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				span.RecordError(err)
				span.SetStatus(codes.Error, "Player connection error")
			}
			return
		}
		r.HandleMessage(ctx, p, msg)
	}
}
