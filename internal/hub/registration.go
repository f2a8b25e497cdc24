package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"ctchen222/Tic-Tac-Toe-Solo/internal/hub/types"
	"ctchen222/Tic-Tac-Toe-Solo/internal/room"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleRegistration attaches the player to the requested room, or to a new
// one when no room id was given, and starts reading from the connection.
func (h *Hub) handleRegistration(req *types.RegistrationRequest) {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.Start(ctx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.String("room.id", req.RoomID),
	))
	defer span.End()

	var (
		r   *room.Room
		err error
	)
	if req.RoomID != "" {
		r, err = h.Room(req.RoomID)
		if err != nil {
			slog.WarnContext(ctx, "Player asked for unknown room", "player.id", req.Player.ID, "room.id", req.RoomID)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Unknown room")
			req.Player.Conn.Close()
			reply(req, types.RegistrationResult{RoomID: req.RoomID, Err: err})
			return
		}
	}

	var token string
	if r == nil {
		r = h.CreateRoom(ctx, game.ParseStarter(req.Starter), bot.ParseDifficulty(req.Difficulty))
		if req.IssueToken != nil {
			token, err = req.IssueToken(r.ID)
			if err != nil {
				slog.ErrorContext(ctx, "failed to issue room token", "room.id", r.ID, "error", err)
				span.RecordError(err)
			}
		}
	}

	r.AddPlayer(ctx, req.Player, token)
	go r.ReadPump(req.Player)
	slog.InfoContext(ctx, "Player registered", "player.id", req.Player.ID, "room.id", r.ID)
	reply(req, types.RegistrationResult{RoomID: r.ID})
}

func reply(req *types.RegistrationRequest, res types.RegistrationResult) {
	if req.Done == nil {
		return
	}
	select {
	case req.Done <- res:
	default:
	}
}
