package room

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/events"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"ctchen222/Tic-Tac-Toe-Solo/pkg/proto"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Click applies a human move on idx. Clicks outside the player's turn, on an
// occupied cell or off the board are ignored; the second return value reports
// whether the click was accepted. The snapshot is returned either way.
func (r *Room) Click(ctx context.Context, idx int) (proto.ServerToClientMessage, bool) {
	ctx, span := tracer.Start(ctx, "room.Click", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int("move.position", idx),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.phase != PhasePlayerTurn {
		r.ignoreLocked(ctx, span, "not player turn", string(r.phase))
		return r.snapshotLocked(), false
	}

	if err := r.state.Move(game.Player, idx); err != nil {
		r.ignoreLocked(ctx, span, err.Error(), string(r.phase))
		return r.snapshotLocked(), false
	}
	span.SetAttributes(attribute.Bool("move.valid", true))
	r.lastActive = time.Now()

	r.afterMoveLocked(ctx, game.Player, idx)
	return r.snapshotLocked(), true
}

// Restart cancels any pending bot move and starts a new game with starter.
// An empty starter keeps the current one.
func (r *Room) Restart(ctx context.Context, starter game.Starter) proto.ServerToClientMessage {
	ctx, span := tracer.Start(ctx, "room.Restart", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.snapshotLocked()
	}
	if starter == "" {
		starter = r.state.Starter
	}

	generation := r.state.Generation + 1
	r.resetLocked(ctx, starter, generation)
	r.lastActive = time.Now()
	span.SetAttributes(
		attribute.String("game.starter", string(starter)),
		attribute.Int64("game.generation", int64(generation)),
	)

	slog.InfoContext(ctx, "Room restarted", "room.id", r.ID, "starter", starter, "generation", generation)
	r.publishLocked(ctx, events.TypeRoomRestarted, events.RoomRestartedPayload{
		RoomID:     r.ID,
		Starter:    string(starter),
		Generation: generation,
	})
	r.broadcastLocked(ctx)
	return r.snapshotLocked()
}

// SetStarter changes who opens and restarts the game, like picking a new
// starter in the selector does.
func (r *Room) SetStarter(ctx context.Context, starter game.Starter) proto.ServerToClientMessage {
	return r.Restart(ctx, starter)
}

// SetDifficulty stores the selected difficulty. The bot does not use it.
func (r *Room) SetDifficulty(ctx context.Context, difficulty bot.Difficulty) proto.ServerToClientMessage {
	ctx, span := tracer.Start(ctx, "room.SetDifficulty", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("bot.difficulty", string(difficulty)),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.snapshotLocked()
	}

	r.difficulty = difficulty
	r.lastActive = time.Now()
	r.broadcastLocked(ctx)
	return r.snapshotLocked()
}

func (r *Room) scheduleBotLocked(ctx context.Context, delay time.Duration) {
	generation := r.state.Generation
	spanCtx := trace.SpanContextFromContext(ctx)
	r.pending = r.scheduler.AfterFunc(delay, func() {
		botCtx := trace.ContextWithSpanContext(context.Background(), spanCtx)
		r.playBotMove(botCtx, generation)
	})
}

// playBotMove runs when the thinking delay expires. A callback captured for an
// earlier generation does nothing.
func (r *Room) playBotMove(ctx context.Context, generation uint64) {
	ctx, span := tracer.Start(ctx, "room.playBotMove", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int64("game.generation", int64(generation)),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.state.Generation != generation || r.phase != PhaseBotThinking {
		slog.DebugContext(ctx, "Discarding stale bot move", "room.id", r.ID, "generation", generation)
		span.SetAttributes(attribute.Bool("move.stale", true))
		return
	}
	r.pending = nil

	idx, ok := r.moveCalculator.CalculateNextMove(r.state.Board, r.difficulty)
	if !ok {
		// Unreachable while the board is not terminal; hand the turn back.
		slog.WarnContext(ctx, "Bot found no move on a live board", "room.id", r.ID)
		r.phase = PhasePlayerTurn
		r.broadcastLocked(ctx)
		return
	}

	if err := r.state.Move(game.Bot, idx); err != nil {
		slog.ErrorContext(ctx, "Bot produced an illegal move", "room.id", r.ID, "position", idx, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bot produced an illegal move")

		// Fall back to the first empty cell so the game keeps going.
		idx = game.EmptyCells(r.state.Board)[0]
		if err := r.state.Move(game.Bot, idx); err != nil {
			slog.ErrorContext(ctx, "Fallback bot move failed", "room.id", r.ID, "position", idx, "error", err)
			r.phase = PhasePlayerTurn
			r.broadcastLocked(ctx)
			return
		}
	}
	span.SetAttributes(attribute.Int("move.position", idx))

	r.afterMoveLocked(ctx, game.Bot, idx)
}

// afterMoveLocked moves the controller to its next phase after an accepted move.
func (r *Room) afterMoveLocked(ctx context.Context, side game.PlayerMark, idx int) {
	instruments().moves.Add(ctx, 1, metric.WithAttributes(attribute.String("side", string(side))))
	r.publishLocked(ctx, events.TypeMovePlayed, events.MovePlayedPayload{
		RoomID:     r.ID,
		Side:       string(side),
		Position:   idx,
		Generation: r.state.Generation,
	})

	switch {
	case r.state.Terminal:
		r.phase = PhaseTerminal
		outcome := r.state.Outcome
		instruments().gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome.Result))))
		slog.InfoContext(ctx, "Game finished", "room.id", r.ID, "outcome", outcome.Result, "line", outcome.Line)
		r.publishLocked(ctx, events.TypeGameFinished, events.GameFinishedPayload{
			RoomID:      r.ID,
			Outcome:     string(outcome.Result),
			WinningLine: outcome.Line,
			Generation:  r.state.Generation,
		})
	case r.state.CurrentTurn == game.Bot:
		r.phase = PhaseBotThinking
		r.scheduleBotLocked(ctx, r.thinkDelay)
	default:
		r.phase = PhasePlayerTurn
	}

	r.broadcastLocked(ctx)
}

func (r *Room) ignoreLocked(ctx context.Context, span trace.Span, reason, phase string) {
	span.SetAttributes(attribute.Bool("move.valid", false), attribute.String("move.ignored_reason", reason))
	instruments().clicksIgnored.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", phase)))
	slog.DebugContext(ctx, "Ignoring click", "room.id", r.ID, "reason", reason)
}
