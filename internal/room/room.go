package room

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/events"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"ctchen222/Tic-Tac-Toe-Solo/internal/player"
	"ctchen222/Tic-Tac-Toe-Solo/pkg/proto"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
)

const (
	DefaultThinkDelay   = 600 * time.Millisecond
	DefaultOpeningDelay = 500 * time.Millisecond
)

var tracer = otel.Tracer("room")

// Phase is the turn controller state.
type Phase string

const (
	PhasePlayerTurn  Phase = "player_turn"
	PhaseBotThinking Phase = "bot_thinking"
	PhaseTerminal    Phase = "terminal"
)

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(board game.Board, difficulty bot.Difficulty) (int, bool)
}

// Timer is a pending delayed action.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options configure a room. Zero values fall back to the defaults, except
// OpeningDelay, where zero means the bot opens after ThinkDelay alone.
type Options struct {
	Starter      game.Starter
	Difficulty   bot.Difficulty
	ThinkDelay   time.Duration
	OpeningDelay time.Duration
	Scheduler    Scheduler
	Publisher    events.Publisher
}

// Room is one human playing against the bot. It owns the game state and is
// the only place the state is mutated.
type Room struct {
	ID             string
	Players        []*player.Player
	mu             sync.Mutex
	state          *game.GameState
	phase          Phase
	difficulty     bot.Difficulty
	pending        Timer
	moveCalculator MoveCalculator
	scheduler      Scheduler
	publisher      events.Publisher
	thinkDelay     time.Duration
	openingDelay   time.Duration
	lastActive     time.Time
	closed         bool
}

// NewRoom creates a room and starts its first game. When the bot opens, its
// first move is already scheduled on return.
func NewRoom(ctx context.Context, id string, calculator MoveCalculator, opts Options) *Room {
	if opts.ThinkDelay <= 0 {
		opts.ThinkDelay = DefaultThinkDelay
	}
	if opts.OpeningDelay < 0 {
		opts.OpeningDelay = 0
	}
	if opts.Scheduler == nil {
		opts.Scheduler = clockScheduler{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NewNoopPublisher()
	}
	if opts.Starter == "" {
		opts.Starter = game.StarterPlayer
	}
	if opts.Difficulty == "" {
		opts.Difficulty = bot.DifficultyMedium
	}

	r := &Room{
		ID:             id,
		Players:        make([]*player.Player, 0, 1),
		difficulty:     opts.Difficulty,
		moveCalculator: calculator,
		scheduler:      opts.Scheduler,
		publisher:      opts.Publisher,
		thinkDelay:     opts.ThinkDelay,
		openingDelay:   opts.OpeningDelay,
		lastActive:     time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked(ctx, opts.Starter, 1)
	r.publishLocked(ctx, events.TypeRoomCreated, events.RoomCreatedPayload{
		RoomID:     r.ID,
		Starter:    string(opts.Starter),
		Difficulty: string(opts.Difficulty),
	})
	instruments().activeRooms.Add(ctx, 1)
	return r
}

// Snapshot returns the current state as a wire message.
func (r *Room) Snapshot() proto.ServerToClientMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Phase returns the current controller state.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// State returns a copy of the game state.
func (r *Room) State() game.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// LastActive reports when the room last accepted input.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// Closed reports whether Close has been called.
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close cancels any pending bot move and disconnects all players.
func (r *Room) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.cancelPendingLocked()
	r.closed = true
	for _, p := range r.Players {
		if p.Conn != nil {
			p.Conn.Close()
		}
		p.Status = player.StatusDisconnected
	}
	r.publishLocked(ctx, events.TypeRoomClosed, events.RoomClosedPayload{RoomID: r.ID})
	instruments().activeRooms.Add(ctx, -1)
	slog.InfoContext(ctx, "Room closed", "room.id", r.ID)
}

// resetLocked replaces the game wholesale. Any scheduled bot move belongs to
// the previous generation and is cancelled here.
func (r *Room) resetLocked(ctx context.Context, starter game.Starter, generation uint64) {
	r.cancelPendingLocked()
	r.state = game.NewGameState(starter, generation)
	if starter == game.StarterBot {
		r.phase = PhaseBotThinking
		r.scheduleBotLocked(ctx, r.openingDelay+r.thinkDelay)
		return
	}
	r.phase = PhasePlayerTurn
}

func (r *Room) cancelPendingLocked() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

func (r *Room) publishLocked(ctx context.Context, eventType string, payload any) {
	if err := r.publisher.Publish(ctx, eventType, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish room event", "room.id", r.ID, "event.type", eventType, "error", err)
	}
}

func (r *Room) snapshotLocked() proto.ServerToClientMessage {
	s := r.state.Clone()
	msg := proto.ServerToClientMessage{
		Type:        proto.TypeUpdate,
		RoomID:      r.ID,
		Board:       s.Board,
		Phase:       string(r.phase),
		Outcome:     s.Outcome.Result,
		Winner:      s.Outcome.Winner,
		WinningLine: s.Outcome.Line,
		Status:      statusMessage(r.phase, s.Outcome.Result),
		Starter:     s.Starter,
		Difficulty:  string(r.difficulty),
		Generation:  s.Generation,
	}
	if !s.Terminal {
		msg.Next = s.CurrentTurn
	}
	return msg
}

func statusMessage(phase Phase, result game.Result) string {
	switch phase {
	case PhasePlayerTurn:
		return "Your turn, you play X"
	case PhaseBotThinking:
		return "Bot is thinking..."
	}
	switch result {
	case game.PlayerWin:
		return "You win!"
	case game.BotWin:
		return "Bot wins!"
	default:
		return "Draw."
	}
}
