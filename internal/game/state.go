package game

// Starter selects who opens a game.
type Starter string

const (
	StarterPlayer Starter = "player"
	StarterBot    Starter = "bot"
)

// ParseStarter maps user input onto a Starter, defaulting to the player.
func ParseStarter(s string) Starter {
	if Starter(s) == StarterBot {
		return StarterBot
	}
	return StarterPlayer
}

// GameState is the full state of one game. It is owned by a single controller
// and replaced wholesale on restart.
type GameState struct {
	Board       Board
	CurrentTurn PlayerMark
	Terminal    bool
	Outcome     Outcome
	Starter     Starter
	Generation  uint64
}

// NewGameState creates a fresh game for the given starter and generation.
func NewGameState(starter Starter, generation uint64) *GameState {
	turn := Player
	if starter == StarterBot {
		turn = Bot
	}
	return &GameState{
		CurrentTurn: turn,
		Outcome:     Outcome{Result: InProgress},
		Starter:     starter,
		Generation:  generation,
	}
}

// Move places mark at idx. It enforces turn order and never overwrites a cell.
// On success the turn flips unless the move ended the game.
func (s *GameState) Move(mark PlayerMark, idx int) error {
	if s.Terminal {
		return ErrGameOver
	}
	if !ValidCell(idx) {
		return ErrInvalidCell
	}
	if s.CurrentTurn != mark {
		return ErrNotYourTurn
	}
	if s.Board[idx] != None {
		return ErrCellOccupied
	}

	s.Board[idx] = mark

	s.Outcome = Evaluate(s.Board)
	if s.Outcome.IsTerminal() {
		s.Terminal = true
		return nil
	}

	s.CurrentTurn = mark.Opponent()
	return nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *GameState) Clone() GameState {
	cp := *s
	if s.Outcome.Line != nil {
		cp.Outcome.Line = append([]int(nil), s.Outcome.Line...)
	}
	return cp
}
