package bot

import (
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"math/rand/v2"
	"sync"
)

// Difficulty is accepted from clients and echoed back. The heuristic ignores it.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalises user input, defaulting to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// BotMoveCalculator implements the room.MoveCalculator interface.
// It owns the random source used for tie-breaking so tests can seed it.
type BotMoveCalculator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBotMoveCalculator creates a calculator backed by rng. A nil rng is
// replaced with a randomly seeded one.
func NewBotMoveCalculator(rng *rand.Rand) *BotMoveCalculator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &BotMoveCalculator{rng: rng}
}

// NewSeededMoveCalculator creates a calculator with a reproducible sequence.
func NewSeededMoveCalculator(seed uint64) *BotMoveCalculator {
	return NewBotMoveCalculator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// CalculateNextMove picks the bot's next cell. The difficulty is deliberately
// not consulted.
func (c *BotMoveCalculator) CalculateNextMove(board game.Board, _ Difficulty) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChooseMove(board, c.rng)
}

// ChooseMove applies the fixed priority list: win, block, center, random
// corner, random cell. It reports false only when the board is full. A nil
// rng uses the package-level random source.
func ChooseMove(board game.Board, rng *rand.Rand) (int, bool) {
	empties := game.EmptyCells(board)
	if len(empties) == 0 {
		return -1, false
	}

	// 1. Win: take a cell that completes a bot line
	if idx, ok := findWinningMove(board, game.Bot); ok {
		return idx, true
	}

	// 2. Block: occupy the cell that would complete a player line
	if idx, ok := findWinningMove(board, game.Player); ok {
		return idx, true
	}

	// 3. Center
	if board[game.Center] == game.None {
		return game.Center, true
	}

	// 4. Corners: take an available corner randomly
	availableCorners := make([]int, 0, len(game.Corners))
	for _, corner := range game.Corners {
		if board[corner] == game.None {
			availableCorners = append(availableCorners, corner)
		}
	}
	if len(availableCorners) > 0 {
		return availableCorners[intN(rng, len(availableCorners))], true
	}

	// 5. Anything left
	return empties[intN(rng, len(empties))], true
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

// findWinningMove simulates mark on every empty cell in ascending order and
// returns the first one that wins the game for mark.
func findWinningMove(board game.Board, mark game.PlayerMark) (int, bool) {
	for _, idx := range game.EmptyCells(board) {
		trial := board
		trial[idx] = mark
		if outcome := game.Evaluate(trial); outcome.Winner == mark {
			return idx, true
		}
	}
	return -1, false
}
