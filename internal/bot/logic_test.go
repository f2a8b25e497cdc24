package bot

import (
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	X = game.Player
	O = game.Bot
	E = game.None
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		mark      game.PlayerMark
		wantIdx   int
		wantFound bool
	}{
		{
			name:    "No winning move - empty board",
			board:   game.Board{},
			mark:    X,
			wantIdx: -1, wantFound: false,
		},
		{
			name: "X can win - first row",
			board: game.Board{
				X, X, E,
				O, O, E,
				E, E, E,
			},
			mark:    X,
			wantIdx: 2, wantFound: true,
		},
		{
			name: "O can win - second column",
			board: game.Board{
				X, O, E,
				X, O, E,
				E, E, E,
			},
			mark:    O,
			wantIdx: 7, wantFound: true,
		},
		{
			name: "X can win - main diagonal",
			board: game.Board{
				X, E, E,
				E, X, E,
				E, E, E,
			},
			mark:    X,
			wantIdx: 8, wantFound: true,
		},
		{
			name: "O can win - anti-diagonal gap in the middle",
			board: game.Board{
				E, E, O,
				E, E, E,
				O, E, E,
			},
			mark:    O,
			wantIdx: 4, wantFound: true,
		},
		{
			name: "Lowest index wins when there are two",
			board: game.Board{
				O, O, E,
				E, E, E,
				O, E, E,
			},
			mark:    O,
			wantIdx: 2, wantFound: true,
		},
		{
			name: "Full board, no win possible",
			board: game.Board{
				X, O, X,
				O, X, O,
				O, X, O,
			},
			mark:    X,
			wantIdx: -1, wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := findWinningMove(tt.board, tt.mark)
			if found != tt.wantFound || idx != tt.wantIdx {
				t.Errorf("findWinningMove() got (%d, %v), want (%d, %v)", idx, found, tt.wantIdx, tt.wantFound)
			}
		})
	}
}

func TestChooseMovePriorities(t *testing.T) {
	tests := []struct {
		name  string
		board game.Board
		want  []int
	}{
		{
			name: "Win beats block",
			board: game.Board{
				X, X, E,
				O, O, E,
				E, E, E,
			},
			want: []int{5},
		},
		{
			name: "Block when no win exists",
			board: game.Board{
				X, X, E,
				E, O, E,
				E, E, E,
			},
			want: []int{2},
		},
		{
			name: "Center after a corner opening",
			board: game.Board{
				X, E, E,
				E, E, E,
				E, E, E,
			},
			want: []int{4},
		},
		{
			name: "Corner when center is taken",
			board: game.Board{
				E, E, E,
				E, X, E,
				E, E, E,
			},
			want: []int{0, 2, 6, 8},
		},
		{
			name: "Win on a column",
			board: game.Board{
				X, E, O,
				E, X, E,
				E, E, O,
			},
			want: []int{5},
		},
		{
			name: "Lowest blocking cell when the player has two threats",
			board: game.Board{
				X, E, O,
				E, O, E,
				X, E, X,
			},
			want: []int{3},
		},
		{
			name: "Random side when center and corners are gone",
			board: game.Board{
				X, O, X,
				E, O, E,
				O, X, O,
			},
			want: []int{3, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 20; seed++ {
				idx, ok := ChooseMove(tt.board, newRand(seed))
				require.True(t, ok)
				assert.Contains(t, tt.want, idx)
			}
		})
	}
}

func TestChooseMoveFullBoard(t *testing.T) {
	idx, ok := ChooseMove(game.Board{X, O, X, X, O, O, O, X, X}, newRand(1))
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestChooseMoveCornerIsRandomised(t *testing.T) {
	board := game.Board{E, E, E, E, X, E, E, E, E}
	seen := map[int]bool{}
	for seed := uint64(0); seed < 200; seed++ {
		idx, ok := ChooseMove(board, newRand(seed))
		require.True(t, ok)
		seen[idx] = true
	}
	assert.Len(t, seen, 4, "all four corners should eventually be chosen, saw %v", seen)
}

func TestChooseMoveWithoutRandomSource(t *testing.T) {
	tests := []struct {
		name    string
		board   game.Board
		allowed []int
	}{
		{"Corner step", game.Board{E, E, E, E, X, E, E, E, E}, []int{0, 2, 6, 8}},
		{"Random cell step", game.Board{X, O, X, E, O, E, O, X, O}, []int{3, 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				idx, ok := ChooseMove(tc.board, nil)
				require.True(t, ok)
				assert.Contains(t, tc.allowed, idx)
			})
		})
	}
}

func TestChooseMoveIsReproducibleWithSeed(t *testing.T) {
	board := game.Board{E, E, E, E, X, E, E, E, E}
	a := NewSeededMoveCalculator(42)
	b := NewSeededMoveCalculator(42)
	for range 10 {
		ia, _ := a.CalculateNextMove(board, DifficultyEasy)
		ib, _ := b.CalculateNextMove(board, DifficultyHard)
		assert.Equal(t, ia, ib)
	}
}

// TestChooseMoveProperties checks the heuristic against every non-terminal
// board reachable in a real game where X moves first or O moves first.
func TestChooseMoveProperties(t *testing.T) {
	rng := newRand(7)
	marks := []game.PlayerMark{E, X, O}
	total := 1
	for range game.BoardSize {
		total *= len(marks)
	}

	checked := 0
	for n := 0; n < total; n++ {
		var b game.Board
		v := n
		xs, os := 0, 0
		for i := range b {
			b[i] = marks[v%3]
			v /= 3
			switch b[i] {
			case X:
				xs++
			case O:
				os++
			}
		}
		if xs-os > 1 || os-xs > 1 {
			continue
		}
		if game.Evaluate(b).IsTerminal() {
			if game.IsBoardFull(b) {
				_, ok := ChooseMove(b, rng)
				assert.False(t, ok)
			}
			continue
		}
		checked++

		idx, ok := ChooseMove(b, rng)
		require.True(t, ok, "board %v has empty cells", b)
		require.Equal(t, E, b[idx], "board %v: chose occupied cell %d", b, idx)

		if win, canWin := findWinningMove(b, O); canWin {
			trial := b
			trial[idx] = O
			assert.Equal(t, game.BotWin, game.Evaluate(trial).Result, "board %v: missed win at %d", b, win)
			continue
		}
		if _, mustBlock := findWinningMove(b, X); mustBlock {
			trial := b
			trial[idx] = X
			assert.Equal(t, game.PlayerWin, game.Evaluate(trial).Result, "board %v: cell %d does not block", b, idx)
		}
	}
	assert.Positive(t, checked)
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyEasy, ParseDifficulty("easy"))
	assert.Equal(t, DifficultyHard, ParseDifficulty("hard"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("medium"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty(""))
}
