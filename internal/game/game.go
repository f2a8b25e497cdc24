package game

import "errors"

// PlayerMark represents the mark in a cell: the human (X), the bot (O) or nothing.
type PlayerMark string

// Result describes how a game stands after evaluation.
type Result string

const (
	// Player marks
	None   PlayerMark = ""
	Player PlayerMark = "X"
	Bot    PlayerMark = "O"

	// Game results
	InProgress Result = "in_progress"
	PlayerWin  Result = "player_win"
	BotWin     Result = "bot_win"
	Draw       Result = "draw"

	// Board boundaries
	BoardSize = 9
	Center    = 4
)

var (
	ErrGameOver     = errors.New("game already finished")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrNotYourTurn  = errors.New("not this side's turn")
)

// Lines lists every winning combination in the order they are scanned.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Corners are the four corner cells of the board.
var Corners = [4]int{0, 2, 6, 8}

// Board is a 3x3 board stored row-major.
type Board [BoardSize]PlayerMark

// Outcome is the result of evaluating a board.
type Outcome struct {
	Result Result
	Winner PlayerMark
	Line   []int
}

// Opponent returns the other side.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case Player:
		return Bot
	case Bot:
		return Player
	default:
		return None
	}
}

// Evaluate scans the lines in order and reports the first complete one, a draw
// when the board is full, or InProgress otherwise.
func Evaluate(b Board) Outcome {
	for _, line := range Lines {
		first := b[line[0]]
		if first != None && first == b[line[1]] && first == b[line[2]] {
			return Outcome{
				Result: resultFor(first),
				Winner: first,
				Line:   []int{line[0], line[1], line[2]},
			}
		}
	}

	if IsBoardFull(b) {
		return Outcome{Result: Draw}
	}

	return Outcome{Result: InProgress}
}

// IsTerminal reports whether the outcome ends the game.
func (o Outcome) IsTerminal() bool {
	return o.Result != InProgress
}

// IsBoardFull checks if every cell is occupied.
func IsBoardFull(b Board) bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// EmptyCells returns the indices of all empty cells in ascending order.
func EmptyCells(b Board) []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// ValidCell reports whether idx addresses a cell on the board.
func ValidCell(idx int) bool {
	return idx >= 0 && idx < BoardSize
}

func resultFor(mark PlayerMark) Result {
	if mark == Player {
		return PlayerWin
	}
	return BotWin
}
