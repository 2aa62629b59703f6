package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	// WinnerDraw is stored in Winner when the board fills up without a line.
	WinnerDraw = "Draw"

	EmptyCell = ""

	DefaultBoardSize = 3
)

// Symbols lists the symbols in seat assignment order.
var Symbols = [2]string{PlayerX, PlayerO}

type Result int

const (
	ResultContinue Result = iota
	ResultWin
	ResultDraw
)

// Ended reports whether the move that produced the result finished the game.
func (that Result) Ended() bool {
	return that == ResultWin || that == ResultDraw
}

func (that Result) String() string {
	switch that {
	case ResultWin:
		return "win"
	case ResultDraw:
		return "draw"
	default:
		return "continue"
	}
}

// Game is the board of a single room. It is not safe for concurrent use; Room serializes access.
type Game struct {
	Board     [][]string
	Turn      string
	Winner    string
	MovesMade int
	Active    bool
}

func NewGame(size int) *Game {
	if size < 1 {
		size = DefaultBoardSize
	}

	game := &Game{}
	game.Board = make([][]string, size)
	for i := range game.Board {
		game.Board[i] = make([]string, size)
	}

	game.Reset(PlayerX)

	return game
}

func (that *Game) Size() int {
	return len(that.Board)
}

func (that *Game) IsLegalMove(symbol string, row, col int) error {
	if row < 0 || row >= that.Size() || col < 0 || col >= that.Size() {
		return apperror.IllegalMove(fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, row, col))
	}

	if !that.Active {
		return apperror.IllegalMove(apperror.ErrGameFinished)
	}

	if that.Board[row][col] != EmptyCell {
		return apperror.IllegalMove(apperror.ErrCellOccupied)
	}

	if symbol != that.Turn {
		return apperror.IllegalMove(apperror.ErrNotYourTurn)
	}

	return nil
}

// ApplyMove places symbol at (row, col) and settles the game if the move completes a line or fills the board.
func (that *Game) ApplyMove(symbol, moverName string, row, col int) (Result, error) {
	if err := that.IsLegalMove(symbol, row, col); err != nil {
		return ResultContinue, err
	}

	that.Board[row][col] = symbol
	that.MovesMade++

	switch {
	case that.completesLine(symbol, row, col):
		that.Winner = moverName
		that.Active = false
		return ResultWin, nil
	case that.MovesMade == that.Size()*that.Size():
		that.Winner = WinnerDraw
		that.Active = false
		return ResultDraw, nil
	default:
		that.Turn = OtherSymbol(that.Turn)
		return ResultContinue, nil
	}
}

// completesLine checks only the lines through (row, col).
func (that *Game) completesLine(symbol string, row, col int) bool {
	size := that.Size()

	line := func(cell func(i int) string) bool {
		for i := 0; i < size; i++ {
			if cell(i) != symbol {
				return false
			}
		}
		return true
	}

	if line(func(i int) string { return that.Board[row][i] }) {
		return true
	}

	if line(func(i int) string { return that.Board[i][col] }) {
		return true
	}

	if row == col && line(func(i int) string { return that.Board[i][i] }) {
		return true
	}

	return row+col == size-1 && line(func(i int) string { return that.Board[i][size-1-i] })
}

func (that *Game) Reset(firstMover string) {
	for _, row := range that.Board {
		for col := range row {
			row[col] = EmptyCell
		}
	}

	that.Turn = firstMover
	that.Winner = ""
	that.MovesMade = 0
	that.Active = true
}

// Serialize returns a snapshot that shares no memory with the game.
func (that *Game) Serialize() StateView {
	board := make([][]string, len(that.Board))
	for i, row := range that.Board {
		board[i] = append([]string(nil), row...)
	}

	view := StateView{
		Board:      board,
		Turn:       that.Turn,
		GameActive: that.Active,
		NameScore:  map[string]int{},
	}

	if that.Winner != "" {
		winner := that.Winner
		view.Winner = &winner
	}

	return view
}

func OtherSymbol(symbol string) string {
	if symbol == PlayerX {
		return PlayerO
	}
	return PlayerX
}
