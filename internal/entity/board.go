package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
)

const BoardSize = 3

// Position addresses a cell by row and column, both zero based.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) IsValid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Position) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// WinLines lists every row, column and diagonal of the board.
var WinLines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board struct {
	cells [BoardSize][BoardSize]Cell
}

func NewBoard() *Board {
	return &Board{}
}

// PlaceToken puts marker on pos. On error the board is left untouched.
func (that *Board) PlaceToken(pos Position, marker Marker) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidPosition, pos)
	}

	if marker == Empty {
		return apperror.ErrInvalidMarker
	}

	cell := &that.cells[pos.Row][pos.Col]
	if !cell.IsEmpty() {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, pos)
	}

	cell.SetValue(marker)

	return nil
}

func (that *Board) At(pos Position) (Marker, error) {
	if !pos.IsValid() {
		return Empty, fmt.Errorf("%w: %s", apperror.ErrInvalidPosition, pos)
	}

	return that.cells[pos.Row][pos.Col].Value(), nil
}

func (that *Board) CheckWin() bool {
	return that.Winner() != Empty
}

// Winner returns the marker owning a completed line, or Empty if there is none.
func (that *Board) Winner() Marker {
	for _, line := range WinLines {
		a := that.cells[line[0].Row][line[0].Col].Value()
		b := that.cells[line[1].Row][line[1].Col].Value()
		c := that.cells[line[2].Row][line[2].Col].Value()

		// the reference cell must be taken, otherwise three empty cells would count as a line
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func (that *Board) IsFull() bool {
	return that.Occupied() == BoardSize*BoardSize
}

func (that *Board) Occupied() int {
	count := 0
	for row := range that.cells {
		for col := range that.cells[row] {
			if !that.cells[row][col].IsEmpty() {
				count++
			}
		}
	}

	return count
}

func (that *Board) Reset() {
	for row := range that.cells {
		for col := range that.cells[row] {
			that.cells[row][col].SetValue(Empty)
		}
	}
}

// Markers returns a copy of the board contents.
func (that *Board) Markers() [BoardSize][BoardSize]Marker {
	var markers [BoardSize][BoardSize]Marker
	for row := range that.cells {
		for col := range that.cells[row] {
			markers[row][col] = that.cells[row][col].Value()
		}
	}

	return markers
}

func (that *Board) String() string {
	rows := make([]string, 0, BoardSize)
	for row := range that.cells {
		values := make([]string, 0, BoardSize)
		for col := range that.cells[row] {
			value := string(that.cells[row][col].Value())
			if value == "" {
				value = " "
			}
			values = append(values, value)
		}
		rows = append(rows, strings.Join(values, "|"))
	}

	return strings.Join(rows, "\n")
}
