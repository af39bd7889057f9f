// Package checkers implements the checkers (draughts) rule engine.
//
// Pieces live on dark squares only; black sits on rows 0-2 and moves first.
// Multi-square moves walk the straight diagonal between source and
// destination, so declared captures are checked against the pieces actually
// crossed.
package checkers

import (
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
)

// Color is a checkers side.
type Color string

const (
	BlackSide Color = "black"
	RedSide   Color = "red"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == BlackSide {
		return RedSide
	}
	return BlackSide
}

// forward is the row direction a man of this color advances in.
func (c Color) forward() int {
	if c == BlackSide {
		return 1
	}
	return -1
}

// crowningRow is the farthest row for this color, where a man becomes king.
func (c Color) crowningRow() int {
	if c == BlackSide {
		return 7
	}
	return 0
}

// Piece is a checkers piece. The zero value is an empty square.
type Piece struct {
	Color Color `json:"color,omitempty"`
	King  bool  `json:"king,omitempty"`
}

// Empty reports whether the square holds no piece.
func (p Piece) Empty() bool { return p.Color == "" }

// Code returns the compact identifier: "b"/"r" for men, "B"/"R" for kings.
func (p Piece) Code() string {
	if p.Empty() {
		return ""
	}
	code := "b"
	if p.Color == RedSide {
		code = "r"
	}
	if p.King {
		return string(code[0] - 'a' + 'A')
	}
	return code
}

func pieceFromCode(code string) (Piece, error) {
	switch code {
	case "":
		return Piece{}, nil
	case "b":
		return Piece{Color: BlackSide}, nil
	case "B":
		return Piece{Color: BlackSide, King: true}, nil
	case "r":
		return Piece{Color: RedSide}, nil
	case "R":
		return Piece{Color: RedSide, King: true}, nil
	}
	return Piece{}, fmt.Errorf("unknown piece code %q", code)
}

// Square addresses a board cell. Col 0 is the a-file; row 0 is rank 1,
// black's home rank.
type Square struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// InBounds reports whether the square lies on the board.
func (s Square) InBounds() bool {
	return s.Col >= 0 && s.Col < 8 && s.Row >= 0 && s.Row < 8
}

// Dark reports whether this is a playable dark square. a1 is dark.
func (s Square) Dark() bool {
	return (s.Col+s.Row)%2 == 0
}

// String returns algebraic coordinates ("a3").
func (s Square) String() string {
	return string(rune('a'+s.Col)) + string(rune('1'+s.Row))
}

func parseSquare(text string) (Square, bool) {
	if len(text) != 2 {
		return Square{}, false
	}
	square := Square{Col: int(text[0] - 'a'), Row: int(text[1] - '1')}
	return square, square.InBounds()
}

// State is the checkers board state. Board is indexed [row][col].
type State struct {
	Board [8][8]Piece
	// Current is the side to move.
	Current   Color
	MoveCount int
	// CapturedBy tallies pieces each side has taken.
	CapturedBy map[Color]int
}

// Game implements engine.State.
func (s *State) Game() engine.GameType { return engine.GameTypeCheckers }

// Clone implements engine.State with a deep copy.
func (s *State) Clone() engine.State {
	clone := *s
	clone.CapturedBy = map[Color]int{
		BlackSide: s.CapturedBy[BlackSide],
		RedSide:   s.CapturedBy[RedSide],
	}
	return &clone
}

// At returns the piece on the square.
func (s *State) At(square Square) Piece {
	return s.Board[square.Row][square.Col]
}

func (s *State) set(square Square, piece Piece) {
	s.Board[square.Row][square.Col] = piece
}

// newInitialState places twelve men per side on dark squares: black on rows
// 0-2, red on rows 5-7.
func newInitialState() *State {
	state := &State{
		Current:    BlackSide,
		CapturedBy: map[Color]int{BlackSide: 0, RedSide: 0},
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			square := Square{Col: col, Row: row}
			if !square.Dark() {
				continue
			}
			switch {
			case row <= 2:
				state.set(square, Piece{Color: BlackSide})
			case row >= 5:
				state.set(square, Piece{Color: RedSide})
			}
		}
	}
	return state
}

// count returns the number of pieces a side has on the board.
func (s *State) count(color Color) int {
	total := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if s.Board[row][col].Color == color {
				total++
			}
		}
	}
	return total
}

// pieceDirections lists the diagonal row directions the piece may travel.
func pieceDirections(piece Piece) []int {
	if piece.King {
		return []int{1, -1}
	}
	return []int{piece.Color.forward()}
}

// hasLegalMove reports whether the side has any move the validator would
// accept. Each diagonal is walked the same way the move check walks it: the
// first empty square along the ray is a legal landing, opponent pieces are
// crossed as captures, and an own piece ends the ray.
func (s *State) hasLegalMove(color Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := Square{Col: col, Row: row}
			piece := s.At(from)
			if piece.Empty() || piece.Color != color {
				continue
			}
			for _, dRow := range pieceDirections(piece) {
				for _, dCol := range []int{-1, 1} {
					landing := Square{Col: col + dCol, Row: row + dRow}
					for landing.InBounds() {
						between := s.At(landing)
						if between.Empty() {
							return true
						}
						if between.Color == color {
							break
						}
						landing = Square{Col: landing.Col + dCol, Row: landing.Row + dRow}
					}
				}
			}
		}
	}
	return false
}
