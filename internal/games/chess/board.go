// Package chess implements the chess rule engine.
//
// The engine validates notation and geometric reachability only: check,
// checkmate, castling legality, and pawn promotion are intentionally not
// modeled. The game ends when a king leaves the board.
package chess

import (
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
)

// Color is a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Kind is a piece kind, encoded by its English letter.
type Kind string

const (
	Pawn   Kind = "P"
	Knight Kind = "N"
	Bishop Kind = "B"
	Rook   Kind = "R"
	Queen  Kind = "Q"
	King   Kind = "K"
)

var kindNames = map[Kind]string{
	Pawn: "pawn", Knight: "knight", Bishop: "bishop",
	Rook: "rook", Queen: "queen", King: "king",
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Color Color `json:"color,omitempty"`
	Kind  Kind  `json:"kind,omitempty"`
}

// Empty reports whether the square holds no piece.
func (p Piece) Empty() bool { return p.Kind == "" }

// Code returns the compact identifier, color letter then kind ("wP", "bK").
func (p Piece) Code() string {
	if p.Empty() {
		return ""
	}
	color := "w"
	if p.Color == Black {
		color = "b"
	}
	return color + string(p.Kind)
}

// pieceFromCode decodes Code output. Empty string is an empty square.
func pieceFromCode(code string) (Piece, error) {
	if code == "" {
		return Piece{}, nil
	}
	if len(code) != 2 {
		return Piece{}, fmt.Errorf("piece code %q must be two characters", code)
	}
	var color Color
	switch code[0] {
	case 'w':
		color = White
	case 'b':
		color = Black
	default:
		return Piece{}, fmt.Errorf("unknown color letter %q", code[:1])
	}
	kind := Kind(code[1:])
	switch kind {
	case Pawn, Knight, Bishop, Rook, Queen, King:
		return Piece{Color: color, Kind: kind}, nil
	}
	return Piece{}, fmt.Errorf("unknown piece kind %q", code[1:])
}

// Square addresses a board cell. File 0 is the a-file; rank 0 is rank 1,
// White's back rank.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// InBounds reports whether the square lies on the board.
func (s Square) InBounds() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// String returns algebraic coordinates ("e4").
func (s Square) String() string {
	return string(rune('a'+s.File)) + string(rune('1'+s.Rank))
}

// parseSquare decodes algebraic coordinates.
func parseSquare(text string) (Square, bool) {
	if len(text) != 2 {
		return Square{}, false
	}
	file := int(text[0] - 'a')
	rank := int(text[1] - '1')
	square := Square{File: file, Rank: rank}
	return square, square.InBounds()
}

// CastlingRights tracks which castling moves remain notionally available.
// Castling itself is not executable; the flags exist so serialized states
// stay faithful to standard chess bookkeeping.
type CastlingRights struct {
	WhiteKingside  bool `json:"white_kingside"`
	WhiteQueenside bool `json:"white_queenside"`
	BlackKingside  bool `json:"black_kingside"`
	BlackQueenside bool `json:"black_queenside"`
}

// State is the chess board state. Board is indexed [rank][file].
type State struct {
	Board     [8][8]Piece
	Castling  CastlingRights
	EnPassant *Square
	HalfMove  int
	// FullMove starts at 1 and increments once per successful move.
	FullMove int
}

// Game implements engine.State.
func (s *State) Game() engine.GameType { return engine.GameTypeChess }

// Clone implements engine.State with a deep copy.
func (s *State) Clone() engine.State {
	clone := *s
	if s.EnPassant != nil {
		target := *s.EnPassant
		clone.EnPassant = &target
	}
	return &clone
}

// At returns the piece on the square.
func (s *State) At(square Square) Piece {
	return s.Board[square.Rank][square.File]
}

func (s *State) set(square Square, piece Piece) {
	s.Board[square.Rank][square.File] = piece
}

// newInitialState sets up the standard starting position.
func newInitialState() *State {
	state := &State{
		Castling: CastlingRights{
			WhiteKingside: true, WhiteQueenside: true,
			BlackKingside: true, BlackQueenside: true,
		},
		FullMove: 1,
	}

	back := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		state.Board[0][file] = Piece{Color: White, Kind: back[file]}
		state.Board[1][file] = Piece{Color: White, Kind: Pawn}
		state.Board[6][file] = Piece{Color: Black, Kind: Pawn}
		state.Board[7][file] = Piece{Color: Black, Kind: back[file]}
	}
	return state
}

// findKing returns the square holding the colored king, if present.
func (s *State) findKing(color Color) (Square, bool) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := s.Board[rank][file]
			if piece.Kind == King && piece.Color == color {
				return Square{File: file, Rank: rank}, true
			}
		}
	}
	return Square{}, false
}
