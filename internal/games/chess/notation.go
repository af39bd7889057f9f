package chess

import (
	"regexp"
	"strings"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Move is a chess move payload. Only the raw notation is structural; the
// notation itself is interpreted against the board during validation.
type Move struct {
	Notation string
}

// Game implements engine.Move.
func (m Move) Game() engine.GameType { return engine.GameTypeChess }

// String implements engine.Move.
func (m Move) String() string { return m.Notation }

// parsedMove is the interpreted form of a notation string.
type parsedMove struct {
	// Coordinate moves name both squares explicitly (e2e4, e2-e4).
	Coordinate bool
	From       Square // valid when Coordinate
	To         Square
	Piece      Kind
	// Disambiguation hints for algebraic moves; -1 means absent.
	FileHint int
	RankHint int
	Capture  bool
	// Promotion parses but is not applied.
	Promotion Kind
}

var (
	coordinatePattern = regexp.MustCompile(`^([a-h][1-8])-?([a-h][1-8])$`)
	algebraicPattern  = regexp.MustCompile(`^([KQRBN])?([a-h])?([1-8])?(x)?([a-h][1-8])(=([QRBN]))?([+#])?$`)
	castlingPattern   = regexp.MustCompile(`^[Oo0]-[Oo0](-[Oo0])?[+#]?$`)
)

// parseNotation interprets coordinate or algebraic notation. Rule-level
// problems come back as a rejection, never an error.
func parseNotation(notation string) (parsedMove, *engine.Rejection) {
	trimmed := strings.TrimSpace(notation)
	if trimmed == "" {
		return parsedMove{}, rejection(errors.CodeChessInvalidNotation,
			"empty move notation", map[string]string{"notation": notation})
	}

	if castlingPattern.MatchString(trimmed) {
		return parsedMove{}, rejection(errors.CodeChessUnsupportedNotation,
			"castling is not supported", map[string]string{"notation": trimmed})
	}

	if match := coordinatePattern.FindStringSubmatch(trimmed); match != nil {
		from, _ := parseSquare(match[1])
		to, _ := parseSquare(match[2])
		return parsedMove{
			Coordinate: true,
			From:       from,
			To:         to,
			FileHint:   -1,
			RankHint:   -1,
		}, nil
	}

	if match := algebraicPattern.FindStringSubmatch(trimmed); match != nil {
		move := parsedMove{Piece: Pawn, FileHint: -1, RankHint: -1}
		if match[1] != "" {
			move.Piece = Kind(match[1])
		}
		if match[2] != "" {
			move.FileHint = int(match[2][0] - 'a')
		}
		if match[3] != "" {
			move.RankHint = int(match[3][0] - '1')
		}
		move.Capture = match[4] == "x"
		to, ok := parseSquare(match[5])
		if !ok {
			return parsedMove{}, rejection(errors.CodeChessOutOfBounds,
				"destination "+match[5]+" is off the board",
				map[string]string{"square": match[5]})
		}
		move.To = to
		if match[7] != "" {
			move.Promotion = Kind(match[7])
		}

		// A bare destination with no piece letter and no hints is a pawn
		// push; "e4" is valid. But a lone file or rank is not a move.
		return move, nil
	}

	return parsedMove{}, rejection(errors.CodeChessInvalidNotation,
		notation+" is not valid chess notation",
		map[string]string{"notation": notation})
}

func rejection(code errors.Code, message string, metadata map[string]string) *engine.Rejection {
	return &engine.Rejection{Code: code, Message: message, Metadata: metadata}
}
