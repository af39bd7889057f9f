package checkers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Move is a checkers move: source, destination, and the declared capture
// squares in path order. Shorthand capture strings ("a3xc5") set Infer so
// validation derives the captures from the diagonal walk instead of
// matching a declaration.
type Move struct {
	From     Square
	To       Square
	Captures []Square
	Infer    bool
}

// Game implements engine.Move.
func (m Move) Game() engine.GameType { return engine.GameTypeCheckers }

// String implements engine.Move.
func (m Move) String() string {
	if len(m.Captures) > 0 || m.Infer {
		return m.From.String() + "x" + m.To.String()
	}
	return m.From.String() + "-" + m.To.String()
}

// movePayload is the object form of a checkers move.
type movePayload struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Captures []string `json:"captures"`
}

// ParseMove accepts an object {from, to, captures} or shorthand strings:
// "a3-b4", "a3xc5", "a3 to b4".
func parseMove(payload json.RawMessage) (Move, error) {
	var shorthand string
	if err := json.Unmarshal(payload, &shorthand); err == nil {
		return parseShorthand(shorthand)
	}

	var obj movePayload
	if err := json.Unmarshal(payload, &obj); err != nil {
		return Move{}, errors.Wrap(errors.CodeMovePayloadMalformed,
			"checkers move must be a {from, to, captures} object or shorthand string", err)
	}

	from, ok := parseSquare(obj.From)
	if !ok {
		return Move{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("invalid source square %q", obj.From))
	}
	to, ok := parseSquare(obj.To)
	if !ok {
		return Move{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("invalid destination square %q", obj.To))
	}

	captures := make([]Square, 0, len(obj.Captures))
	for _, text := range obj.Captures {
		square, ok := parseSquare(text)
		if !ok {
			return Move{}, errors.New(errors.CodeMovePayloadMalformed,
				fmt.Sprintf("invalid capture square %q", text))
		}
		captures = append(captures, square)
	}
	return Move{From: from, To: to, Captures: captures}, nil
}

func parseShorthand(text string) (Move, error) {
	trimmed := strings.ToLower(strings.TrimSpace(text))

	var fromText, toText string
	var infer bool
	switch {
	case strings.Contains(trimmed, " to "):
		parts := strings.SplitN(trimmed, " to ", 2)
		fromText, toText = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	case strings.Contains(trimmed, "x"):
		parts := strings.SplitN(trimmed, "x", 2)
		fromText, toText = parts[0], parts[1]
		infer = true
	case strings.Contains(trimmed, "-"):
		parts := strings.SplitN(trimmed, "-", 2)
		fromText, toText = parts[0], parts[1]
	default:
		return Move{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("shorthand %q must look like a3-b4, a3xc5, or a3 to b4", text))
	}

	from, ok := parseSquare(fromText)
	if !ok {
		return Move{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("invalid source square %q", fromText))
	}
	to, ok := parseSquare(toText)
	if !ok {
		return Move{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("invalid destination square %q", toText))
	}
	return Move{From: from, To: to, Infer: infer}, nil
}
