package solitaire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/anweather/web-boardgame-service-sub000/internal/cards"
	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Action is a solitaire move kind.
type Action string

const (
	ActionDrawStock  Action = "draw_stock"
	ActionResetStock Action = "reset_stock"
	ActionMoveCard   Action = "move_card"
	ActionFlipCard   Action = "flip_card"
)

// LocationKind classifies a pile reference.
type LocationKind int

const (
	LocationNone LocationKind = iota
	LocationStock
	LocationWaste
	LocationTableau
	LocationFoundation
)

// Location addresses a pile: the stock, the waste, a tableau column, or a
// suit foundation.
type Location struct {
	Kind   LocationKind
	Column int        // tableau column, 0-based
	Suit   cards.Suit // foundation suit
}

// String returns the user-facing pile name ("tableau-3", "foundation-hearts").
func (l Location) String() string {
	switch l.Kind {
	case LocationStock:
		return "stock"
	case LocationWaste:
		return "waste"
	case LocationTableau:
		return "tableau-" + strconv.Itoa(l.Column+1)
	case LocationFoundation:
		return "foundation-" + string(l.Suit)
	}
	return ""
}

// parseLocation decodes a pile name. Tableau columns are 1-based on the
// wire ("tableau-1" through "tableau-7").
func parseLocation(text string) (Location, error) {
	name := strings.ToLower(strings.TrimSpace(text))
	switch {
	case name == "stock":
		return Location{Kind: LocationStock}, nil
	case name == "waste":
		return Location{Kind: LocationWaste}, nil
	case strings.HasPrefix(name, "tableau-"):
		column, err := strconv.Atoi(strings.TrimPrefix(name, "tableau-"))
		if err != nil || column < 1 || column > TableauColumns {
			return Location{}, errors.New(errors.CodeMovePayloadMalformed,
				fmt.Sprintf("tableau column in %q must be 1 through %d", text, TableauColumns))
		}
		return Location{Kind: LocationTableau, Column: column - 1}, nil
	case strings.HasPrefix(name, "foundation-"):
		suit := cards.Suit(strings.TrimPrefix(name, "foundation-"))
		switch suit {
		case cards.SuitHearts, cards.SuitDiamonds, cards.SuitClubs, cards.SuitSpades:
			return Location{Kind: LocationFoundation, Suit: suit}, nil
		}
		return Location{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("unknown foundation suit in %q", text))
	}
	return Location{}, errors.New(errors.CodeMovePayloadMalformed,
		fmt.Sprintf("unknown pile %q", text))
}

// Move is a solitaire move. Count zero on a tableau-to-tableau move asks
// the engine to resolve the largest legal run.
type Move struct {
	Action Action
	From   Location
	To     Location
	Count  int
}

// Game implements engine.Move.
func (m Move) Game() engine.GameType { return engine.GameTypeSolitaire }

// String implements engine.Move.
func (m Move) String() string {
	switch m.Action {
	case ActionDrawStock, ActionResetStock:
		return string(m.Action)
	case ActionFlipCard:
		return fmt.Sprintf("%s %s", m.Action, m.From)
	}
	if m.Count > 1 {
		return fmt.Sprintf("%s %s to %s x%d", m.Action, m.From, m.To, m.Count)
	}
	return fmt.Sprintf("%s %s to %s", m.Action, m.From, m.To)
}

// movePayload is the wire form of a solitaire move.
type movePayload struct {
	Action string `json:"action"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Count  int    `json:"cardCount,omitempty"`
}

// parseMove decodes {action, from, to, cardCount}. Pile references are
// checked per action; counts are resolved against state at validation time.
func parseMove(payload json.RawMessage) (Move, error) {
	var obj movePayload
	if err := json.Unmarshal(payload, &obj); err != nil {
		return Move{}, errors.Wrap(errors.CodeMovePayloadMalformed,
			"solitaire move must be an {action, from, to, cardCount} object", err)
	}
	if obj.Count < 0 {
		return Move{}, errors.New(errors.CodeMovePayloadMalformed,
			fmt.Sprintf("cardCount %d must not be negative", obj.Count))
	}

	move := Move{Action: Action(obj.Action), Count: obj.Count}
	switch move.Action {
	case ActionDrawStock, ActionResetStock:
		return move, nil

	case ActionFlipCard:
		from, err := parseLocation(obj.From)
		if err != nil {
			return Move{}, err
		}
		if from.Kind != LocationTableau {
			return Move{}, errors.New(errors.CodeMovePayloadMalformed,
				fmt.Sprintf("flip_card source %q must be a tableau column", obj.From))
		}
		move.From = from
		return move, nil

	case ActionMoveCard:
		from, err := parseLocation(obj.From)
		if err != nil {
			return Move{}, err
		}
		to, err := parseLocation(obj.To)
		if err != nil {
			return Move{}, err
		}
		if from.Kind != LocationWaste && from.Kind != LocationTableau && from.Kind != LocationFoundation {
			return Move{}, errors.New(errors.CodeMovePayloadMalformed,
				fmt.Sprintf("move_card source %q must be the waste, a tableau column, or a foundation", obj.From))
		}
		if to.Kind != LocationTableau && to.Kind != LocationFoundation {
			return Move{}, errors.New(errors.CodeMovePayloadMalformed,
				fmt.Sprintf("move_card destination %q must be a tableau column or a foundation", obj.To))
		}
		if from.Kind == LocationFoundation && to.Kind != LocationTableau {
			return Move{}, errors.New(errors.CodeMovePayloadMalformed,
				"cards leave a foundation only onto a tableau column")
		}
		if from == to {
			return Move{}, errors.New(errors.CodeMovePayloadMalformed,
				fmt.Sprintf("source and destination are both %q", obj.From))
		}
		move.From = from
		move.To = to
		return move, nil
	}

	return Move{}, errors.New(errors.CodeMovePayloadMalformed,
		fmt.Sprintf("unknown action %q", obj.Action))
}
