// Package solitaire implements the Klondike solitaire rule engine.
//
// Seven tableau columns build King down to Ace in alternating colors; four
// foundations build Ace up to King in suit. The engine resolves how many
// cards to move between tableau columns when the player does not say,
// always preferring the longest legal run.
package solitaire

import (
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/cards"
	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/solo"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/random"
)

const (
	// TableauColumns is the number of working columns.
	TableauColumns = 7
	// DefaultDrawCount is the stock draw size when settings do not say.
	DefaultDrawCount = 3
	// FoundationComplete is the card count of a finished foundation.
	FoundationComplete = 13
)

// Score ledger reasons.
const (
	ScoreFoundation     = "foundation"
	ScoreFlip           = "flip"
	ScoreStockReset     = "stock_reset"
	ScoreFoundationBack = "foundation_reversal"
	ScoreCompletion     = "completion_bonus"
)

// Score deltas per event.
const (
	foundationPoints     = 10
	flipPoints           = 5
	stockResetPenalty    = -100
	foundationBackPoints = -15
)

// TableauCard is a card in a tableau column with its facing.
type TableauCard struct {
	Card   cards.Card
	FaceUp bool
}

// MoveRecord is one entry in the move log.
type MoveRecord struct {
	Seq        int    `json:"seq"`
	Action     Action `json:"action"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Count      int    `json:"count,omitempty"`
	ScoreDelta int    `json:"score_delta,omitempty"`
}

// State is the Klondike board state. Slices index from the top of each
// column; the last element is the exposed (most recently placed) card.
// Stock and waste are ordered with the last element on top.
type State struct {
	Tableau     [TableauColumns][]TableauCard
	Foundations map[cards.Suit][]cards.Card
	Stock       []cards.Card
	Waste       []cards.Card
	Ledger      solo.Ledger
	MoveLog     []MoveRecord
	Moves       int
	DrawCount   int
	Seed        int64
	BonusGiven  bool
}

// Game implements engine.State.
func (s *State) Game() engine.GameType { return engine.GameTypeSolitaire }

// Clone implements engine.State with a deep copy.
func (s *State) Clone() engine.State {
	clone := &State{
		Moves:      s.Moves,
		DrawCount:  s.DrawCount,
		Seed:       s.Seed,
		BonusGiven: s.BonusGiven,
		Ledger:     s.Ledger.Clone(),
	}
	for i, column := range s.Tableau {
		clone.Tableau[i] = append([]TableauCard(nil), column...)
	}
	clone.Foundations = make(map[cards.Suit][]cards.Card, len(s.Foundations))
	for suit, pile := range s.Foundations {
		clone.Foundations[suit] = append([]cards.Card(nil), pile...)
	}
	clone.Stock = append([]cards.Card(nil), s.Stock...)
	clone.Waste = append([]cards.Card(nil), s.Waste...)
	clone.MoveLog = append([]MoveRecord(nil), s.MoveLog...)
	return clone
}

// Score returns the running score.
func (s *State) Score() int { return s.Ledger.Total() }

// newGame shuffles and deals: column i receives i+1 cards with only the
// last face up, leaving 24 cards in the stock.
func newGame(settings engine.Settings) (*State, error) {
	drawCount := settings.DrawCount
	if drawCount == 0 {
		drawCount = DefaultDrawCount
	}
	if drawCount != 1 && drawCount != 3 {
		return nil, errors.New(errors.CodeDeckConfigInvalid,
			fmt.Sprintf("draw count %d must be 1 or 3", drawCount))
	}

	var seed int64
	if settings.Seed != nil {
		seed = *settings.Seed
	} else {
		var err error
		seed, err = random.NewSeed()
		if err != nil {
			return nil, err
		}
	}

	deck, err := cards.NewStandardDeck(cards.DeckConfig{})
	if err != nil {
		return nil, err
	}
	deck.Shuffle(seed)

	state := &State{
		Foundations: map[cards.Suit][]cards.Card{
			cards.SuitHearts:   nil,
			cards.SuitDiamonds: nil,
			cards.SuitClubs:    nil,
			cards.SuitSpades:   nil,
		},
		DrawCount: drawCount,
		Seed:      seed,
	}

	for col := 0; col < TableauColumns; col++ {
		dealt, err := deck.Draw(col + 1)
		if err != nil {
			return nil, err
		}
		column := make([]TableauCard, len(dealt))
		for i, card := range dealt {
			column[i] = TableauCard{Card: card, FaceUp: i == len(dealt)-1}
		}
		state.Tableau[col] = column
	}

	stock, err := deck.Draw(deck.Remaining())
	if err != nil {
		return nil, err
	}
	state.Stock = stock
	return state, nil
}

// maxMovableRun scans a column from its exposed card backward and returns
// the length of the longest movable run: consecutive face-up cards, each
// one rank above and the opposite color of the card after it.
func maxMovableRun(column []TableauCard) int {
	if len(column) == 0 {
		return 0
	}
	bottom := column[len(column)-1]
	if !bottom.FaceUp {
		return 0
	}

	run := 1
	for i := len(column) - 2; i >= 0; i-- {
		above := column[i]
		below := column[i+1]
		if !above.FaceUp {
			break
		}
		if !cards.CanStack(above.Card, below.Card, cards.TableauRule) {
			break
		}
		run++
	}
	return run
}

// foundationsComplete reports whether all four piles hold thirteen cards.
func (s *State) foundationsComplete() bool {
	for _, suit := range cards.Suits {
		if len(s.Foundations[suit]) != FoundationComplete {
			return false
		}
	}
	return true
}

// record appends a move-log entry for an accepted move.
func (s *State) record(action Action, from, to string, count, delta int) {
	s.Moves++
	s.MoveLog = append(s.MoveLog, MoveRecord{
		Seq:        s.Moves,
		Action:     action,
		From:       from,
		To:         to,
		Count:      count,
		ScoreDelta: delta,
	})
}
