// Package solo provides turn-collapsing and scoring helpers shared by
// single-player rule engines.
package solo

import (
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// NextPlayer collapses turn order for single-player games: the sole player
// is always next. Errors when the roster does not hold exactly one player.
func NextPlayer(players []engine.Player) (string, error) {
	if len(players) != 1 {
		return "", errors.New(errors.CodePlayerCountInvalid,
			fmt.Sprintf("single-player game has %d players", len(players)))
	}
	return players[0].UserID, nil
}

// Winner returns the sole player's id when the game is complete.
func Winner(players []engine.Player, complete bool) (string, bool) {
	if !complete || len(players) != 1 {
		return "", false
	}
	return players[0].UserID, true
}

// ScoreEvent is one entry in a game's scoring ledger.
type ScoreEvent struct {
	Seq    int    `json:"seq"`
	Reason string `json:"reason"`
	Delta  int    `json:"delta"`
}

// Ledger accumulates score events. The zero value is ready to use.
type Ledger struct {
	Events []ScoreEvent `json:"events"`
}

// Add appends an event with the next sequence number and returns it.
func (l *Ledger) Add(reason string, delta int) ScoreEvent {
	event := ScoreEvent{Seq: len(l.Events) + 1, Reason: reason, Delta: delta}
	l.Events = append(l.Events, event)
	return event
}

// Total sums all event deltas.
func (l *Ledger) Total() int {
	total := 0
	for _, event := range l.Events {
		total += event.Delta
	}
	return total
}

// Has reports whether any event carries the reason.
func (l *Ledger) Has(reason string) bool {
	for _, event := range l.Events {
		if event.Reason == reason {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() Ledger {
	events := make([]ScoreEvent, len(l.Events))
	copy(events, l.Events)
	return Ledger{Events: events}
}

// Completion bonus parameters. The bonus rewards finishing and finishing
// efficiently: fewer moves earn a larger increment on top of the base.
const (
	CompletionBase        = 500
	EfficiencyPerMove     = 5
	EfficiencyMoveCeiling = 200
	EfficiencyCap         = 500
)

// CompletionBonus computes the one-time bonus for finishing a game in the
// given number of moves.
func CompletionBonus(moves int) int {
	saved := EfficiencyMoveCeiling - moves
	if saved < 0 {
		saved = 0
	}
	increment := EfficiencyPerMove * saved
	if increment > EfficiencyCap {
		increment = EfficiencyCap
	}
	return CompletionBase + increment
}
