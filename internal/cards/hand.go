package cards

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Hand is a per-player ordered card collection with an optional size cap.
type Hand struct {
	owner   string
	cards   []Card
	maxSize int // 0 means unbounded
}

// SortCriterion selects the key for Hand.SortBy.
type SortCriterion string

const (
	SortBySuit  SortCriterion = "suit"
	SortByRank  SortCriterion = "rank"
	SortByColor SortCriterion = "color"
)

// NewHand creates a hand for the owner. maxSize of 0 means unbounded.
func NewHand(ownerID string, maxSize int) (*Hand, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errors.New(errors.CodeHandOwnerRequired, "hand owner id is required")
	}
	if maxSize < 0 {
		return nil, errors.New(errors.CodeDeckConfigInvalid,
			fmt.Sprintf("hand max size %d must not be negative", maxSize))
	}
	return &Hand{owner: ownerID, maxSize: maxSize}, nil
}

// Owner returns the owning player id.
func (h *Hand) Owner() string { return h.owner }

// Size returns the number of cards held.
func (h *Hand) Size() int { return len(h.cards) }

// MaxSize returns the size cap, 0 when unbounded.
func (h *Hand) MaxSize() int { return h.maxSize }

// Cards returns a copy of the held cards in order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// AddCard appends a card, reporting false when the hand is full. The soft
// failure lets callers branch without error handling.
func (h *Hand) AddCard(card Card) bool {
	if h.maxSize > 0 && len(h.cards) >= h.maxSize {
		return false
	}
	h.cards = append(h.cards, card)
	return true
}

// RemoveCard removes the first card equal to the given one, reporting
// whether it was held.
func (h *Hand) RemoveCard(card Card) bool {
	for i, held := range h.cards {
		if held == card {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the hand holds a card equal to the given one.
func (h *Hand) Contains(card Card) bool {
	for _, held := range h.cards {
		if held == card {
			return true
		}
	}
	return false
}

// SortBy stably sorts the hand by the criterion. Ties keep insertion order.
func (h *Hand) SortBy(criterion SortCriterion) error {
	var key func(Card) int
	switch criterion {
	case SortBySuit:
		key = func(c Card) int { return suitOrder(c.Suit)*100 + c.Value() }
	case SortByRank:
		key = func(c Card) int { return c.Value() }
	case SortByColor:
		key = func(c Card) int { return colorOrder(c.Color())*100 + c.Value() }
	default:
		return errors.New(errors.CodeHandSortCriterion,
			fmt.Sprintf("unknown sort criterion %q", criterion))
	}

	sort.SliceStable(h.cards, func(i, j int) bool {
		return key(h.cards[i]) < key(h.cards[j])
	})
	return nil
}

func suitOrder(suit Suit) int {
	switch suit {
	case SuitClubs:
		return 0
	case SuitDiamonds:
		return 1
	case SuitHearts:
		return 2
	case SuitSpades:
		return 3
	}
	return 4
}

func colorOrder(color Color) int {
	switch color {
	case ColorBlack:
		return 0
	case ColorRed:
		return 1
	}
	return 2
}

// HandStats aggregates a hand's composition.
type HandStats struct {
	Total        int            `json:"total"`
	BySuit       map[Suit]int   `json:"by_suit"`
	ByColor      map[Color]int  `json:"by_color"`
	FaceCards    int            `json:"face_cards"`
	Aces         int            `json:"aces"`
	TotalValue   int            `json:"total_value"`
	AverageValue float64        `json:"average_value"`
}

// Stats aggregates per-suit and per-color counts, face-card and ace counts,
// and total/average rank value.
func (h *Hand) Stats() HandStats {
	stats := HandStats{
		Total:   len(h.cards),
		BySuit:  make(map[Suit]int),
		ByColor: make(map[Color]int),
	}
	for _, card := range h.cards {
		stats.BySuit[card.Suit]++
		stats.ByColor[card.Color()]++
		if card.IsFaceCard() {
			stats.FaceCards++
		}
		if card.IsAce() {
			stats.Aces++
		}
		stats.TotalValue += card.Value()
	}
	if stats.Total > 0 {
		stats.AverageValue = float64(stats.TotalValue) / float64(stats.Total)
	}
	return stats
}
