package cards

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/random"
)

// Deck is an ordered sequence of cards plus a discard pile. The last card
// in the slice is the top of the deck, the next to be drawn. Discard order
// is not significant.
type Deck struct {
	cards    []Card
	discard  []Card
	shuffled bool
}

// DeckConfig controls standard deck construction.
type DeckConfig struct {
	// Jokers adds this many jokers to the 52-card deck.
	Jokers int
	// Exclude removes these cards from the deck.
	Exclude []Card
}

// NewStandardDeck builds a 52-card deck (plus optional jokers) minus any
// excluded cards. Cards are ordered by suit then ascending rank until
// shuffled.
func NewStandardDeck(config DeckConfig) (*Deck, error) {
	if config.Jokers < 0 {
		return nil, errors.New(errors.CodeDeckConfigInvalid,
			fmt.Sprintf("joker count %d must not be negative", config.Jokers))
	}

	excluded := make(map[Card]bool, len(config.Exclude))
	for _, card := range config.Exclude {
		excluded[card] = true
	}

	deck := &Deck{}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			card := Card{Suit: suit, Rank: rank}
			if excluded[card] {
				continue
			}
			deck.cards = append(deck.cards, card)
		}
	}
	for i := 0; i < config.Jokers; i++ {
		deck.cards = append(deck.cards, Card{Suit: SuitJoker, Rank: RankJoker})
	}
	return deck, nil
}

// Remaining returns the number of cards left to draw.
func (d *Deck) Remaining() int { return len(d.cards) }

// DiscardCount returns the number of discarded cards.
func (d *Deck) DiscardCount() int { return len(d.discard) }

// Shuffled reports whether the deck has been shuffled since construction.
func (d *Deck) Shuffled() bool { return d.shuffled }

// Shuffle performs a Fisher-Yates shuffle seeded for reproducibility.
func (d *Deck) Shuffle(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.shuffled = true
}

// ShuffleRandom shuffles with a seed drawn from crypto/rand and returns the
// seed so the deal stays reproducible.
func (d *Deck) ShuffleRandom() (int64, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return 0, err
	}
	d.Shuffle(seed)
	return seed, nil
}

// Draw removes and returns the top n cards, most recent first. Fails when
// fewer than n cards remain.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 {
		return nil, errors.New(errors.CodeDeckConfigInvalid,
			fmt.Sprintf("draw count %d must not be negative", n))
	}
	if n > len(d.cards) {
		return nil, errors.WithMetadata(errors.CodeDeckInsufficientCards,
			fmt.Sprintf("cannot draw %d cards, %d remain", n, len(d.cards)),
			map[string]string{
				"requested": fmt.Sprintf("%d", n),
				"remaining": fmt.Sprintf("%d", len(d.cards)),
			})
	}

	drawn := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		top := d.cards[len(d.cards)-1]
		d.cards = d.cards[:len(d.cards)-1]
		drawn = append(drawn, top)
	}
	return drawn, nil
}

// Deal distributes handCount*perHand cards round-robin: hand 0 receives the
// first card, hand 1 the second, and so on. Fails without drawing when the
// deck cannot cover the full deal.
func (d *Deck) Deal(handCount, perHand int) ([][]Card, error) {
	if handCount < 1 || perHand < 1 {
		return nil, errors.New(errors.CodeDeckConfigInvalid,
			fmt.Sprintf("deal of %d hands with %d cards each is invalid", handCount, perHand))
	}
	needed := handCount * perHand
	if needed > len(d.cards) {
		return nil, errors.WithMetadata(errors.CodeDeckInsufficientCards,
			fmt.Sprintf("cannot deal %d cards, %d remain", needed, len(d.cards)),
			map[string]string{
				"requested": fmt.Sprintf("%d", needed),
				"remaining": fmt.Sprintf("%d", len(d.cards)),
			})
	}

	hands := make([][]Card, handCount)
	for i := 0; i < perHand; i++ {
		for h := 0; h < handCount; h++ {
			drawn, err := d.Draw(1)
			if err != nil {
				return nil, err
			}
			hands[h] = append(hands[h], drawn[0])
		}
	}
	return hands, nil
}

// Discard moves cards onto the discard pile.
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// deckDTO is the serialized deck shape.
type deckDTO struct {
	Cards    []string `json:"cards"`
	Discard  []string `json:"discard"`
	Shuffled bool     `json:"shuffled"`
}

// MarshalJSON serializes the full deck state.
func (d *Deck) MarshalJSON() ([]byte, error) {
	dto := deckDTO{
		Cards:    encodeCards(d.cards),
		Discard:  encodeCards(d.discard),
		Shuffled: d.shuffled,
	}
	return json.Marshal(dto)
}

// UnmarshalJSON restores a deck serialized by MarshalJSON.
func (d *Deck) UnmarshalJSON(data []byte) error {
	var dto deckDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return errors.Wrap(errors.CodeStateFormatInvalid, "decode deck", err)
	}

	cards, err := decodeCards(dto.Cards)
	if err != nil {
		return err
	}
	discard, err := decodeCards(dto.Discard)
	if err != nil {
		return err
	}

	d.cards = cards
	d.discard = discard
	d.shuffled = dto.Shuffled
	return nil
}

func encodeCards(cards []Card) []string {
	encoded := make([]string, len(cards))
	for i, card := range cards {
		encoded[i] = card.String()
	}
	return encoded
}

func decodeCards(codes []string) ([]Card, error) {
	if codes == nil {
		return nil, nil
	}
	cards := make([]Card, len(codes))
	for i, code := range codes {
		card, err := Parse(code)
		if err != nil {
			return nil, errors.Wrap(errors.CodeStateFormatInvalid,
				fmt.Sprintf("decode card %q", code), err)
		}
		cards[i] = card
	}
	return cards, nil
}

// Multiset counts cards by identity. Used for full-deck accounting checks:
// the cards across deck, discard, and dealt hands must always equal the
// deck's original composition.
func Multiset(groups ...[]Card) map[Card]int {
	counts := make(map[Card]int)
	for _, group := range groups {
		for _, card := range group {
			counts[card]++
		}
	}
	return counts
}

// MultisetEqual reports whether two card multisets are identical.
func MultisetEqual(a, b map[Card]int) bool {
	if len(a) != len(b) {
		return false
	}
	for card, count := range a {
		if b[card] != count {
			return false
		}
	}
	return true
}
