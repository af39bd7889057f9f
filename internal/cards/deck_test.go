package cards

import (
	"encoding/json"
	"testing"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

func TestNewStandardDeckComposition(t *testing.T) {
	deck, err := NewStandardDeck(DeckConfig{})
	if err != nil {
		t.Fatalf("new deck: %v", err)
	}
	if deck.Remaining() != 52 {
		t.Fatalf("remaining = %d, want 52", deck.Remaining())
	}

	drawn, err := deck.Draw(52)
	if err != nil {
		t.Fatalf("draw all: %v", err)
	}
	counts := Multiset(drawn)
	if len(counts) != 52 {
		t.Fatalf("unique cards = %d, want 52", len(counts))
	}
	for card, count := range counts {
		if count != 1 {
			t.Fatalf("card %s appears %d times", card, count)
		}
	}
}

func TestNewStandardDeckJokersAndExclusions(t *testing.T) {
	deck, err := NewStandardDeck(DeckConfig{
		Jokers:  2,
		Exclude: []Card{MustNew(SuitSpades, RankAce), MustNew(SuitHearts, RankKing)},
	})
	if err != nil {
		t.Fatalf("new deck: %v", err)
	}
	if deck.Remaining() != 52 {
		t.Fatalf("remaining = %d, want 52 (50 + 2 jokers)", deck.Remaining())
	}

	drawn, _ := deck.Draw(deck.Remaining())
	counts := Multiset(drawn)
	if counts[MustNew(SuitSpades, RankAce)] != 0 {
		t.Fatal("excluded ace of spades still in deck")
	}
	if counts[Card{Suit: SuitJoker, Rank: RankJoker}] != 2 {
		t.Fatalf("joker count = %d, want 2", counts[Card{Suit: SuitJoker, Rank: RankJoker}])
	}
}

func TestShufflePreservesMultisetAndIsSeeded(t *testing.T) {
	build := func() *Deck {
		deck, err := NewStandardDeck(DeckConfig{})
		if err != nil {
			t.Fatalf("new deck: %v", err)
		}
		return deck
	}

	first := build()
	second := build()
	first.Shuffle(42)
	second.Shuffle(42)

	firstCards, _ := first.Draw(52)
	secondCards, _ := second.Draw(52)
	for i := range firstCards {
		if firstCards[i] != secondCards[i] {
			t.Fatalf("seeded shuffles diverge at %d: %s vs %s", i, firstCards[i], secondCards[i])
		}
	}

	unshuffled := build()
	plain, _ := unshuffled.Draw(52)
	if !MultisetEqual(Multiset(firstCards), Multiset(plain)) {
		t.Fatal("shuffle changed the card multiset")
	}
}

func TestDrawReducesRemainingAndFailsOnShortage(t *testing.T) {
	deck, _ := NewStandardDeck(DeckConfig{})
	before := deck.Remaining()

	drawn, err := deck.Draw(5)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(drawn) != 5 {
		t.Fatalf("drawn = %d, want 5", len(drawn))
	}
	if deck.Remaining() != before-5 {
		t.Fatalf("remaining = %d, want %d", deck.Remaining(), before-5)
	}

	_, err = deck.Draw(deck.Remaining() + 1)
	if errors.CodeOf(err) != errors.CodeDeckInsufficientCards {
		t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.CodeDeckInsufficientCards)
	}
}

func TestDealRoundRobin(t *testing.T) {
	deck, _ := NewStandardDeck(DeckConfig{})

	// Peek the draw order by dealing from a copy with a known sequence.
	reference, _ := NewStandardDeck(DeckConfig{})
	order, _ := reference.Draw(6)

	hands, err := deck.Deal(3, 2)
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	if len(hands) != 3 {
		t.Fatalf("hands = %d, want 3", len(hands))
	}

	// Hand 0 gets cards 1 and 4 of the draw order, hand 1 gets 2 and 5...
	for h := 0; h < 3; h++ {
		if hands[h][0] != order[h] {
			t.Fatalf("hand %d first card = %s, want %s", h, hands[h][0], order[h])
		}
		if hands[h][1] != order[h+3] {
			t.Fatalf("hand %d second card = %s, want %s", h, hands[h][1], order[h+3])
		}
	}
}

func TestDealFailsOnShortage(t *testing.T) {
	deck, _ := NewStandardDeck(DeckConfig{})
	_, err := deck.Deal(6, 10)
	if errors.CodeOf(err) != errors.CodeDeckInsufficientCards {
		t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.CodeDeckInsufficientCards)
	}
	if deck.Remaining() != 52 {
		t.Fatalf("failed deal drew cards: remaining = %d", deck.Remaining())
	}
}

func TestDeckSerializationRoundTrip(t *testing.T) {
	deck, _ := NewStandardDeck(DeckConfig{Jokers: 1})
	deck.Shuffle(7)
	drawn, _ := deck.Draw(3)
	deck.Discard(drawn...)

	data, err := json.Marshal(deck)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored Deck
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if restored.Remaining() != deck.Remaining() {
		t.Fatalf("remaining = %d, want %d", restored.Remaining(), deck.Remaining())
	}
	if restored.DiscardCount() != 3 {
		t.Fatalf("discard = %d, want 3", restored.DiscardCount())
	}
	if !restored.Shuffled() {
		t.Fatal("shuffled flag lost")
	}

	restoredCards, _ := restored.Draw(restored.Remaining())
	originalCards, _ := deck.Draw(deck.Remaining())
	for i := range originalCards {
		if restoredCards[i] != originalCards[i] {
			t.Fatalf("card order diverges at %d", i)
		}
	}
}

func TestDeckUnmarshalRejectsCorruptInput(t *testing.T) {
	var deck Deck
	err := deck.UnmarshalJSON([]byte(`{"cards": ["ZZ"]}`))
	if errors.CodeOf(err) != errors.CodeStateFormatInvalid {
		t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.CodeStateFormatInvalid)
	}
}
