// Package cards implements card identity, deck, and hand primitives shared
// by card-based rule engines.
package cards

import (
	"fmt"
	"strings"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Suit is a card suit.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitJoker    Suit = "joker"
)

// Suits lists the four standard suits, excluding jokers.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Color is a card color.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
	ColorNone  Color = "none"
)

// Rank is a card rank.
type Rank string

const (
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankJoker Rank = "JOKER"
)

// Ranks lists the thirteen standard ranks in ascending order, Ace low.
var Ranks = []Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

var rankValues = map[Rank]int{
	RankAce: 1, RankTwo: 2, RankThree: 3, RankFour: 4, RankFive: 5,
	RankSix: 6, RankSeven: 7, RankEight: 8, RankNine: 9, RankTen: 10,
	RankJack: 11, RankQueen: 12, RankKing: 13,
}

var rankNames = map[Rank]string{
	RankAce: "Ace", RankTwo: "Two", RankThree: "Three", RankFour: "Four",
	RankFive: "Five", RankSix: "Six", RankSeven: "Seven", RankEight: "Eight",
	RankNine: "Nine", RankTen: "Ten", RankJack: "Jack", RankQueen: "Queen",
	RankKing: "King", RankJoker: "Joker",
}

// Name returns the long rank name ("Ace", "Ten").
func (r Rank) Name() string { return rankNames[r] }

// RankOfValue returns the rank with the numeric value, Ace (1) through
// King (13).
func RankOfValue(value int) (Rank, bool) {
	if value < 1 || value > len(Ranks) {
		return "", false
	}
	return Ranks[value-1], true
}

// Card is an immutable card identity. Two cards are equal when their suit
// and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// New creates a card, validating suit and rank.
func New(suit Suit, rank Rank) (Card, error) {
	if suit == SuitJoker || rank == RankJoker {
		if suit != SuitJoker || rank != RankJoker {
			return Card{}, errors.New(errors.CodeCardInvalid,
				fmt.Sprintf("joker requires both joker suit and rank, got %s %s", suit, rank))
		}
		return Card{Suit: SuitJoker, Rank: RankJoker}, nil
	}
	if !validSuit(suit) {
		return Card{}, errors.New(errors.CodeCardInvalid, fmt.Sprintf("unknown suit %q", suit))
	}
	if _, ok := rankValues[rank]; !ok {
		return Card{}, errors.New(errors.CodeCardInvalid, fmt.Sprintf("unknown rank %q", rank))
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// MustNew creates a card or panics. For test fixtures and fixed tables.
func MustNew(suit Suit, rank Rank) Card {
	card, err := New(suit, rank)
	if err != nil {
		panic(err)
	}
	return card
}

func validSuit(suit Suit) bool {
	switch suit {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return true
	}
	return false
}

// Value returns the numeric rank value, Ace low (1) through King (13).
// Jokers have value 0.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

// Color returns the card's color; jokers have no color.
func (c Card) Color() Color {
	switch c.Suit {
	case SuitHearts, SuitDiamonds:
		return ColorRed
	case SuitClubs, SuitSpades:
		return ColorBlack
	}
	return ColorNone
}

// IsRed reports whether the card is a heart or diamond.
func (c Card) IsRed() bool { return c.Color() == ColorRed }

// IsBlack reports whether the card is a club or spade.
func (c Card) IsBlack() bool { return c.Color() == ColorBlack }

// IsFaceCard reports whether the card is a Jack, Queen, or King.
func (c Card) IsFaceCard() bool {
	return c.Rank == RankJack || c.Rank == RankQueen || c.Rank == RankKing
}

// IsAce reports whether the card is an Ace.
func (c Card) IsAce() bool { return c.Rank == RankAce }

// IsJoker reports whether the card is a joker.
func (c Card) IsJoker() bool { return c.Suit == SuitJoker }

// String encodes the card as a two-rune code: rank letter then suit letter
// ("AS", "TD", "QH"). Ten is "T"; jokers are "JK".
func (c Card) String() string {
	if c.IsJoker() {
		return "JK"
	}
	rank := string(c.Rank)
	if c.Rank == RankTen {
		rank = "T"
	}
	return rank + suitLetter(c.Suit)
}

// Name returns the long human-readable name ("Ace of spades").
func (c Card) Name() string {
	if c.IsJoker() {
		return "Joker"
	}
	return rankNames[c.Rank] + " of " + string(c.Suit)
}

func suitLetter(suit Suit) string {
	switch suit {
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	case SuitSpades:
		return "S"
	}
	return "?"
}

// Parse decodes a card from its String form. Round-trips exactly.
func Parse(code string) (Card, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "JK" {
		return Card{Suit: SuitJoker, Rank: RankJoker}, nil
	}
	if len(trimmed) != 2 {
		return Card{}, errors.New(errors.CodeCardStringInvalid,
			fmt.Sprintf("card code %q must be two characters", code))
	}

	var rank Rank
	switch trimmed[0] {
	case 'T':
		rank = RankTen
	default:
		rank = Rank(trimmed[:1])
	}
	if _, ok := rankValues[rank]; !ok {
		return Card{}, errors.New(errors.CodeCardStringInvalid,
			fmt.Sprintf("unknown rank letter %q", trimmed[:1]))
	}

	var suit Suit
	switch trimmed[1] {
	case 'H':
		suit = SuitHearts
	case 'D':
		suit = SuitDiamonds
	case 'C':
		suit = SuitClubs
	case 'S':
		suit = SuitSpades
	default:
		return Card{}, errors.New(errors.CodeCardStringInvalid,
			fmt.Sprintf("unknown suit letter %q", trimmed[1:]))
	}

	return Card{Suit: suit, Rank: rank}, nil
}
