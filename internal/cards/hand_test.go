package cards

import (
	"testing"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

func TestNewHandRequiresOwner(t *testing.T) {
	if _, err := NewHand("  ", 0); errors.CodeOf(err) != errors.CodeHandOwnerRequired {
		t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.CodeHandOwnerRequired)
	}
}

func TestAddCardSoftFailsWhenFull(t *testing.T) {
	hand, err := NewHand("p1", 2)
	if err != nil {
		t.Fatalf("new hand: %v", err)
	}

	if !hand.AddCard(MustNew(SuitHearts, RankAce)) {
		t.Fatal("first add should succeed")
	}
	if !hand.AddCard(MustNew(SuitSpades, RankTwo)) {
		t.Fatal("second add should succeed")
	}
	if hand.AddCard(MustNew(SuitClubs, RankThree)) {
		t.Fatal("add beyond max size should report false")
	}
	if hand.Size() != 2 {
		t.Fatalf("size = %d, want 2", hand.Size())
	}
}

func TestAddCardUnboundedWithoutMax(t *testing.T) {
	hand, _ := NewHand("p1", 0)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			if !hand.AddCard(MustNew(suit, rank)) {
				t.Fatalf("unbounded hand refused %s %s", rank, suit)
			}
		}
	}
	if hand.Size() != 52 {
		t.Fatalf("size = %d, want 52", hand.Size())
	}
}

func TestRemoveCard(t *testing.T) {
	hand, _ := NewHand("p1", 0)
	ace := MustNew(SuitHearts, RankAce)
	hand.AddCard(ace)

	if !hand.Contains(ace) {
		t.Fatal("expected hand to contain ace of hearts")
	}
	if !hand.RemoveCard(ace) {
		t.Fatal("remove should succeed")
	}
	if hand.RemoveCard(ace) {
		t.Fatal("second remove should fail")
	}
}

func TestSortByIsStable(t *testing.T) {
	hand, _ := NewHand("p1", 0)
	hand.AddCard(MustNew(SuitSpades, RankKing))
	hand.AddCard(MustNew(SuitHearts, RankAce))
	hand.AddCard(MustNew(SuitClubs, RankAce))
	hand.AddCard(MustNew(SuitHearts, RankKing))

	if err := hand.SortBy(SortByRank); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got := hand.Cards()
	// Both aces precede both kings; equal ranks keep insertion order.
	want := []Card{
		MustNew(SuitHearts, RankAce),
		MustNew(SuitClubs, RankAce),
		MustNew(SuitSpades, RankKing),
		MustNew(SuitHearts, RankKing),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("card %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSortBySuitGroupsSuits(t *testing.T) {
	hand, _ := NewHand("p1", 0)
	hand.AddCard(MustNew(SuitSpades, RankTwo))
	hand.AddCard(MustNew(SuitClubs, RankNine))
	hand.AddCard(MustNew(SuitClubs, RankThree))

	if err := hand.SortBy(SortBySuit); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got := hand.Cards()
	if got[0] != MustNew(SuitClubs, RankThree) || got[1] != MustNew(SuitClubs, RankNine) {
		t.Fatalf("clubs not grouped ascending: %v", got)
	}
}

func TestSortByRejectsUnknownCriterion(t *testing.T) {
	hand, _ := NewHand("p1", 0)
	if err := hand.SortBy("shoe-size"); errors.CodeOf(err) != errors.CodeHandSortCriterion {
		t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.CodeHandSortCriterion)
	}
}

func TestHandStats(t *testing.T) {
	hand, _ := NewHand("p1", 0)
	hand.AddCard(MustNew(SuitHearts, RankAce))   // red, ace, value 1
	hand.AddCard(MustNew(SuitSpades, RankKing))  // black, face, value 13
	hand.AddCard(MustNew(SuitDiamonds, RankSix)) // red, value 6

	stats := hand.Stats()
	if stats.Total != 3 {
		t.Fatalf("total = %d, want 3", stats.Total)
	}
	if stats.BySuit[SuitHearts] != 1 || stats.BySuit[SuitSpades] != 1 {
		t.Fatalf("by suit = %v", stats.BySuit)
	}
	if stats.ByColor[ColorRed] != 2 || stats.ByColor[ColorBlack] != 1 {
		t.Fatalf("by color = %v", stats.ByColor)
	}
	if stats.FaceCards != 1 {
		t.Fatalf("face cards = %d, want 1", stats.FaceCards)
	}
	if stats.Aces != 1 {
		t.Fatalf("aces = %d, want 1", stats.Aces)
	}
	if stats.TotalValue != 20 {
		t.Fatalf("total value = %d, want 20", stats.TotalValue)
	}
	if stats.AverageValue < 6.66 || stats.AverageValue > 6.67 {
		t.Fatalf("average value = %f", stats.AverageValue)
	}
}
