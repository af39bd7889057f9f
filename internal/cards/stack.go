package cards

// OrderRule constrains the rank relationship between a bottom card and the
// card stacked on top of it.
type OrderRule int

const (
	OrderAny OrderRule = iota
	// OrderDescending requires top's rank to be exactly one below bottom's.
	OrderDescending
	// OrderAscending requires top's rank to be exactly one above bottom's.
	OrderAscending
)

// ColorRule constrains the color relationship in a stack.
type ColorRule int

const (
	ColorAny ColorRule = iota
	ColorAlternate
	ColorSame
)

// SuitRule constrains the suit relationship in a stack.
type SuitRule int

const (
	SuitAny SuitRule = iota
	SuitSame
	SuitDifferent
)

// StackRule is a generalized adjacency predicate for piles. Each axis is
// independently toggleable so one rule type serves tableau stacking
// (descending, alternating colors) and foundation building (ascending,
// same suit) alike.
type StackRule struct {
	Order OrderRule
	Color ColorRule
	Suit  SuitRule
}

// TableauRule is the Klondike tableau stacking rule.
var TableauRule = StackRule{Order: OrderDescending, Color: ColorAlternate}

// FoundationRule is the Klondike foundation building rule.
var FoundationRule = StackRule{Order: OrderAscending, Suit: SuitSame}

// CanStack reports whether top may be placed on bottom under the rule.
// Jokers never stack.
func CanStack(bottom, top Card, rule StackRule) bool {
	if bottom.IsJoker() || top.IsJoker() {
		return false
	}

	switch rule.Order {
	case OrderDescending:
		if top.Value() != bottom.Value()-1 {
			return false
		}
	case OrderAscending:
		if top.Value() != bottom.Value()+1 {
			return false
		}
	}

	switch rule.Color {
	case ColorAlternate:
		if top.Color() == bottom.Color() {
			return false
		}
	case ColorSame:
		if top.Color() != bottom.Color() {
			return false
		}
	}

	switch rule.Suit {
	case SuitSame:
		if top.Suit != bottom.Suit {
			return false
		}
	case SuitDifferent:
		if top.Suit == bottom.Suit {
			return false
		}
	}

	return true
}
