package solitaire

import (
	"encoding/json"
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/cards"
	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/solo"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Engine implements engine.Plugin for Klondike solitaire.
type Engine struct{}

// NewPlugin creates a solitaire plugin instance.
func NewPlugin() *Engine { return &Engine{} }

// Factory is the registry factory for solitaire.
func Factory() (engine.Plugin, error) { return NewPlugin(), nil }

// Descriptor implements engine.Plugin.
func (e *Engine) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Type:       engine.GameTypeSolitaire,
		Name:       "Klondike Solitaire",
		MinPlayers: 1,
		MaxPlayers: 1,
		Colors:     []string{"player"},
	}
}

// NewGame implements engine.Plugin.
func (e *Engine) NewGame(settings engine.Settings) (engine.State, error) {
	return newGame(settings)
}

// ParseMove implements engine.Plugin.
func (e *Engine) ParseMove(payload json.RawMessage) (engine.Move, error) {
	return parseMove(payload)
}

// effect is the examined outcome of a legal move: the resolved card count
// and the score it books.
type effect struct {
	count  int
	delta  int
	reason string
}

// ValidateMove implements engine.Plugin. It is pure: counts are resolved
// against the state but nothing is mutated.
func (e *Engine) ValidateMove(move engine.Move, state engine.State, actorID string, players []engine.Player) engine.Validation {
	soloMove, soloState, rej := e.coerce(move, state)
	if rej != nil {
		return engine.Validation{Rejection: rej}
	}
	if !isPlayer(players, actorID) {
		return engine.Reject(errors.CodePlayerUnknown,
			fmt.Sprintf("player %s is not part of this game", actorID))
	}

	if _, rej := examine(soloState, soloMove); rej != nil {
		return engine.Validation{Rejection: rej}
	}
	return engine.Accept()
}

// ApplyMove implements engine.Plugin. It assumes the move already validated;
// any inconsistency found here propagates as a contract violation.
func (e *Engine) ApplyMove(move engine.Move, state engine.State, actorID string, players []engine.Player) (engine.State, error) {
	soloMove, soloState, rej := e.coerce(move, state)
	if rej != nil {
		return nil, rej.Err()
	}
	if !isPlayer(players, actorID) {
		return nil, errors.New(errors.CodePlayerUnknown,
			fmt.Sprintf("player %s is not part of this game", actorID))
	}

	eff, rej := examine(soloState, soloMove)
	if rej != nil {
		return nil, errors.Wrap(errors.CodePluginContractViolation,
			"applyMove invoked on a move that no longer validates: "+rej.Message, rej.Err())
	}

	next := soloState.Clone().(*State)
	switch soloMove.Action {
	case ActionDrawStock:
		for i := 0; i < eff.count; i++ {
			top := next.Stock[len(next.Stock)-1]
			next.Stock = next.Stock[:len(next.Stock)-1]
			next.Waste = append(next.Waste, top)
		}

	case ActionResetStock:
		// The waste is turned over in place, so its bottom becomes the
		// new stock top.
		for i := len(next.Waste) - 1; i >= 0; i-- {
			next.Stock = append(next.Stock, next.Waste[i])
		}
		next.Waste = nil

	case ActionFlipCard:
		column := next.Tableau[soloMove.From.Column]
		column[len(column)-1].FaceUp = true

	case ActionMoveCard:
		moved := next.lift(soloMove.From, eff.count)
		next.place(soloMove.To, moved)
	}

	if eff.reason != "" {
		next.Ledger.Add(eff.reason, eff.delta)
	}
	next.record(soloMove.Action, soloMove.From.String(), soloMove.To.String(), eff.count, eff.delta)

	if next.foundationsComplete() && !next.BonusGiven {
		next.Ledger.Add(ScoreCompletion, solo.CompletionBonus(next.Moves))
		next.BonusGiven = true
	}
	return next, nil
}

// lift removes count cards from the source pile and returns them in pile
// order, face up.
func (s *State) lift(from Location, count int) []TableauCard {
	switch from.Kind {
	case LocationWaste:
		top := s.Waste[len(s.Waste)-1]
		s.Waste = s.Waste[:len(s.Waste)-1]
		return []TableauCard{{Card: top, FaceUp: true}}
	case LocationFoundation:
		pile := s.Foundations[from.Suit]
		top := pile[len(pile)-1]
		s.Foundations[from.Suit] = pile[:len(pile)-1]
		return []TableauCard{{Card: top, FaceUp: true}}
	case LocationTableau:
		column := s.Tableau[from.Column]
		cut := len(column) - count
		moved := append([]TableauCard(nil), column[cut:]...)
		s.Tableau[from.Column] = column[:cut]
		return moved
	}
	return nil
}

// place appends lifted cards to the destination pile.
func (s *State) place(to Location, moved []TableauCard) {
	switch to.Kind {
	case LocationTableau:
		s.Tableau[to.Column] = append(s.Tableau[to.Column], moved...)
	case LocationFoundation:
		s.Foundations[to.Suit] = append(s.Foundations[to.Suit], moved[0].Card)
	}
}

// examine checks a move against the state and resolves the card count for
// tableau moves. It never mutates the state.
func examine(state *State, move Move) (effect, *engine.Rejection) {
	switch move.Action {
	case ActionDrawStock:
		if len(state.Stock) == 0 {
			if len(state.Waste) > 0 {
				return effect{}, reject(errors.CodeSolitaireStockEmpty,
					"the stock is empty, reset it from the waste", nil)
			}
			return effect{}, reject(errors.CodeSolitaireStockEmpty,
				"the stock and waste are both empty", nil)
		}
		count := state.DrawCount
		if count > len(state.Stock) {
			count = len(state.Stock)
		}
		return effect{count: count}, nil

	case ActionResetStock:
		if len(state.Stock) > 0 {
			return effect{}, reject(errors.CodeSolitaireStockNotEmpty,
				fmt.Sprintf("the stock still holds %d cards", len(state.Stock)), nil)
		}
		if len(state.Waste) == 0 {
			return effect{}, reject(errors.CodeSolitaireWasteEmpty,
				"the waste is empty, there is nothing to reset", nil)
		}
		return effect{count: len(state.Waste), delta: stockResetPenalty, reason: ScoreStockReset}, nil

	case ActionFlipCard:
		column := state.Tableau[move.From.Column]
		if len(column) == 0 {
			return effect{}, reject(errors.CodeSolitaireColumnEmpty,
				move.From.String()+" is empty",
				map[string]string{"column": move.From.String()})
		}
		if column[len(column)-1].FaceUp {
			return effect{}, reject(errors.CodeSolitaireFlipNotAllowed,
				"the exposed card on "+move.From.String()+" is already face up", nil)
		}
		return effect{count: 1, delta: flipPoints, reason: ScoreFlip}, nil

	case ActionMoveCard:
		return examineMoveCard(state, move)
	}

	return effect{}, reject(errors.CodeMovePayloadMalformed,
		fmt.Sprintf("unknown action %q", move.Action), nil)
}

// examineMoveCard validates a move_card action and resolves its count.
func examineMoveCard(state *State, move Move) (effect, *engine.Rejection) {
	switch move.From.Kind {
	case LocationWaste:
		if len(state.Waste) == 0 {
			return effect{}, reject(errors.CodeSolitaireWasteEmpty, "the waste is empty", nil)
		}
		if move.Count > 1 {
			return effect{}, reject(errors.CodeSolitaireCountExceedsRun,
				"the waste moves one card at a time",
				map[string]string{"run": "1", "requested": fmt.Sprintf("%d", move.Count)})
		}
		card := state.Waste[len(state.Waste)-1]
		return examinePlacement(state, move.To, card)

	case LocationFoundation:
		pile := state.Foundations[move.From.Suit]
		if len(pile) == 0 {
			return effect{}, reject(errors.CodeSolitaireColumnEmpty,
				move.From.String()+" is empty",
				map[string]string{"column": move.From.String()})
		}
		if move.Count > 1 {
			return effect{}, reject(errors.CodeSolitaireFoundationOneCard,
				"only one card leaves a foundation at a time", nil)
		}
		card := pile[len(pile)-1]
		if rej := checkTableauPlacement(state, move.To.Column, card); rej != nil {
			return effect{}, rej
		}
		return effect{count: 1, delta: foundationBackPoints, reason: ScoreFoundationBack}, nil

	case LocationTableau:
		column := state.Tableau[move.From.Column]
		if len(column) == 0 {
			return effect{}, reject(errors.CodeSolitaireColumnEmpty,
				move.From.String()+" is empty",
				map[string]string{"column": move.From.String()})
		}
		run := maxMovableRun(column)
		if run == 0 {
			return effect{}, reject(errors.CodeSolitaireFaceDownMove,
				"the exposed card on "+move.From.String()+" is face down, flip it first", nil)
		}

		if move.To.Kind == LocationFoundation {
			if move.Count > 1 {
				return effect{}, reject(errors.CodeSolitaireFoundationOneCard,
					"a foundation accepts one card at a time", nil)
			}
			card := column[len(column)-1].Card
			return examinePlacement(state, move.To, card)
		}

		// Explicit counts are validated but never overridden.
		if move.Count > 0 {
			if move.Count > run {
				return effect{}, reject(errors.CodeSolitaireCountExceedsRun,
					fmt.Sprintf("%s has a movable run of %d, cannot move %d",
						move.From, run, move.Count),
					map[string]string{
						"run":       fmt.Sprintf("%d", run),
						"requested": fmt.Sprintf("%d", move.Count),
					})
			}
			bottom := column[len(column)-move.Count].Card
			if rej := checkTableauPlacement(state, move.To.Column, bottom); rej != nil {
				return effect{}, rej
			}
			return effect{count: move.Count}, nil
		}

		// No count given: try the longest run first, then shorter ones.
		for n := run; n >= 1; n-- {
			bottom := column[len(column)-n].Card
			if checkTableauPlacement(state, move.To.Column, bottom) == nil {
				return effect{count: n}, nil
			}
		}
		return effect{}, checkTableauPlacement(state, move.To.Column, column[len(column)-1].Card)
	}

	return effect{}, reject(errors.CodeMovePayloadMalformed,
		fmt.Sprintf("unsupported source %s", move.From), nil)
}

// examinePlacement routes a single-card placement to the destination check
// and books the score it earns.
func examinePlacement(state *State, to Location, card cards.Card) (effect, *engine.Rejection) {
	switch to.Kind {
	case LocationTableau:
		if rej := checkTableauPlacement(state, to.Column, card); rej != nil {
			return effect{}, rej
		}
		return effect{count: 1}, nil
	case LocationFoundation:
		if rej := checkFoundationPlacement(state, to.Suit, card); rej != nil {
			return effect{}, rej
		}
		return effect{count: 1, delta: foundationPoints, reason: ScoreFoundation}, nil
	}
	return effect{}, reject(errors.CodeMovePayloadMalformed,
		fmt.Sprintf("unsupported destination %s", to), nil)
}

// checkTableauPlacement verifies a card may land on the column, naming the
// expected rank and color when it cannot.
func checkTableauPlacement(state *State, column int, card cards.Card) *engine.Rejection {
	dest := Location{Kind: LocationTableau, Column: column}
	stack := state.Tableau[column]
	if len(stack) == 0 {
		if card.Rank != cards.RankKing {
			return reject(errors.CodeSolitaireEmptyNeedsKing,
				fmt.Sprintf("only a King can start the empty %s, got %s", dest, card.Name()),
				map[string]string{"column": dest.String(), "got": card.Name()})
		}
		return nil
	}

	bottom := stack[len(stack)-1]
	if !bottom.FaceUp {
		return reject(errors.CodeSolitaireFaceDownMove,
			"the exposed card on "+dest.String()+" is face down, flip it first", nil)
	}
	if cards.CanStack(bottom.Card, card, cards.TableauRule) {
		return nil
	}

	if bottom.Card.IsAce() {
		return reject(errors.CodeSolitaireTableauSequence,
			fmt.Sprintf("nothing stacks on the %s exposed on %s", bottom.Card.Name(), dest),
			map[string]string{"column": dest.String(), "bottom": bottom.Card.Name()})
	}
	wantRank, _ := cards.RankOfValue(bottom.Card.Value() - 1)
	wantColor := cards.ColorRed
	if bottom.Card.IsRed() {
		wantColor = cards.ColorBlack
	}
	return reject(errors.CodeSolitaireTableauSequence,
		fmt.Sprintf("%s needs a %s %s on %s, got %s",
			dest, wantColor, wantRank.Name(), bottom.Card.Name(), card.Name()),
		map[string]string{
			"column":     dest.String(),
			"want_rank":  wantRank.Name(),
			"want_color": string(wantColor),
			"bottom":     bottom.Card.Name(),
			"got":        card.Name(),
		})
}

// checkFoundationPlacement verifies a card continues the suit pile, naming
// the expected suit or rank when it does not.
func checkFoundationPlacement(state *State, suit cards.Suit, card cards.Card) *engine.Rejection {
	dest := Location{Kind: LocationFoundation, Suit: suit}
	if card.Suit != suit {
		return reject(errors.CodeSolitaireFoundationSuit,
			fmt.Sprintf("%s takes %s, got %s", dest, suit, card.Name()),
			map[string]string{"foundation": dest.String(), "want_suit": string(suit), "got": card.Name()})
	}

	pile := state.Foundations[suit]
	wantRank, ok := cards.RankOfValue(len(pile) + 1)
	if !ok {
		return reject(errors.CodeSolitaireFoundationRank,
			dest.String()+" is already complete",
			map[string]string{"foundation": dest.String()})
	}
	if card.Rank != wantRank {
		want := cards.Card{Suit: suit, Rank: wantRank}
		return reject(errors.CodeSolitaireFoundationRank,
			fmt.Sprintf("%s needs the %s, got %s", dest, want.Name(), card.Name()),
			map[string]string{"foundation": dest.String(), "want": want.Name(), "got": card.Name()})
	}
	return nil
}

// IsComplete implements engine.Plugin: all four foundations hold thirteen
// cards.
func (e *Engine) IsComplete(state engine.State, _ []engine.Player) bool {
	soloState, ok := state.(*State)
	if !ok {
		return false
	}
	return soloState.foundationsComplete()
}

// Winner implements engine.Plugin via the single-player scaffold.
func (e *Engine) Winner(state engine.State, players []engine.Player) (string, bool) {
	return solo.Winner(players, e.IsComplete(state, players))
}

// NextPlayer implements engine.Plugin: the sole player is always next.
func (e *Engine) NextPlayer(_ string, players []engine.Player, _ engine.State) (string, error) {
	return solo.NextPlayer(players)
}

// AssignColor implements engine.Plugin.
func (e *Engine) AssignColor(taken []engine.Player) (string, error) {
	if len(taken) > 0 {
		return "", errors.New(errors.CodeColorsExhausted, "the game already has its player")
	}
	return "player", nil
}

// ValidateState implements engine.Plugin: full-deck accounting plus pile
// structure checks, run after deserialization.
func (e *Engine) ValidateState(state engine.State) error {
	soloState, ok := state.(*State)
	if !ok {
		return errors.New(errors.CodeStateTypeMismatch, "state is not a solitaire state")
	}
	if soloState.DrawCount != 1 && soloState.DrawCount != 3 {
		return errors.New(errors.CodeStateStructureInvalid,
			fmt.Sprintf("draw count %d must be 1 or 3", soloState.DrawCount))
	}

	full, err := cards.NewStandardDeck(cards.DeckConfig{})
	if err != nil {
		return err
	}
	want, err := full.Draw(full.Remaining())
	if err != nil {
		return err
	}

	held := [][]cards.Card{soloState.Stock, soloState.Waste}
	for suit, pile := range soloState.Foundations {
		for i, card := range pile {
			wantRank, _ := cards.RankOfValue(i + 1)
			if card.Suit != suit || card.Rank != wantRank {
				return errors.New(errors.CodeStateStructureInvalid,
					fmt.Sprintf("foundation-%s holds %s at position %d", suit, card.Name(), i+1))
			}
		}
		held = append(held, pile)
	}
	for col, column := range soloState.Tableau {
		flat := make([]cards.Card, len(column))
		faceUpSeen := false
		for i, tc := range column {
			if tc.FaceUp {
				faceUpSeen = true
			} else if faceUpSeen {
				return errors.New(errors.CodeStateStructureInvalid,
					fmt.Sprintf("tableau-%d has a face-down card above a face-up card", col+1))
			}
			flat[i] = tc.Card
		}
		held = append(held, flat)
	}

	if !cards.MultisetEqual(cards.Multiset(want), cards.Multiset(held...)) {
		return errors.New(errors.CodeStateStructureInvalid,
			"piles do not account for the full 52-card deck")
	}
	return nil
}

// Stats implements engine.Plugin.
func (e *Engine) Stats(state engine.State, players []engine.Player) (engine.Stats, error) {
	soloState, ok := state.(*State)
	if !ok {
		return engine.Stats{}, errors.New(errors.CodeStateTypeMismatch, "state is not a solitaire state")
	}

	foundation := 0
	for _, pile := range soloState.Foundations {
		foundation += len(pile)
	}

	winner, _ := e.Winner(state, players)
	return engine.Stats{
		MoveCount: soloState.Moves,
		Score:     soloState.Score(),
		Complete:  e.IsComplete(state, players),
		Winner:    winner,
		Detail: map[string]string{
			"foundation_cards": fmt.Sprintf("%d", foundation),
			"stock_cards":      fmt.Sprintf("%d", len(soloState.Stock)),
			"waste_cards":      fmt.Sprintf("%d", len(soloState.Waste)),
		},
	}, nil
}

// RenderData implements engine.Plugin. Face-down cards render as "??"
// unless the caller asks for them.
func (e *Engine) RenderData(state engine.State, _ []engine.Player, opts engine.RenderOptions) (engine.RenderData, error) {
	soloState, ok := state.(*State)
	if !ok {
		return engine.RenderData{}, errors.New(errors.CodeStateTypeMismatch, "state is not a solitaire state")
	}

	piles := make(map[string][]string)
	for col, column := range soloState.Tableau {
		name := Location{Kind: LocationTableau, Column: col}.String()
		rendered := make([]string, len(column))
		for i, tc := range column {
			if tc.FaceUp || opts.RevealHidden {
				rendered[i] = tc.Card.String()
			} else {
				rendered[i] = "??"
			}
		}
		piles[name] = rendered
	}
	for _, suit := range cards.Suits {
		name := Location{Kind: LocationFoundation, Suit: suit}.String()
		rendered := make([]string, len(soloState.Foundations[suit]))
		for i, card := range soloState.Foundations[suit] {
			rendered[i] = card.String()
		}
		piles[name] = rendered
	}
	waste := make([]string, len(soloState.Waste))
	for i, card := range soloState.Waste {
		waste[i] = card.String()
	}
	piles["waste"] = waste
	if opts.RevealHidden {
		stock := make([]string, len(soloState.Stock))
		for i, card := range soloState.Stock {
			stock[i] = card.String()
		}
		piles["stock"] = stock
	}

	return engine.RenderData{
		GameType: engine.GameTypeSolitaire,
		Piles:    piles,
		Labels: map[string]string{
			"stock_count": fmt.Sprintf("%d", len(soloState.Stock)),
			"score":       fmt.Sprintf("%d", soloState.Score()),
			"moves":       fmt.Sprintf("%d", soloState.Moves),
		},
	}, nil
}

// tableauCardDTO is the serialized card-with-facing shape.
type tableauCardDTO struct {
	Card string `json:"card"`
	Up   bool   `json:"up"`
}

// stateDTO is the serialized solitaire state shape.
type stateDTO struct {
	Tableau     [TableauColumns][]tableauCardDTO `json:"tableau"`
	Foundations map[string][]string              `json:"foundations"`
	Stock       []string                         `json:"stock"`
	Waste       []string                         `json:"waste"`
	Score       []solo.ScoreEvent                `json:"score_events"`
	MoveLog     []MoveRecord                     `json:"move_log"`
	Moves       int                              `json:"moves"`
	DrawCount   int                              `json:"draw_count"`
	Seed        int64                            `json:"seed"`
	BonusGiven  bool                             `json:"bonus_given,omitempty"`
}

// MarshalState implements engine.Plugin.
func (e *Engine) MarshalState(state engine.State) ([]byte, error) {
	soloState, ok := state.(*State)
	if !ok {
		return nil, errors.New(errors.CodeStateTypeMismatch, "state is not a solitaire state")
	}

	dto := stateDTO{
		Foundations: make(map[string][]string, len(soloState.Foundations)),
		Stock:       encodePile(soloState.Stock),
		Waste:       encodePile(soloState.Waste),
		Score:       soloState.Ledger.Events,
		MoveLog:     soloState.MoveLog,
		Moves:       soloState.Moves,
		DrawCount:   soloState.DrawCount,
		Seed:        soloState.Seed,
		BonusGiven:  soloState.BonusGiven,
	}
	for col, column := range soloState.Tableau {
		encoded := make([]tableauCardDTO, len(column))
		for i, tc := range column {
			encoded[i] = tableauCardDTO{Card: tc.Card.String(), Up: tc.FaceUp}
		}
		dto.Tableau[col] = encoded
	}
	for suit, pile := range soloState.Foundations {
		dto.Foundations[string(suit)] = encodePile(pile)
	}

	return engine.EncodeState(engine.GameTypeSolitaire, dto)
}

// UnmarshalState implements engine.Plugin.
func (e *Engine) UnmarshalState(data []byte) (engine.State, error) {
	raw, err := engine.DecodeState(data, engine.GameTypeSolitaire)
	if err != nil {
		return nil, err
	}

	var dto stateDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Wrap(errors.CodeStateFormatInvalid, "decode solitaire state", err)
	}

	state := &State{
		Foundations: make(map[cards.Suit][]cards.Card, len(cards.Suits)),
		Ledger:      solo.Ledger{Events: dto.Score},
		MoveLog:     dto.MoveLog,
		Moves:       dto.Moves,
		DrawCount:   dto.DrawCount,
		Seed:        dto.Seed,
		BonusGiven:  dto.BonusGiven,
	}
	for col, column := range dto.Tableau {
		decoded := make([]TableauCard, len(column))
		for i, tc := range column {
			card, err := cards.Parse(tc.Card)
			if err != nil {
				return nil, errors.Wrap(errors.CodeStateFormatInvalid,
					fmt.Sprintf("decode tableau-%d card %q", col+1, tc.Card), err)
			}
			decoded[i] = TableauCard{Card: card, FaceUp: tc.Up}
		}
		state.Tableau[col] = decoded
	}
	for _, suit := range cards.Suits {
		pile, err := decodePile(dto.Foundations[string(suit)])
		if err != nil {
			return nil, err
		}
		state.Foundations[suit] = pile
	}
	if state.Stock, err = decodePile(dto.Stock); err != nil {
		return nil, err
	}
	if state.Waste, err = decodePile(dto.Waste); err != nil {
		return nil, err
	}

	if err := e.ValidateState(state); err != nil {
		return nil, err
	}
	return state, nil
}

func encodePile(pile []cards.Card) []string {
	encoded := make([]string, len(pile))
	for i, card := range pile {
		encoded[i] = card.String()
	}
	return encoded
}

func decodePile(codes []string) ([]cards.Card, error) {
	pile := make([]cards.Card, len(codes))
	for i, code := range codes {
		card, err := cards.Parse(code)
		if err != nil {
			return nil, errors.Wrap(errors.CodeStateFormatInvalid,
				fmt.Sprintf("decode card %q", code), err)
		}
		pile[i] = card
	}
	return pile, nil
}

// coerce type-checks the move and state pair.
func (e *Engine) coerce(move engine.Move, state engine.State) (Move, *State, *engine.Rejection) {
	soloMove, ok := move.(Move)
	if !ok {
		return Move{}, nil, reject(errors.CodeMoveTypeMismatch,
			"move is not a solitaire move", nil)
	}
	soloState, ok := state.(*State)
	if !ok {
		return Move{}, nil, reject(errors.CodeStateTypeMismatch,
			"state is not a solitaire state", nil)
	}
	return soloMove, soloState, nil
}

func isPlayer(players []engine.Player, userID string) bool {
	for _, player := range players {
		if player.UserID == userID {
			return true
		}
	}
	return false
}

func reject(code errors.Code, message string, metadata map[string]string) *engine.Rejection {
	return &engine.Rejection{Code: code, Message: message, Metadata: metadata}
}
