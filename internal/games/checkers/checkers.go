package checkers

import (
	"encoding/json"
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Engine implements engine.Plugin for checkers.
type Engine struct{}

// NewPlugin creates a checkers plugin instance.
func NewPlugin() *Engine { return &Engine{} }

// Factory is the registry factory for checkers.
func Factory() (engine.Plugin, error) { return NewPlugin(), nil }

// Descriptor implements engine.Plugin.
func (e *Engine) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Type:       engine.GameTypeCheckers,
		Name:       "Checkers",
		MinPlayers: 2,
		MaxPlayers: 2,
		Colors:     []string{string(BlackSide), string(RedSide)},
	}
}

// NewGame implements engine.Plugin.
func (e *Engine) NewGame(engine.Settings) (engine.State, error) {
	return newInitialState(), nil
}

// ParseMove implements engine.Plugin.
func (e *Engine) ParseMove(payload json.RawMessage) (engine.Move, error) {
	return parseMove(payload)
}

// ValidateMove implements engine.Plugin.
func (e *Engine) ValidateMove(move engine.Move, state engine.State, actorID string, players []engine.Player) engine.Validation {
	checkersMove, checkersState, rej := e.coerce(move, state)
	if rej != nil {
		return engine.Validation{Rejection: rej}
	}

	color, ok := playerColor(players, actorID)
	if !ok {
		return engine.Reject(errors.CodePlayerUnknown,
			fmt.Sprintf("player %s is not part of this game", actorID))
	}

	_, rej = examine(checkersState, checkersMove, color)
	if rej != nil {
		return engine.Validation{Rejection: rej}
	}
	return engine.Accept()
}

// ApplyMove implements engine.Plugin. It assumes the move already validated.
func (e *Engine) ApplyMove(move engine.Move, state engine.State, actorID string, players []engine.Player) (engine.State, error) {
	checkersMove, checkersState, rej := e.coerce(move, state)
	if rej != nil {
		return nil, rej.Err()
	}

	color, ok := playerColor(players, actorID)
	if !ok {
		return nil, errors.New(errors.CodePlayerUnknown,
			fmt.Sprintf("player %s is not part of this game", actorID))
	}

	captures, rej := examine(checkersState, checkersMove, color)
	if rej != nil {
		return nil, errors.Wrap(errors.CodePluginContractViolation,
			"applyMove invoked on a move that no longer validates: "+rej.Message, rej.Err())
	}

	next := checkersState.Clone().(*State)
	piece := next.At(checkersMove.From)
	next.set(checkersMove.From, Piece{})
	for _, square := range captures {
		next.set(square, Piece{})
	}
	if checkersMove.To.Row == color.crowningRow() {
		piece.King = true
	}
	next.set(checkersMove.To, piece)

	next.CapturedBy[color] += len(captures)
	next.MoveCount++
	next.Current = color.Opponent()
	return next, nil
}

// examine checks a move against the board and returns the capture squares
// the diagonal walk actually crosses.
func examine(state *State, move Move, color Color) ([]Square, *engine.Rejection) {
	for _, square := range []Square{move.From, move.To} {
		if !square.InBounds() || !square.Dark() {
			return nil, reject(errors.CodeCheckersInvalidSquare,
				square.String()+" is not a playable square",
				map[string]string{"square": square.String()})
		}
	}
	for _, square := range move.Captures {
		if !square.InBounds() {
			return nil, reject(errors.CodeCheckersInvalidSquare,
				square.String()+" is not a playable square",
				map[string]string{"square": square.String()})
		}
	}

	if state.Current != color {
		return nil, reject(errors.CodeCheckersNotYourTurn,
			fmt.Sprintf("it is %s's turn", state.Current),
			map[string]string{"current": string(state.Current)})
	}

	piece := state.At(move.From)
	if piece.Empty() {
		return nil, reject(errors.CodeCheckersEmptySource,
			"no piece on "+move.From.String(),
			map[string]string{"square": move.From.String()})
	}
	if piece.Color != color {
		return nil, reject(errors.CodeCheckersWrongColor,
			"the piece on "+move.From.String()+" is not yours",
			map[string]string{"square": move.From.String()})
	}
	if !state.At(move.To).Empty() {
		return nil, reject(errors.CodeCheckersDestinationOccupied,
			move.To.String()+" is already occupied",
			map[string]string{"square": move.To.String()})
	}

	dRow := move.To.Row - move.From.Row
	dCol := move.To.Col - move.From.Col
	if abs(dRow) != abs(dCol) || dRow == 0 {
		return nil, reject(errors.CodeCheckersNotDiagonal,
			fmt.Sprintf("%s to %s is not a diagonal move", move.From, move.To),
			map[string]string{"from": move.From.String(), "to": move.To.String()})
	}

	if !piece.King && sign(dRow) != color.forward() {
		return nil, reject(errors.CodeCheckersBackwardMove,
			fmt.Sprintf("a man cannot move backward from %s to %s", move.From, move.To),
			map[string]string{"from": move.From.String(), "to": move.To.String()})
	}

	// Single diagonal step: no captures possible.
	if abs(dRow) == 1 {
		if len(move.Captures) > 0 {
			return nil, reject(errors.CodeCheckersStepDeclaresCapture,
				"a single step cannot capture", nil)
		}
		return nil, nil
	}

	// Multi-square move: walk the straight diagonal and collect crossings.
	var crossed []Square
	stepRow, stepCol := sign(dRow), sign(dCol)
	current := Square{Col: move.From.Col + stepCol, Row: move.From.Row + stepRow}
	for current != move.To {
		between := state.At(current)
		if !between.Empty() {
			if between.Color == color {
				return nil, reject(errors.CodeCheckersSelfCapture,
					"your own piece on "+current.String()+" is in the way",
					map[string]string{"square": current.String()})
			}
			crossed = append(crossed, current)
		}
		current = Square{Col: current.Col + stepCol, Row: current.Row + stepRow}
	}

	if move.Infer {
		return crossed, nil
	}

	if len(move.Captures) != len(crossed) {
		return nil, reject(errors.CodeCheckersCaptureMismatch,
			fmt.Sprintf("the jump crosses %d opponent piece(s) but %d capture(s) were declared",
				len(crossed), len(move.Captures)),
			map[string]string{
				"actual":   fmt.Sprintf("%d", len(crossed)),
				"declared": fmt.Sprintf("%d", len(move.Captures)),
			})
	}
	for i, declared := range move.Captures {
		if declared != crossed[i] {
			return nil, reject(errors.CodeCheckersCaptureMismatch,
				fmt.Sprintf("declared capture %s does not match the piece crossed at %s",
					declared, crossed[i]),
				map[string]string{
					"actual":   fmt.Sprintf("%d", len(crossed)),
					"declared": fmt.Sprintf("%d", len(move.Captures)),
				})
		}
	}
	return crossed, nil
}

// IsComplete implements engine.Plugin: annihilation or stalemate.
func (e *Engine) IsComplete(state engine.State, _ []engine.Player) bool {
	checkersState, ok := state.(*State)
	if !ok {
		return false
	}
	if checkersState.count(BlackSide) == 0 || checkersState.count(RedSide) == 0 {
		return true
	}
	return !checkersState.hasLegalMove(checkersState.Current)
}

// Winner implements engine.Plugin: piece-count majority, or the mobile side
// on equal counts.
func (e *Engine) Winner(state engine.State, players []engine.Player) (string, bool) {
	checkersState, ok := state.(*State)
	if !ok {
		return "", false
	}
	if !e.IsComplete(state, players) {
		return "", false
	}

	black := checkersState.count(BlackSide)
	red := checkersState.count(RedSide)

	var winning Color
	switch {
	case black > red:
		winning = BlackSide
	case red > black:
		winning = RedSide
	case checkersState.hasLegalMove(BlackSide) && !checkersState.hasLegalMove(RedSide):
		winning = BlackSide
	case checkersState.hasLegalMove(RedSide) && !checkersState.hasLegalMove(BlackSide):
		winning = RedSide
	default:
		return "", false
	}

	for _, player := range players {
		if player.Color == string(winning) {
			return player.UserID, true
		}
	}
	return "", false
}

// NextPlayer implements engine.Plugin: the side to move recorded on the
// board decides, so the answer stays correct after deserialization.
func (e *Engine) NextPlayer(currentID string, players []engine.Player, state engine.State) (string, error) {
	checkersState, ok := state.(*State)
	if ok {
		for _, player := range players {
			if player.Color == string(checkersState.Current) {
				return player.UserID, nil
			}
		}
	}
	return alternate(currentID, players)
}

// AssignColor implements engine.Plugin: black first, then red.
func (e *Engine) AssignColor(taken []engine.Player) (string, error) {
	return assignFrom([]string{string(BlackSide), string(RedSide)}, taken)
}

// ValidateState implements engine.Plugin.
func (e *Engine) ValidateState(state engine.State) error {
	checkersState, ok := state.(*State)
	if !ok {
		return errors.New(errors.CodeStateTypeMismatch, "state is not a checkers state")
	}
	if checkersState.Current != BlackSide && checkersState.Current != RedSide {
		return errors.New(errors.CodeStateStructureInvalid,
			fmt.Sprintf("unknown side to move %q", checkersState.Current))
	}
	if checkersState.MoveCount < 0 {
		return errors.New(errors.CodeStateStructureInvalid, "move count is negative")
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			square := Square{Col: col, Row: row}
			if !checkersState.At(square).Empty() && !square.Dark() {
				return errors.New(errors.CodeStateStructureInvalid,
					"piece on light square "+square.String())
			}
		}
	}
	return nil
}

// Stats implements engine.Plugin.
func (e *Engine) Stats(state engine.State, players []engine.Player) (engine.Stats, error) {
	checkersState, ok := state.(*State)
	if !ok {
		return engine.Stats{}, errors.New(errors.CodeStateTypeMismatch, "state is not a checkers state")
	}

	winner, _ := e.Winner(state, players)
	return engine.Stats{
		MoveCount: checkersState.MoveCount,
		Complete:  e.IsComplete(state, players),
		Winner:    winner,
		Detail: map[string]string{
			"black_pieces":   fmt.Sprintf("%d", checkersState.count(BlackSide)),
			"red_pieces":     fmt.Sprintf("%d", checkersState.count(RedSide)),
			"black_captured": fmt.Sprintf("%d", checkersState.CapturedBy[BlackSide]),
			"red_captured":   fmt.Sprintf("%d", checkersState.CapturedBy[RedSide]),
			"to_move":        string(checkersState.Current),
		},
	}, nil
}

// RenderData implements engine.Plugin.
func (e *Engine) RenderData(state engine.State, _ []engine.Player, _ engine.RenderOptions) (engine.RenderData, error) {
	checkersState, ok := state.(*State)
	if !ok {
		return engine.RenderData{}, errors.New(errors.CodeStateTypeMismatch, "state is not a checkers state")
	}

	cells := make(map[string]string)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			square := Square{Col: col, Row: row}
			if piece := checkersState.At(square); !piece.Empty() {
				cells[square.String()] = piece.Code()
			}
		}
	}
	return engine.RenderData{
		GameType: engine.GameTypeCheckers,
		Cells:    cells,
		Labels: map[string]string{
			"to_move":    string(checkersState.Current),
			"move_count": fmt.Sprintf("%d", checkersState.MoveCount),
		},
	}, nil
}

// stateDTO is the serialized checkers state shape.
type stateDTO struct {
	Board      [8][8]string   `json:"board"`
	Current    Color          `json:"current"`
	MoveCount  int            `json:"move_count"`
	CapturedBy map[Color]int  `json:"captured_by"`
}

// MarshalState implements engine.Plugin.
func (e *Engine) MarshalState(state engine.State) ([]byte, error) {
	checkersState, ok := state.(*State)
	if !ok {
		return nil, errors.New(errors.CodeStateTypeMismatch, "state is not a checkers state")
	}

	dto := stateDTO{
		Current:    checkersState.Current,
		MoveCount:  checkersState.MoveCount,
		CapturedBy: checkersState.CapturedBy,
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			dto.Board[row][col] = checkersState.Board[row][col].Code()
		}
	}
	return engine.EncodeState(engine.GameTypeCheckers, dto)
}

// UnmarshalState implements engine.Plugin.
func (e *Engine) UnmarshalState(data []byte) (engine.State, error) {
	raw, err := engine.DecodeState(data, engine.GameTypeCheckers)
	if err != nil {
		return nil, err
	}

	var dto stateDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Wrap(errors.CodeStateFormatInvalid, "decode checkers state", err)
	}

	state := &State{
		Current:    dto.Current,
		MoveCount:  dto.MoveCount,
		CapturedBy: map[Color]int{BlackSide: 0, RedSide: 0},
	}
	for color, count := range dto.CapturedBy {
		state.CapturedBy[color] = count
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece, err := pieceFromCode(dto.Board[row][col])
			if err != nil {
				return nil, errors.Wrap(errors.CodeStateFormatInvalid,
					fmt.Sprintf("decode piece at %s", Square{Col: col, Row: row}), err)
			}
			state.Board[row][col] = piece
		}
	}

	if err := e.ValidateState(state); err != nil {
		return nil, err
	}
	return state, nil
}

func (e *Engine) coerce(move engine.Move, state engine.State) (Move, *State, *engine.Rejection) {
	checkersMove, ok := move.(Move)
	if !ok {
		return Move{}, nil, reject(errors.CodeMoveTypeMismatch, "move is not a checkers move", nil)
	}
	checkersState, ok := state.(*State)
	if !ok {
		return Move{}, nil, reject(errors.CodeStateTypeMismatch, "state is not a checkers state", nil)
	}
	return checkersMove, checkersState, nil
}

func reject(code errors.Code, message string, metadata map[string]string) *engine.Rejection {
	return &engine.Rejection{Code: code, Message: message, Metadata: metadata}
}

func playerColor(players []engine.Player, userID string) (Color, bool) {
	for _, player := range players {
		if player.UserID == userID {
			return Color(player.Color), true
		}
	}
	return "", false
}

func alternate(currentID string, players []engine.Player) (string, error) {
	if len(players) == 0 {
		return "", errors.New(errors.CodePlayerCountInvalid, "no players in game")
	}
	for i, player := range players {
		if player.UserID == currentID {
			return players[(i+1)%len(players)].UserID, nil
		}
	}
	return "", errors.New(errors.CodePlayerUnknown,
		fmt.Sprintf("player %s is not part of this game", currentID))
}

func assignFrom(colors []string, taken []engine.Player) (string, error) {
	used := make(map[string]bool, len(taken))
	for _, player := range taken {
		used[player.Color] = true
	}
	for _, color := range colors {
		if !used[color] {
			return color, nil
		}
	}
	return "", errors.New(errors.CodeColorsExhausted, "all colors are taken")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
