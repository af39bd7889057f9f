package chess

import (
	"encoding/json"
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Engine implements engine.Plugin for chess.
type Engine struct{}

// NewPlugin creates a chess plugin instance.
func NewPlugin() *Engine { return &Engine{} }

// Factory is the registry factory for chess.
func Factory() (engine.Plugin, error) { return NewPlugin(), nil }

// Descriptor implements engine.Plugin.
func (e *Engine) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Type:       engine.GameTypeChess,
		Name:       "Chess",
		MinPlayers: 2,
		MaxPlayers: 2,
		Colors:     []string{string(White), string(Black)},
	}
}

// NewGame implements engine.Plugin. Chess has no randomness; settings are
// accepted for contract uniformity.
func (e *Engine) NewGame(engine.Settings) (engine.State, error) {
	return newInitialState(), nil
}

// movePayload is the object form of a chess move.
type movePayload struct {
	Notation string `json:"notation"`
}

// ParseMove accepts a JSON string ("e2e4") or an object with a notation
// field.
func (e *Engine) ParseMove(payload json.RawMessage) (engine.Move, error) {
	var notation string
	if err := json.Unmarshal(payload, &notation); err != nil {
		var obj movePayload
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, errors.Wrap(errors.CodeMovePayloadMalformed,
				"chess move must be a notation string or {notation} object", err)
		}
		notation = obj.Notation
	}
	if notation == "" {
		return nil, errors.New(errors.CodeMovePayloadMalformed, "chess move notation is empty")
	}
	return Move{Notation: notation}, nil
}

// ValidateMove implements engine.Plugin. It is pure: the state is never
// touched beyond reads.
func (e *Engine) ValidateMove(move engine.Move, state engine.State, actorID string, players []engine.Player) engine.Validation {
	chessMove, chessState, rej := e.coerce(move, state)
	if rej != nil {
		return engine.Validation{Rejection: rej}
	}

	color, ok := playerColor(players, actorID)
	if !ok {
		return engine.Reject(errors.CodePlayerUnknown,
			fmt.Sprintf("player %s is not part of this game", actorID))
	}

	_, _, rej = resolve(chessState, chessMove.Notation, color)
	if rej != nil {
		return engine.Validation{Rejection: rej}
	}
	return engine.Accept()
}

// ApplyMove implements engine.Plugin. It assumes the move already validated;
// any inconsistency found here propagates as a contract violation.
func (e *Engine) ApplyMove(move engine.Move, state engine.State, actorID string, players []engine.Player) (engine.State, error) {
	chessMove, chessState, rej := e.coerce(move, state)
	if rej != nil {
		return nil, rej.Err()
	}

	color, ok := playerColor(players, actorID)
	if !ok {
		return nil, errors.New(errors.CodePlayerUnknown,
			fmt.Sprintf("player %s is not part of this game", actorID))
	}

	from, parsed, rej := resolve(chessState, chessMove.Notation, color)
	if rej != nil {
		return nil, errors.Wrap(errors.CodePluginContractViolation,
			"applyMove invoked on a move that no longer validates: "+rej.Message, rej.Err())
	}

	next := chessState.Clone().(*State)
	piece := next.At(from)
	captured := !next.At(parsed.To).Empty()

	next.set(from, Piece{})
	next.set(parsed.To, piece)

	// En-passant target survives only the double push that creates it.
	next.EnPassant = nil
	if piece.Kind == Pawn && abs(parsed.To.Rank-from.Rank) == 2 {
		target := Square{File: from.File, Rank: (from.Rank + parsed.To.Rank) / 2}
		next.EnPassant = &target
	}

	next.updateCastlingRights(piece, from)

	if piece.Kind == Pawn || captured {
		next.HalfMove = 0
	} else {
		next.HalfMove++
	}
	next.FullMove++

	return next, nil
}

// resolve interprets notation against the board and returns the source
// square of the moving piece.
func resolve(state *State, notation string, color Color) (Square, parsedMove, *engine.Rejection) {
	parsed, rej := parseNotation(notation)
	if rej != nil {
		return Square{}, parsedMove{}, rej
	}

	if parsed.Coordinate {
		from := parsed.From
		piece := state.At(from)
		if piece.Empty() {
			return Square{}, parsedMove{}, rejection(errors.CodeChessEmptySource,
				"no piece on "+from.String(), map[string]string{"square": from.String()})
		}
		if piece.Color != color {
			return Square{}, parsedMove{}, rejection(errors.CodeChessWrongColor,
				"the piece on "+from.String()+" is not yours",
				map[string]string{"square": from.String()})
		}
		if rej := destinationCheck(state, color, parsed.To); rej != nil {
			return Square{}, parsedMove{}, rej
		}
		if rej := state.checkReach(piece, from, parsed.To); rej != nil {
			return Square{}, parsedMove{}, rej
		}
		return from, parsed, nil
	}

	if rej := destinationCheck(state, color, parsed.To); rej != nil {
		return Square{}, parsedMove{}, rej
	}

	// The x marker must name an actual capture. Pawn captures are already
	// pinned geometrically, so only piece moves need the occupancy check.
	if parsed.Capture && parsed.Piece != Pawn && state.At(parsed.To).Empty() {
		return Square{}, parsedMove{}, rejection(errors.CodeChessCaptureDeclared,
			"the move declares a capture but "+parsed.To.String()+" is empty",
			map[string]string{"square": parsed.To.String()})
	}

	candidates := state.findCandidates(color, parsed.Piece, parsed.To, parsed.FileHint, parsed.RankHint)
	switch len(candidates) {
	case 0:
		return Square{}, parsedMove{}, rejection(errors.CodeChessNoCandidate,
			fmt.Sprintf("no %s can reach %s", kindNames[parsed.Piece], parsed.To),
			map[string]string{"piece": kindNames[parsed.Piece], "square": parsed.To.String()})
	case 1:
		return candidates[0], parsed, nil
	default:
		return Square{}, parsedMove{}, rejection(errors.CodeChessAmbiguousMove,
			fmt.Sprintf("more than one %s can reach %s, add a file or rank hint",
				kindNames[parsed.Piece], parsed.To),
			map[string]string{"piece": kindNames[parsed.Piece], "square": parsed.To.String()})
	}
}

// destinationCheck rejects moves onto a square held by the mover's own side.
func destinationCheck(state *State, color Color, to Square) *engine.Rejection {
	target := state.At(to)
	if !target.Empty() && target.Color == color {
		return rejection(errors.CodeChessDestinationOccupied,
			"your own piece already occupies "+to.String(),
			map[string]string{"square": to.String()})
	}
	return nil
}

// checkReach distinguishes an impossible shape from a blocked line so the
// rejection names what actually went wrong.
func (s *State) checkReach(piece Piece, from, to Square) *engine.Rejection {
	dFile := to.File - from.File
	dRank := to.Rank - from.Rank

	shapeOK := true
	slider := false
	switch piece.Kind {
	case Rook:
		slider = true
		shapeOK = dFile == 0 || dRank == 0
	case Bishop:
		slider = true
		shapeOK = abs(dFile) == abs(dRank)
	case Queen:
		slider = true
		shapeOK = dFile == 0 || dRank == 0 || abs(dFile) == abs(dRank)
	default:
		shapeOK = s.canReach(piece, from, to)
	}

	if !shapeOK {
		return rejection(errors.CodeChessIllegalPattern,
			fmt.Sprintf("a %s cannot move from %s to %s", kindNames[piece.Kind], from, to),
			map[string]string{"piece": kindNames[piece.Kind], "from": from.String(), "to": to.String()})
	}
	if slider && !s.pathClear(from, to) {
		blocked := firstBlocked(s, from, to)
		return rejection(errors.CodeChessBlockedPath,
			fmt.Sprintf("the path to %s is blocked at %s", to, blocked),
			map[string]string{"square": to.String(), "blocked": blocked.String()})
	}
	return nil
}

func firstBlocked(s *State, from, to Square) Square {
	stepFile := sign(to.File - from.File)
	stepRank := sign(to.Rank - from.Rank)
	current := Square{File: from.File + stepFile, Rank: from.Rank + stepRank}
	for current != to {
		if !s.At(current).Empty() {
			return current
		}
		current = Square{File: current.File + stepFile, Rank: current.Rank + stepRank}
	}
	return to
}

// updateCastlingRights clears rights when the king or a rook leaves its
// starting square.
func (s *State) updateCastlingRights(piece Piece, from Square) {
	switch {
	case piece.Kind == King && piece.Color == White:
		s.Castling.WhiteKingside = false
		s.Castling.WhiteQueenside = false
	case piece.Kind == King && piece.Color == Black:
		s.Castling.BlackKingside = false
		s.Castling.BlackQueenside = false
	case piece.Kind == Rook && from == Square{File: 0, Rank: 0}:
		s.Castling.WhiteQueenside = false
	case piece.Kind == Rook && from == Square{File: 7, Rank: 0}:
		s.Castling.WhiteKingside = false
	case piece.Kind == Rook && from == Square{File: 0, Rank: 7}:
		s.Castling.BlackQueenside = false
	case piece.Kind == Rook && from == Square{File: 7, Rank: 7}:
		s.Castling.BlackKingside = false
	}
}

// IsComplete implements engine.Plugin: the game ends when a king is gone.
func (e *Engine) IsComplete(state engine.State, _ []engine.Player) bool {
	chessState, ok := state.(*State)
	if !ok {
		return false
	}
	_, whiteAlive := chessState.findKing(White)
	_, blackAlive := chessState.findKing(Black)
	return !whiteAlive || !blackAlive
}

// Winner implements engine.Plugin: the side whose king survives.
func (e *Engine) Winner(state engine.State, players []engine.Player) (string, bool) {
	chessState, ok := state.(*State)
	if !ok {
		return "", false
	}
	_, whiteAlive := chessState.findKing(White)
	_, blackAlive := chessState.findKing(Black)

	var winning Color
	switch {
	case whiteAlive && !blackAlive:
		winning = White
	case blackAlive && !whiteAlive:
		winning = Black
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

// NextPlayer implements engine.Plugin with simple turn alternation.
func (e *Engine) NextPlayer(currentID string, players []engine.Player, _ engine.State) (string, error) {
	return alternate(currentID, players)
}

// AssignColor implements engine.Plugin: white first, then black.
func (e *Engine) AssignColor(taken []engine.Player) (string, error) {
	return assignFrom([]string{string(White), string(Black)}, taken)
}

// ValidateState implements engine.Plugin with structural checks run after
// deserialization.
func (e *Engine) ValidateState(state engine.State) error {
	chessState, ok := state.(*State)
	if !ok {
		return errors.New(errors.CodeStateTypeMismatch, "state is not a chess state")
	}
	if chessState.FullMove < 1 {
		return errors.New(errors.CodeStateStructureInvalid,
			fmt.Sprintf("full-move counter %d must be at least 1", chessState.FullMove))
	}
	if chessState.HalfMove < 0 {
		return errors.New(errors.CodeStateStructureInvalid, "half-move clock is negative")
	}
	if chessState.EnPassant != nil && !chessState.EnPassant.InBounds() {
		return errors.New(errors.CodeStateStructureInvalid,
			"en-passant target is off the board")
	}
	for _, color := range []Color{White, Black} {
		kings := 0
		for rank := 0; rank < 8; rank++ {
			for file := 0; file < 8; file++ {
				piece := chessState.Board[rank][file]
				if piece.Kind == King && piece.Color == color {
					kings++
				}
			}
		}
		if kings > 1 {
			return errors.New(errors.CodeStateStructureInvalid,
				fmt.Sprintf("%s has %d kings", color, kings))
		}
	}
	return nil
}

// Stats implements engine.Plugin.
func (e *Engine) Stats(state engine.State, players []engine.Player) (engine.Stats, error) {
	chessState, ok := state.(*State)
	if !ok {
		return engine.Stats{}, errors.New(errors.CodeStateTypeMismatch, "state is not a chess state")
	}

	counts := map[Color]int{}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := chessState.Board[rank][file]
			if !piece.Empty() {
				counts[piece.Color]++
			}
		}
	}

	winner, _ := e.Winner(state, players)
	return engine.Stats{
		MoveCount: chessState.FullMove - 1,
		Complete:  e.IsComplete(state, players),
		Winner:    winner,
		Detail: map[string]string{
			"white_pieces":    fmt.Sprintf("%d", counts[White]),
			"black_pieces":    fmt.Sprintf("%d", counts[Black]),
			"half_move_clock": fmt.Sprintf("%d", chessState.HalfMove),
		},
	}, nil
}

// RenderData implements engine.Plugin with a symbolic cell projection.
func (e *Engine) RenderData(state engine.State, _ []engine.Player, _ engine.RenderOptions) (engine.RenderData, error) {
	chessState, ok := state.(*State)
	if !ok {
		return engine.RenderData{}, errors.New(errors.CodeStateTypeMismatch, "state is not a chess state")
	}

	cells := make(map[string]string)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := chessState.Board[rank][file]
			if !piece.Empty() {
				cells[Square{File: file, Rank: rank}.String()] = piece.Code()
			}
		}
	}

	labels := map[string]string{
		"full_move": fmt.Sprintf("%d", chessState.FullMove),
	}
	if chessState.EnPassant != nil {
		labels["en_passant"] = chessState.EnPassant.String()
	}

	return engine.RenderData{
		GameType: engine.GameTypeChess,
		Cells:    cells,
		Labels:   labels,
	}, nil
}

// stateDTO is the serialized chess state shape.
type stateDTO struct {
	Board     [8][8]string   `json:"board"`
	Castling  CastlingRights `json:"castling"`
	EnPassant string         `json:"en_passant,omitempty"`
	HalfMove  int            `json:"half_move"`
	FullMove  int            `json:"full_move"`
}

// MarshalState implements engine.Plugin.
func (e *Engine) MarshalState(state engine.State) ([]byte, error) {
	chessState, ok := state.(*State)
	if !ok {
		return nil, errors.New(errors.CodeStateTypeMismatch, "state is not a chess state")
	}

	dto := stateDTO{
		Castling: chessState.Castling,
		HalfMove: chessState.HalfMove,
		FullMove: chessState.FullMove,
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			dto.Board[rank][file] = chessState.Board[rank][file].Code()
		}
	}
	if chessState.EnPassant != nil {
		dto.EnPassant = chessState.EnPassant.String()
	}

	return engine.EncodeState(engine.GameTypeChess, dto)
}

// UnmarshalState implements engine.Plugin.
func (e *Engine) UnmarshalState(data []byte) (engine.State, error) {
	raw, err := engine.DecodeState(data, engine.GameTypeChess)
	if err != nil {
		return nil, err
	}

	var dto stateDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Wrap(errors.CodeStateFormatInvalid, "decode chess state", err)
	}

	state := &State{
		Castling: dto.Castling,
		HalfMove: dto.HalfMove,
		FullMove: dto.FullMove,
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece, err := pieceFromCode(dto.Board[rank][file])
			if err != nil {
				return nil, errors.Wrap(errors.CodeStateFormatInvalid,
					fmt.Sprintf("decode piece at %s", Square{File: file, Rank: rank}), err)
			}
			state.Board[rank][file] = piece
		}
	}
	if dto.EnPassant != "" {
		square, ok := parseSquare(dto.EnPassant)
		if !ok {
			return nil, errors.New(errors.CodeStateFormatInvalid,
				fmt.Sprintf("invalid en-passant square %q", dto.EnPassant))
		}
		state.EnPassant = &square
	}

	if err := e.ValidateState(state); err != nil {
		return nil, err
	}
	return state, nil
}

// coerce type-checks the move and state pair.
func (e *Engine) coerce(move engine.Move, state engine.State) (Move, *State, *engine.Rejection) {
	chessMove, ok := move.(Move)
	if !ok {
		return Move{}, nil, rejection(errors.CodeMoveTypeMismatch,
			"move is not a chess move", nil)
	}
	chessState, ok := state.(*State)
	if !ok {
		return Move{}, nil, rejection(errors.CodeStateTypeMismatch,
			"state is not a chess state", nil)
	}
	return chessMove, chessState, nil
}

// playerColor finds the acting player's color.
func playerColor(players []engine.Player, userID string) (Color, bool) {
	for _, player := range players {
		if player.UserID == userID {
			return Color(player.Color), true
		}
	}
	return "", false
}

// alternate returns the player following currentID in turn order.
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

// assignFrom picks the first color not yet taken.
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
