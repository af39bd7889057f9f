package chess

import (
	"encoding/json"
	"testing"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

var testPlayers = []engine.Player{
	{UserID: "alice", Color: string(White), Order: 0},
	{UserID: "bob", Color: string(Black), Order: 1},
}

func newTestGame(t *testing.T) (*Engine, *State) {
	t.Helper()
	plugin := NewPlugin()
	state, err := plugin.NewGame(engine.Settings{})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return plugin, state.(*State)
}

func mustParse(t *testing.T, plugin *Engine, notation string) engine.Move {
	t.Helper()
	move, err := plugin.ParseMove(json.RawMessage(`"` + notation + `"`))
	if err != nil {
		t.Fatalf("parse %q: %v", notation, err)
	}
	return move
}

func applyOK(t *testing.T, plugin *Engine, state *State, actor, notation string) *State {
	t.Helper()
	move := mustParse(t, plugin, notation)
	validation := plugin.ValidateMove(move, state, actor, testPlayers)
	if !validation.Valid {
		t.Fatalf("validate %q: %s", notation, validation.Rejection.Message)
	}
	next, err := plugin.ApplyMove(move, state, actor, testPlayers)
	if err != nil {
		t.Fatalf("apply %q: %v", notation, err)
	}
	return next.(*State)
}

func TestInitialBoardSetup(t *testing.T) {
	_, state := newTestGame(t)

	e1, _ := parseSquare("e1")
	if got := state.At(e1); got != (Piece{Color: White, Kind: King}) {
		t.Fatalf("e1 = %v, want white king", got)
	}
	d8, _ := parseSquare("d8")
	if got := state.At(d8); got != (Piece{Color: Black, Kind: Queen}) {
		t.Fatalf("d8 = %v, want black queen", got)
	}
	if state.FullMove != 1 {
		t.Fatalf("full move = %d, want 1", state.FullMove)
	}
	if !state.Castling.WhiteKingside || !state.Castling.BlackQueenside {
		t.Fatal("castling rights should start available")
	}
}

func TestCoordinatePawnPush(t *testing.T) {
	plugin, state := newTestGame(t)

	next := applyOK(t, plugin, state, "alice", "e2-e4")

	e2, _ := parseSquare("e2")
	e4, _ := parseSquare("e4")
	if !next.At(e2).Empty() {
		t.Fatal("e2 should be empty after the push")
	}
	if got := next.At(e4); got != (Piece{Color: White, Kind: Pawn}) {
		t.Fatalf("e4 = %v, want white pawn", got)
	}
	if next.FullMove != 2 {
		t.Fatalf("full move = %d, want 2", next.FullMove)
	}
	if next.EnPassant == nil || next.EnPassant.String() != "e3" {
		t.Fatalf("en passant = %v, want e3", next.EnPassant)
	}

	// The original state is untouched.
	if state.At(e2).Empty() {
		t.Fatal("ApplyMove mutated the input state")
	}
}

func TestEnPassantTargetClearedByNextMove(t *testing.T) {
	plugin, state := newTestGame(t)
	state = applyOK(t, plugin, state, "alice", "e2e4")
	state = applyOK(t, plugin, state, "bob", "Nf6")
	if state.EnPassant != nil {
		t.Fatalf("en passant = %v, want cleared", state.EnPassant)
	}
}

func TestValidateRejections(t *testing.T) {
	plugin, state := newTestGame(t)

	tcs := []struct {
		name     string
		notation string
		actor    string
		code     errors.Code
	}{
		{"malformed notation", "zz9", "alice", errors.CodeChessInvalidNotation},
		{"castling unsupported", "O-O", "alice", errors.CodeChessUnsupportedNotation},
		{"empty source", "e4-e5", "alice", errors.CodeChessEmptySource},
		{"wrong color", "e7-e5", "alice", errors.CodeChessWrongColor},
		{"own piece on destination", "a1-a2", "alice", errors.CodeChessDestinationOccupied},
		{"rook blocked", "a1-a5", "alice", errors.CodeChessBlockedPath},
		{"illegal knight pattern", "g1-g3", "alice", errors.CodeChessIllegalPattern},
		{"no candidate", "Ne5", "alice", errors.CodeChessNoCandidate},
		{"pawn triple step", "e2-e5", "alice", errors.CodeChessIllegalPattern},
		{"capture marker on empty square", "Nxf3", "alice", errors.CodeChessCaptureDeclared},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			move := mustParse(t, plugin, tc.notation)
			validation := plugin.ValidateMove(move, state, tc.actor, testPlayers)
			if validation.Valid {
				t.Fatalf("expected rejection for %q", tc.notation)
			}
			if validation.Rejection.Code != tc.code {
				t.Fatalf("code = %v, want %v (%s)", validation.Rejection.Code, tc.code, validation.Rejection.Message)
			}
		})
	}
}

func TestValidateMoveDoesNotMutateState(t *testing.T) {
	plugin, state := newTestGame(t)
	before, err := plugin.MarshalState(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	move := mustParse(t, plugin, "e2e4")
	plugin.ValidateMove(move, state, "alice", testPlayers)

	after, err := plugin.MarshalState(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("ValidateMove mutated the state")
	}
}

func TestAlgebraicKnightMove(t *testing.T) {
	plugin, state := newTestGame(t)

	next := applyOK(t, plugin, state, "alice", "Nf3")
	f3, _ := parseSquare("f3")
	if got := next.At(f3); got != (Piece{Color: White, Kind: Knight}) {
		t.Fatalf("f3 = %v, want white knight", got)
	}
	g1, _ := parseSquare("g1")
	if !next.At(g1).Empty() {
		t.Fatal("g1 should be empty")
	}
}

func TestAlgebraicDisambiguation(t *testing.T) {
	plugin, _ := newTestGame(t)

	// Knights on b1 and f3 both reach the empty d2 square.
	state := &State{FullMove: 5}
	for square, piece := range map[string]Piece{
		"b1": {Color: White, Kind: Knight},
		"f3": {Color: White, Kind: Knight},
		"a1": {Color: White, Kind: King},
		"h8": {Color: Black, Kind: King},
	} {
		parsed, _ := parseSquare(square)
		state.set(parsed, piece)
	}

	move := mustParse(t, plugin, "Nd2")
	validation := plugin.ValidateMove(move, state, "alice", testPlayers)
	if validation.Valid {
		t.Fatal("expected ambiguity rejection")
	}
	if validation.Rejection.Code != errors.CodeChessAmbiguousMove {
		t.Fatalf("code = %v, want ambiguous", validation.Rejection.Code)
	}

	next := applyOK(t, plugin, state, "alice", "Nbd2")
	d2, _ := parseSquare("d2")
	if got := next.At(d2); got != (Piece{Color: White, Kind: Knight}) {
		t.Fatalf("d2 = %v, want white knight", got)
	}
	b1, _ := parseSquare("b1")
	if !next.At(b1).Empty() {
		t.Fatal("hinted knight should have left b1")
	}
}

func TestAlgebraicPawnCapture(t *testing.T) {
	plugin, state := newTestGame(t)
	state = applyOK(t, plugin, state, "alice", "e2e4")
	state = applyOK(t, plugin, state, "bob", "d7d5")

	next := applyOK(t, plugin, state, "alice", "exd5")
	d5, _ := parseSquare("d5")
	if got := next.At(d5); got != (Piece{Color: White, Kind: Pawn}) {
		t.Fatalf("d5 = %v, want white pawn", got)
	}
	e4, _ := parseSquare("e4")
	if !next.At(e4).Empty() {
		t.Fatal("e4 should be empty after the capture")
	}
	if next.HalfMove != 0 {
		t.Fatalf("half move = %d, want 0 after capture", next.HalfMove)
	}
}

func TestCaptureMarkerOnOccupiedSquareAccepted(t *testing.T) {
	plugin, state := newTestGame(t)
	state = applyOK(t, plugin, state, "alice", "e2e4")
	state = applyOK(t, plugin, state, "bob", "d7d5")
	state = applyOK(t, plugin, state, "alice", "exd5")

	next := applyOK(t, plugin, state, "bob", "Qxd5")
	d5, _ := parseSquare("d5")
	if got := next.At(d5); got != (Piece{Color: Black, Kind: Queen}) {
		t.Fatalf("d5 = %v, want black queen", got)
	}
}

func TestPromotionSuffixParsesButDoesNotPromote(t *testing.T) {
	plugin, _ := newTestGame(t)

	state := &State{FullMove: 10}
	a7, _ := parseSquare("a7")
	e1, _ := parseSquare("e1")
	e8, _ := parseSquare("e8")
	state.set(a7, Piece{Color: White, Kind: Pawn})
	state.set(e1, Piece{Color: White, Kind: King})
	state.set(e8, Piece{Color: Black, Kind: King})

	next := applyOK(t, plugin, state, "alice", "a8=Q")
	a8, _ := parseSquare("a8")
	if got := next.At(a8); got != (Piece{Color: White, Kind: Pawn}) {
		t.Fatalf("a8 = %v, want unpromoted white pawn", got)
	}
}

func TestCompletionByKingCapture(t *testing.T) {
	plugin, _ := newTestGame(t)

	state := &State{FullMove: 20}
	d4, _ := parseSquare("d4")
	e5, _ := parseSquare("e5")
	a1, _ := parseSquare("a1")
	state.set(d4, Piece{Color: White, Kind: Queen})
	state.set(e5, Piece{Color: Black, Kind: King})
	state.set(a1, Piece{Color: White, Kind: King})

	if plugin.IsComplete(state, testPlayers) {
		t.Fatal("game should not be complete with both kings alive")
	}

	next := applyOK(t, plugin, state, "alice", "d4-e5")
	if !plugin.IsComplete(next, testPlayers) {
		t.Fatal("game should be complete after king capture")
	}
	winner, ok := plugin.Winner(next, testPlayers)
	if !ok || winner != "alice" {
		t.Fatalf("winner = %q/%v, want alice", winner, ok)
	}
}

func TestNextPlayerAlternates(t *testing.T) {
	plugin, state := newTestGame(t)

	next, err := plugin.NextPlayer("alice", testPlayers, state)
	if err != nil {
		t.Fatalf("next player: %v", err)
	}
	if next != "bob" {
		t.Fatalf("next = %q, want bob", next)
	}
	next, err = plugin.NextPlayer("bob", testPlayers, state)
	if err != nil {
		t.Fatalf("next player: %v", err)
	}
	if next != "alice" {
		t.Fatalf("next = %q, want alice", next)
	}
}

func TestAssignColor(t *testing.T) {
	plugin, _ := newTestGame(t)

	color, err := plugin.AssignColor(nil)
	if err != nil || color != string(White) {
		t.Fatalf("first color = %q/%v, want white", color, err)
	}
	color, err = plugin.AssignColor(testPlayers[:1])
	if err != nil || color != string(Black) {
		t.Fatalf("second color = %q/%v, want black", color, err)
	}
	_, err = plugin.AssignColor(testPlayers)
	if errors.CodeOf(err) != errors.CodeColorsExhausted {
		t.Fatalf("code = %v, want colors exhausted", errors.CodeOf(err))
	}
}

func TestStateSerializationRoundTrip(t *testing.T) {
	plugin, state := newTestGame(t)
	state = applyOK(t, plugin, state, "alice", "e2e4")
	state = applyOK(t, plugin, state, "bob", "Nf6")

	data, err := plugin.MarshalState(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored, err := plugin.UnmarshalState(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	again, err := plugin.MarshalState(restored)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if string(data) != string(again) {
		t.Fatalf("round trip diverged:\n%s\n%s", data, again)
	}
}

func TestUnmarshalRejectsCorruptState(t *testing.T) {
	plugin, _ := newTestGame(t)

	tcs := []struct {
		name string
		data string
	}{
		{"not json", "{{"},
		{"wrong game type", `{"game_type":"checkers","version":1,"state":{}}`},
		{"wrong version", `{"game_type":"chess","version":9,"state":{}}`},
		{"missing payload", `{"game_type":"chess","version":1}`},
		{"bad piece code", `{"game_type":"chess","version":1,"state":{"board":[["xX","","","","","","",""],["","","","","","","",""],["","","","","","","",""],["","","","","","","",""],["","","","","","","",""],["","","","","","","",""],["","","","","","","",""],["","","","","","","",""]],"full_move":1}}`},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := plugin.UnmarshalState([]byte(tc.data))
			code := errors.CodeOf(err)
			if code != errors.CodeStateFormatInvalid && code != errors.CodeStateStructureInvalid {
				t.Fatalf("code = %v, want state format/structure invalid", code)
			}
		})
	}
}

func TestParseMoveAcceptsObjectForm(t *testing.T) {
	plugin, _ := newTestGame(t)
	move, err := plugin.ParseMove(json.RawMessage(`{"notation":"e2e4"}`))
	if err != nil {
		t.Fatalf("parse object form: %v", err)
	}
	if move.String() != "e2e4" {
		t.Fatalf("notation = %q, want e2e4", move.String())
	}

	_, err = plugin.ParseMove(json.RawMessage(`42`))
	if errors.CodeOf(err) != errors.CodeMovePayloadMalformed {
		t.Fatalf("code = %v, want payload malformed", errors.CodeOf(err))
	}
}

func TestStatsAndRenderData(t *testing.T) {
	plugin, state := newTestGame(t)
	state = applyOK(t, plugin, state, "alice", "e2e4")

	stats, err := plugin.Stats(state, testPlayers)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.MoveCount != 1 {
		t.Fatalf("move count = %d, want 1", stats.MoveCount)
	}
	if stats.Complete {
		t.Fatal("game should not be complete")
	}
	if stats.Detail["white_pieces"] != "16" {
		t.Fatalf("white pieces = %s, want 16", stats.Detail["white_pieces"])
	}

	render, err := plugin.RenderData(state, testPlayers, engine.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if render.Cells["e4"] != "wP" {
		t.Fatalf("e4 cell = %q, want wP", render.Cells["e4"])
	}
	if render.Cells["e8"] != "bK" {
		t.Fatalf("e8 cell = %q, want bK", render.Cells["e8"])
	}
}
