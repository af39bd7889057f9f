package engine

import "encoding/json"

// GameType identifies a registered rule engine.
type GameType string

// Built-in game types.
const (
	GameTypeChess     GameType = "chess"
	GameTypeCheckers  GameType = "checkers"
	GameTypeSolitaire GameType = "solitaire"
)

// Player describes a participant in a game.
type Player struct {
	UserID string `json:"user_id"`
	Color  string `json:"color"`
	Order  int    `json:"order"`
}

// Settings configures a new game.
type Settings struct {
	// Seed makes the initial deal deterministic. Nil draws a crypto seed.
	Seed *int64 `json:"seed,omitempty"`
	// DrawCount is the solitaire stock draw size. Zero means the game default.
	DrawCount int `json:"draw_count,omitempty"`
}

// Descriptor is the static metadata a plugin declares at registration.
type Descriptor struct {
	Type       GameType
	Name       string
	MinPlayers int
	MaxPlayers int
	Colors     []string
}

// State is an opaque per-game board state. Values are never mutated by the
// engine after being returned; ApplyMove clones before writing.
type State interface {
	Game() GameType
	Clone() State
}

// Move is a parsed, well-formed move for one game type.
type Move interface {
	Game() GameType
	String() string
}

// Stats is a read-only summary of a game in progress.
type Stats struct {
	MoveCount int               `json:"move_count"`
	Score     int               `json:"score,omitempty"`
	Complete  bool              `json:"complete"`
	Winner    string            `json:"winner,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// RenderOptions controls the read-only render projection.
type RenderOptions struct {
	// Perspective is the user id the projection is prepared for.
	Perspective string
	// RevealHidden includes face-down card identities in the projection.
	RevealHidden bool
}

// RenderData is the projection a board renderer consumes. The engine never
// produces pixels; cells and piles hold symbolic identifiers.
type RenderData struct {
	GameType GameType            `json:"game_type"`
	Cells    map[string]string   `json:"cells,omitempty"`
	Piles    map[string][]string `json:"piles,omitempty"`
	Labels   map[string]string   `json:"labels,omitempty"`
}

// Plugin is the complete operation set a game-type implementation must
// provide to be accepted by the registry.
type Plugin interface {
	// Descriptor returns the plugin's static metadata.
	Descriptor() Descriptor

	// NewGame creates the initial board state.
	NewGame(settings Settings) (State, error)

	// ParseMove decodes a transport payload into a well-formed move.
	// Malformed payloads fail with a structural error.
	ParseMove(payload json.RawMessage) (Move, error)

	// ValidateMove checks a move against the current state. It is pure:
	// it never mutates state and never errors for rule rejections.
	ValidateMove(move Move, state State, actorID string, players []Player) Validation

	// ApplyMove returns the successor state for a validated move. It is
	// only ever invoked after ValidateMove accepted the same inputs; any
	// inconsistency it encounters is a contract violation and propagates.
	ApplyMove(move Move, state State, actorID string, players []Player) (State, error)

	// IsComplete reports whether the game has ended.
	IsComplete(state State, players []Player) bool

	// Winner returns the winning user id, when there is one.
	Winner(state State, players []Player) (string, bool)

	// NextPlayer returns the user id that acts after currentID.
	NextPlayer(currentID string, players []Player, state State) (string, error)

	// AssignColor picks a color for a joining player given those taken.
	AssignColor(taken []Player) (string, error)

	// ValidateState is a defensive structural check run after
	// deserialization.
	ValidateState(state State) error

	// Stats summarizes the game for the host.
	Stats(state State, players []Player) (Stats, error)

	// RenderData projects the state for a board renderer.
	RenderData(state State, players []Player, opts RenderOptions) (RenderData, error)

	// MarshalState serializes the state for persistence.
	MarshalState(state State) ([]byte, error)

	// UnmarshalState restores a state serialized by MarshalState.
	// Corrupt input fails with a state-format error.
	UnmarshalState(data []byte) (State, error)
}
