package engine

import (
	"encoding/json"
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Candidate assembles a plugin from individual operation functions. It is
// the registration path for dynamically composed implementations: Build
// structurally checks that every required operation is present before the
// result is allowed near a registry.
type Candidate struct {
	Meta Descriptor

	NewGame        func(settings Settings) (State, error)
	ParseMove      func(payload json.RawMessage) (Move, error)
	ValidateMove   func(move Move, state State, actorID string, players []Player) Validation
	ApplyMove      func(move Move, state State, actorID string, players []Player) (State, error)
	IsComplete     func(state State, players []Player) bool
	Winner         func(state State, players []Player) (string, bool)
	NextPlayer     func(currentID string, players []Player, state State) (string, error)
	AssignColor    func(taken []Player) (string, error)
	ValidateState  func(state State) error
	Stats          func(state State, players []Player) (Stats, error)
	RenderData     func(state State, players []Player, opts RenderOptions) (RenderData, error)
	MarshalState   func(state State) ([]byte, error)
	UnmarshalState func(data []byte) (State, error)
}

// Build checks the candidate exposes every required operation and returns a
// plugin over it. A missing operation fails with a contract violation naming
// the first absent capability.
func (c Candidate) Build() (Plugin, error) {
	checks := []struct {
		name    string
		present bool
	}{
		{"newGame", c.NewGame != nil},
		{"parseMove", c.ParseMove != nil},
		{"validateMove", c.ValidateMove != nil},
		{"applyMove", c.ApplyMove != nil},
		{"isGameComplete", c.IsComplete != nil},
		{"getWinner", c.Winner != nil},
		{"getNextPlayer", c.NextPlayer != nil},
		{"assignPlayerColor", c.AssignColor != nil},
		{"validateBoardState", c.ValidateState != nil},
		{"getGameStats", c.Stats != nil},
		{"getRenderData", c.RenderData != nil},
		{"serializeBoardState", c.MarshalState != nil},
		{"deserializeBoardState", c.UnmarshalState != nil},
	}
	for _, check := range checks {
		if !check.present {
			return nil, errors.WithMetadata(errors.CodePluginContractViolation,
				fmt.Sprintf("plugin %s: missing required operation %q", c.Meta.Type, check.name),
				map[string]string{
					"game_type": string(c.Meta.Type),
					"operation": check.name,
				})
		}
	}
	return candidatePlugin{c}, nil
}

// Factory returns a registry factory that rebuilds the candidate on every
// instantiation.
func (c Candidate) Factory() Factory {
	return func() (Plugin, error) { return c.Build() }
}

// candidatePlugin adapts a built Candidate to the Plugin interface.
type candidatePlugin struct {
	c Candidate
}

func (p candidatePlugin) Descriptor() Descriptor { return p.c.Meta }

func (p candidatePlugin) NewGame(settings Settings) (State, error) {
	return p.c.NewGame(settings)
}

func (p candidatePlugin) ParseMove(payload json.RawMessage) (Move, error) {
	return p.c.ParseMove(payload)
}

func (p candidatePlugin) ValidateMove(move Move, state State, actorID string, players []Player) Validation {
	return p.c.ValidateMove(move, state, actorID, players)
}

func (p candidatePlugin) ApplyMove(move Move, state State, actorID string, players []Player) (State, error) {
	return p.c.ApplyMove(move, state, actorID, players)
}

func (p candidatePlugin) IsComplete(state State, players []Player) bool {
	return p.c.IsComplete(state, players)
}

func (p candidatePlugin) Winner(state State, players []Player) (string, bool) {
	return p.c.Winner(state, players)
}

func (p candidatePlugin) NextPlayer(currentID string, players []Player, state State) (string, error) {
	return p.c.NextPlayer(currentID, players, state)
}

func (p candidatePlugin) AssignColor(taken []Player) (string, error) {
	return p.c.AssignColor(taken)
}

func (p candidatePlugin) ValidateState(state State) error {
	return p.c.ValidateState(state)
}

func (p candidatePlugin) Stats(state State, players []Player) (Stats, error) {
	return p.c.Stats(state, players)
}

func (p candidatePlugin) RenderData(state State, players []Player, opts RenderOptions) (RenderData, error) {
	return p.c.RenderData(state, players, opts)
}

func (p candidatePlugin) MarshalState(state State) ([]byte, error) {
	return p.c.MarshalState(state)
}

func (p candidatePlugin) UnmarshalState(data []byte) (State, error) {
	return p.c.UnmarshalState(data)
}
