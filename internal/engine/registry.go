package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// MaxPlayersLimit is the upper bound any plugin may declare.
const MaxPlayersLimit = 10

// Factory constructs a fresh plugin instance. The registry re-runs the
// factory on every Get so no shared mutable state can leak between
// concurrent games of the same type.
type Factory func() (Plugin, error)

// Registry holds validated game plugin factories keyed by game type.
type Registry struct {
	mu        sync.RWMutex
	factories map[GameType]Factory
	metadata  map[GameType]Descriptor
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[GameType]Factory),
		metadata:  make(map[GameType]Descriptor),
	}
}

// Register validates and adds a plugin factory. The factory is invoked once
// so the produced instance's descriptor can be checked; violations fail with
// a contract-violation error naming the offending capability or field.
func (r *Registry) Register(gameType GameType, factory Factory) error {
	if gameType == "" {
		return errors.New(errors.CodePluginContractViolation, "game type must not be empty")
	}
	if factory == nil {
		return contractViolation(gameType, "factory is nil")
	}

	plugin, err := factory()
	if err != nil {
		return errors.Wrap(errors.CodePluginContractViolation,
			fmt.Sprintf("plugin %s: factory failed", gameType), err)
	}
	if plugin == nil {
		return contractViolation(gameType, "factory produced a nil plugin")
	}

	desc := plugin.Descriptor()
	if desc.Type != gameType {
		return contractViolation(gameType,
			fmt.Sprintf("descriptor type %q does not match registration key", desc.Type))
	}
	if desc.Name == "" {
		return contractViolation(gameType, "descriptor name is empty")
	}
	if desc.MinPlayers < 1 {
		return contractViolation(gameType,
			fmt.Sprintf("minPlayers %d must be at least 1", desc.MinPlayers))
	}
	if desc.MaxPlayers < desc.MinPlayers {
		return contractViolation(gameType,
			fmt.Sprintf("maxPlayers %d must be at least minPlayers %d", desc.MaxPlayers, desc.MinPlayers))
	}
	if desc.MaxPlayers > MaxPlayersLimit {
		return contractViolation(gameType,
			fmt.Sprintf("maxPlayers %d exceeds limit %d", desc.MaxPlayers, MaxPlayersLimit))
	}
	if len(desc.Colors) < desc.MaxPlayers {
		return contractViolation(gameType,
			fmt.Sprintf("declares %d colors for %d players", len(desc.Colors), desc.MaxPlayers))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[gameType]; exists {
		return errors.New(errors.CodeGameTypeDuplicate,
			fmt.Sprintf("game type %s already registered", gameType))
	}
	r.factories[gameType] = factory
	r.metadata[gameType] = desc
	return nil
}

// Get returns a freshly constructed plugin for the game type. An absent type
// or a factory that fails on re-run reads as (nil, false); lookup never
// errors.
func (r *Registry) Get(gameType GameType) (Plugin, bool) {
	r.mu.RLock()
	factory, ok := r.factories[gameType]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	plugin, err := factory()
	if err != nil || plugin == nil {
		return nil, false
	}
	return plugin, true
}

// MustGet returns a fresh plugin or panics. Use only for built-in types the
// process registered itself.
func (r *Registry) MustGet(gameType GameType) Plugin {
	plugin, ok := r.Get(gameType)
	if !ok {
		panic(fmt.Sprintf("game type %s not registered", gameType))
	}
	return plugin
}

// Types returns the registered game types in sorted order.
func (r *Registry) Types() []GameType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]GameType, 0, len(r.factories))
	for gameType := range r.factories {
		types = append(types, gameType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Descriptors returns descriptors for all registered types, sorted by type.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]Descriptor, 0, len(r.metadata))
	for _, desc := range r.metadata {
		descs = append(descs, desc)
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Type < descs[j].Type })
	return descs
}

func contractViolation(gameType GameType, detail string) *errors.Error {
	return errors.WithMetadata(errors.CodePluginContractViolation,
		fmt.Sprintf("plugin %s: %s", gameType, detail),
		map[string]string{"game_type": string(gameType)})
}
