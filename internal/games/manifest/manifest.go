// Package manifest wires the built-in game engines into a plugin registry.
package manifest

import (
	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/checkers"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/chess"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/solitaire"
)

// Entry pairs a game type with its plugin factory.
type Entry struct {
	Type    engine.GameType
	Factory engine.Factory
}

// Builtins lists the game engines compiled into this binary.
func Builtins() []Entry {
	return []Entry{
		{Type: engine.GameTypeChess, Factory: chess.Factory},
		{Type: engine.GameTypeCheckers, Factory: checkers.Factory},
		{Type: engine.GameTypeSolitaire, Factory: solitaire.Factory},
	}
}

// Failure records one entry the registry refused.
type Failure struct {
	Type engine.GameType
	Err  error
}

// DiscoveryReport summarizes a registration pass.
type DiscoveryReport struct {
	Registered []engine.GameType
	Failures   []Failure
}

// Ok reports whether every entry registered.
func (r DiscoveryReport) Ok() bool { return len(r.Failures) == 0 }

// Register registers the entries, continuing past individual failures so
// one broken plugin never takes down the rest of the catalog.
func Register(registry *engine.Registry, entries ...Entry) DiscoveryReport {
	var report DiscoveryReport
	for _, entry := range entries {
		if err := registry.Register(entry.Type, entry.Factory); err != nil {
			report.Failures = append(report.Failures, Failure{Type: entry.Type, Err: err})
			continue
		}
		report.Registered = append(report.Registered, entry.Type)
	}
	return report
}

// NewRegistry builds a registry holding all built-in engines.
func NewRegistry() (*engine.Registry, DiscoveryReport) {
	registry := engine.NewRegistry()
	report := Register(registry, Builtins()...)
	return registry, report
}
