package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors/i18n"
)

// Config controls scenario execution.
type Config struct {
	Assertions AssertionMode
	Locale     string
	Verbose    bool
	Logger     *log.Logger
}

// Runner executes scenarios in process against a plugin registry.
type Runner struct {
	registry   *engine.Registry
	assertions Assertions
	catalog    *i18n.Catalog
	locale     string
	logger     *log.Logger
	verbose    bool
}

// NewRunner prepares a scenario runner backed by the registry. Rejection
// messages render through the i18n catalog in cfg.Locale.
func NewRunner(registry *engine.Registry, cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	locale := cfg.Locale
	if locale == "" {
		locale = i18n.BaseLocale
	}
	return &Runner{
		registry:   registry,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		catalog:    i18n.Default(),
		locale:     locale,
		logger:     logger,
		verbose:    cfg.Verbose,
	}
}

// runState is the game under play while a scenario executes.
type runState struct {
	plugin  engine.Plugin
	board   engine.State
	players []engine.Player
	current string
}

// RunFile loads and executes one scenario file.
func RunFile(ctx context.Context, cfg Config, registry *engine.Registry, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return NewRunner(registry, cfg).RunScenario(ctx, scenario)
}

// FileResult records the outcome of one scenario file in a directory run.
type FileResult struct {
	Path string
	Err  error
}

// RunDir executes every .lua scenario under dir in name order. A failing
// file is reported in its result and never aborts the remaining files.
func RunDir(ctx context.Context, cfg Config, registry *engine.Registry, dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, FileResult{Path: path, Err: RunFile(ctx, cfg, registry, path)})
	}
	return results, nil
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return fmt.Errorf("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))

	state := &runState{}
	for index, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logf("step %d/%d: %s", index+1, len(scenario.Steps), step.Kind)
		if err := r.runStep(state, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", index+1, step.Kind, err)
		}
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) runStep(state *runState, step Step) error {
	switch step.Kind {
	case "game":
		return r.stepGame(state, step.Args)
	case "move":
		return r.stepMove(state, step.Args)
	case "reject":
		return r.stepReject(state, step.Args)
	case "expect":
		return r.stepExpect(state, step.Args)
	case "complete":
		return r.stepComplete(state, step.Args)
	}
	return r.failf("unknown step kind %q", step.Kind)
}

// stepGame resolves a plugin and starts a game, assigning colors in join
// order.
func (r *Runner) stepGame(state *runState, args map[string]any) error {
	gameType, _ := args["type"].(string)
	plugin, ok := r.registry.Get(engine.GameType(gameType))
	if !ok {
		return r.failf("game type %q is not registered", gameType)
	}

	settings := engine.Settings{}
	if seed, ok := argInt(args, "seed"); ok {
		seed64 := int64(seed)
		settings.Seed = &seed64
	}
	if drawCount, ok := argInt(args, "draw_count"); ok {
		settings.DrawCount = drawCount
	}

	names := argStrings(args, "players")
	if len(names) == 0 {
		for i := 0; i < plugin.Descriptor().MinPlayers; i++ {
			names = append(names, fmt.Sprintf("player-%d", i+1))
		}
	}
	players := make([]engine.Player, 0, len(names))
	for i, name := range names {
		color, err := plugin.AssignColor(players)
		if err != nil {
			return r.failf("assign color for %s: %v", name, err)
		}
		players = append(players, engine.Player{UserID: name, Color: color, Order: i})
	}

	board, err := plugin.NewGame(settings)
	if err != nil {
		return r.failf("new game: %v", err)
	}

	state.plugin = plugin
	state.board = board
	state.players = players
	state.current = players[0].UserID
	return nil
}

// stepMove parses, validates, and applies a move expected to succeed.
func (r *Runner) stepMove(state *runState, args map[string]any) error {
	move, actor, err := r.prepareMove(state, args)
	if err != nil {
		return err
	}

	validation := state.plugin.ValidateMove(move, state.board, actor, state.players)
	if !validation.Valid {
		return r.assertf("move %s rejected: %s [%s]",
			move, r.rejectionText(validation.Rejection), validation.Rejection.Code)
	}

	next, err := state.plugin.ApplyMove(move, state.board, actor, state.players)
	if err != nil {
		return r.failf("apply move %s: %v", move, err)
	}
	state.board = next

	current, err := state.plugin.NextPlayer(actor, state.players, state.board)
	if err != nil {
		return r.failf("next player: %v", err)
	}
	state.current = current
	return nil
}

// stepReject validates a move expected to fail, optionally matching the
// rejection code. The board is left untouched.
func (r *Runner) stepReject(state *runState, args map[string]any) error {
	if state.plugin == nil {
		return r.failf("game step is required first")
	}
	wantCode, _ := args["code"].(string)

	payload, err := payloadBytes(args)
	if err != nil {
		return r.failf("encode payload: %v", err)
	}
	move, err := state.plugin.ParseMove(payload)
	if err != nil {
		// Structural rejection at parse time also satisfies the step.
		if wantCode != "" && string(errors.CodeOf(err)) != wantCode {
			return r.assertf("parse rejected with %s, want %s", errors.CodeOf(err), wantCode)
		}
		return nil
	}

	actor := r.actorFor(state, args)
	validation := state.plugin.ValidateMove(move, state.board, actor, state.players)
	if validation.Valid {
		return r.assertf("move %s was accepted, want rejection", move)
	}
	if wantCode != "" && string(validation.Rejection.Code) != wantCode {
		return r.assertf("move %s rejected with %s, want %s",
			move, validation.Rejection.Code, wantCode)
	}
	r.logf("rejected as expected: %s [%s]", r.rejectionText(validation.Rejection), validation.Rejection.Code)
	return nil
}

// rejectionText renders the player-facing message for a rejection in the
// runner's locale, falling back to the rejection's own message.
func (r *Runner) rejectionText(rejection *engine.Rejection) string {
	return r.catalog.Message(r.locale, rejection.Err())
}

// stepExpect compares game stats against the scripted expectations.
func (r *Runner) stepExpect(state *runState, args map[string]any) error {
	if state.plugin == nil {
		return r.failf("game step is required first")
	}
	stats, err := state.plugin.Stats(state.board, state.players)
	if err != nil {
		return r.failf("stats: %v", err)
	}

	if want, ok := args["complete"].(bool); ok && stats.Complete != want {
		return r.assertf("complete = %v, want %v", stats.Complete, want)
	}
	if want, ok := args["winner"].(string); ok && stats.Winner != want {
		return r.assertf("winner = %q, want %q", stats.Winner, want)
	}
	if want, ok := argInt(args, "move_count"); ok && stats.MoveCount != want {
		return r.assertf("move count = %d, want %d", stats.MoveCount, want)
	}
	if want, ok := argInt(args, "score"); ok && stats.Score != want {
		return r.assertf("score = %d, want %d", stats.Score, want)
	}
	return nil
}

// stepComplete asserts the game has ended, optionally naming the winner.
func (r *Runner) stepComplete(state *runState, args map[string]any) error {
	if state.plugin == nil {
		return r.failf("game step is required first")
	}
	if !state.plugin.IsComplete(state.board, state.players) {
		return r.assertf("game is not complete")
	}
	if want, ok := args["winner"].(string); ok && want != "" {
		winner, _ := state.plugin.Winner(state.board, state.players)
		if winner != want {
			return r.assertf("winner = %q, want %q", winner, want)
		}
	}
	return nil
}

func (r *Runner) prepareMove(state *runState, args map[string]any) (engine.Move, string, error) {
	if state.plugin == nil {
		return nil, "", r.failf("game step is required first")
	}
	payload, err := payloadBytes(args)
	if err != nil {
		return nil, "", r.failf("encode payload: %v", err)
	}
	move, err := state.plugin.ParseMove(payload)
	if err != nil {
		return nil, "", r.failf("parse move: %v", err)
	}
	return move, r.actorFor(state, args), nil
}

func (r *Runner) actorFor(state *runState, args map[string]any) string {
	if actor, ok := args["actor"].(string); ok && actor != "" {
		return actor
	}
	return state.current
}

func payloadBytes(args map[string]any) (json.RawMessage, error) {
	payload, ok := args["payload"]
	if !ok {
		return nil, fmt.Errorf("payload is required")
	}
	return json.Marshal(payload)
}

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func argInt(args map[string]any, key string) (int, bool) {
	switch value := args[key].(type) {
	case int:
		return value, true
	case float64:
		return int(value), true
	}
	return 0, false
}

func argStrings(args map[string]any, key string) []string {
	items, ok := args[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok {
			values = append(values, text)
		}
	}
	return values
}
