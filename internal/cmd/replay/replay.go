// Package replay implements the replay command: it re-executes a recorded
// game through the plugin registry and verifies the final state.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/manifest"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/config"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/encoding"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/id"
)

// Config holds replay command configuration.
type Config struct {
	Record  string `env:"BOARDGAME_REPLAY_FILE"`
	Verbose bool   `env:"BOARDGAME_REPLAY_VERBOSE"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Record, "record", cfg.Record, "path to game record json file")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Record is a persisted game: settings, roster, the move sequence, and the
// expected outcome.
type Record struct {
	GameType engine.GameType `json:"game_type"`
	Settings engine.Settings `json:"settings"`
	Players  []engine.Player `json:"players"`
	Moves    []RecordMove    `json:"moves"`
	Expect   Expectation     `json:"expect"`
}

// RecordMove is one recorded move. An empty actor means the player whose
// turn it is.
type RecordMove struct {
	Actor   string          `json:"actor,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Expectation is the recorded outcome to verify after the final move.
type Expectation struct {
	Complete    *bool  `json:"complete,omitempty"`
	Winner      string `json:"winner,omitempty"`
	MoveCount   *int   `json:"move_count,omitempty"`
	Score       *int   `json:"score,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Run executes the replay command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Record == "" {
		return errors.New("record path is required")
	}

	data, err := os.ReadFile(cfg.Record)
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	registry, report := manifest.NewRegistry()
	for _, failure := range report.Failures {
		fmt.Fprintf(errOut, "plugin %s failed to register: %v\n", failure.Type, failure.Err)
	}

	fingerprint, err := Replay(ctx, registry, record)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "replayed %d moves, state %s\n", len(record.Moves), fingerprint)
	return nil
}

// Replay runs the record through a fresh plugin instance and verifies the
// expectations. It returns the final state fingerprint.
func Replay(ctx context.Context, registry *engine.Registry, record Record) (string, error) {
	plugin, ok := registry.Get(record.GameType)
	if !ok {
		return "", fmt.Errorf("game type %q is not registered", record.GameType)
	}
	players := make([]engine.Player, len(record.Players))
	copy(players, record.Players)
	if len(players) == 0 {
		// Records may omit the roster; fill the minimum seats with
		// generated anonymous players.
		for i := 0; i < plugin.Descriptor().MinPlayers; i++ {
			userID, err := id.NewID()
			if err != nil {
				return "", fmt.Errorf("generate player id: %w", err)
			}
			players = append(players, engine.Player{UserID: userID, Order: i})
		}
	}
	for i := range players {
		if players[i].Color != "" {
			continue
		}
		color, err := plugin.AssignColor(players[:i])
		if err != nil {
			return "", fmt.Errorf("assign color for %s: %w", players[i].UserID, err)
		}
		players[i].Color = color
	}

	board, err := plugin.NewGame(record.Settings)
	if err != nil {
		return "", fmt.Errorf("new game: %w", err)
	}

	current := players[0].UserID
	for index, recorded := range record.Moves {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		actor := recorded.Actor
		if actor == "" {
			actor = current
		}
		move, err := plugin.ParseMove(recorded.Payload)
		if err != nil {
			return "", fmt.Errorf("move %d: parse: %w", index+1, err)
		}
		validation := plugin.ValidateMove(move, board, actor, players)
		if !validation.Valid {
			return "", fmt.Errorf("move %d (%s): rejected: %s [%s]",
				index+1, move, validation.Rejection.Message, validation.Rejection.Code)
		}
		if board, err = plugin.ApplyMove(move, board, actor, players); err != nil {
			return "", fmt.Errorf("move %d (%s): apply: %w", index+1, move, err)
		}
		if current, err = plugin.NextPlayer(actor, players, board); err != nil {
			return "", fmt.Errorf("move %d: next player: %w", index+1, err)
		}
	}

	serialized, err := plugin.MarshalState(board)
	if err != nil {
		return "", fmt.Errorf("marshal final state: %w", err)
	}
	fingerprint, err := encoding.Fingerprint(json.RawMessage(serialized))
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	if err := verify(plugin, board, players, record.Expect, fingerprint); err != nil {
		return "", err
	}
	return fingerprint, nil
}

func verify(plugin engine.Plugin, board engine.State, players []engine.Player, expect Expectation, fingerprint string) error {
	stats, err := plugin.Stats(board, players)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if expect.Complete != nil && stats.Complete != *expect.Complete {
		return fmt.Errorf("complete = %v, want %v", stats.Complete, *expect.Complete)
	}
	if expect.Winner != "" && stats.Winner != expect.Winner {
		return fmt.Errorf("winner = %q, want %q", stats.Winner, expect.Winner)
	}
	if expect.MoveCount != nil && stats.MoveCount != *expect.MoveCount {
		return fmt.Errorf("move count = %d, want %d", stats.MoveCount, *expect.MoveCount)
	}
	if expect.Score != nil && stats.Score != *expect.Score {
		return fmt.Errorf("score = %d, want %d", stats.Score, *expect.Score)
	}
	if expect.Fingerprint != "" && fingerprint != expect.Fingerprint {
		return fmt.Errorf("fingerprint = %s, want %s", fingerprint, expect.Fingerprint)
	}
	return nil
}
