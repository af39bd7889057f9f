// Package scenario implements the scenario command: it runs Lua game
// walkthroughs against the built-in rule engines.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/anweather/web-boardgame-service-sub000/internal/games/manifest"
	"github.com/anweather/web-boardgame-service-sub000/internal/platform/config"
	"github.com/anweather/web-boardgame-service-sub000/internal/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string `env:"BOARDGAME_SCENARIO_FILE"`
	Dir        string `env:"BOARDGAME_SCENARIO_DIR"`
	Assertions bool   `env:"BOARDGAME_SCENARIO_ASSERT"  envDefault:"true"`
	Locale     string `env:"BOARDGAME_SCENARIO_LOCALE"`
	Verbose    bool   `env:"BOARDGAME_SCENARIO_VERBOSE"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory of scenario lua files")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for rejection messages (default en-US)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" && cfg.Dir == "" {
		return errors.New("a scenario file or directory is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}
	logger := log.New(errOut, "", 0)
	runCfg := scenario.Config{Assertions: mode, Locale: cfg.Locale, Verbose: cfg.Verbose, Logger: logger}

	registry, report := manifest.NewRegistry()
	for _, failure := range report.Failures {
		logger.Printf("plugin %s failed to register: %v", failure.Type, failure.Err)
	}

	if cfg.Scenario != "" {
		if err := scenario.RunFile(ctx, runCfg, registry, cfg.Scenario); err != nil {
			return err
		}
		fmt.Fprintf(out, "ok %s\n", cfg.Scenario)
		return nil
	}

	results, err := scenario.RunDir(ctx, runCfg, registry, cfg.Dir)
	if err != nil {
		return err
	}
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(out, "fail %s: %v\n", result.Path, result.Err)
			continue
		}
		fmt.Fprintf(out, "ok %s\n", result.Path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}
