package scenario

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anweather/web-boardgame-service-sub000/internal/games/manifest"
)

func quietConfig(mode AssertionMode) Config {
	return Config{Assertions: mode, Logger: log.New(io.Discard, "", 0)}
}

func runFixture(t *testing.T, cfg Config, content string) error {
	t.Helper()
	registry, report := manifest.NewRegistry()
	if !report.Ok() {
		t.Fatalf("registry failures: %+v", report.Failures)
	}
	return RunFile(context.Background(), cfg, registry, writeScenarioFixture(t, content))
}

func TestRunnerPlaysChessOpening(t *testing.T) {
	err := runFixture(t, quietConfig(AssertionStrict), `local scene = Scenario.new("opening")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("e2e4")
scene:move("e7e5")
scene:reject({payload = "e7e5", code = "CHESS_EMPTY_SOURCE"})
scene:expect({move_count = 2, complete = false})
return scene
`)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunnerPlaysSolitaireDraw(t *testing.T) {
	err := runFixture(t, quietConfig(AssertionStrict), `local scene = Scenario.new("draw")
scene:game({type = "solitaire", seed = 42, players = {"dana"}})
scene:move({payload = {action = "draw_stock"}})
scene:reject({payload = {action = "reset_stock"}, code = "SOLITAIRE_STOCK_NOT_EMPTY"})
scene:expect({move_count = 1, score = 0})
return scene
`)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestStrictModeFailsOnMismatch(t *testing.T) {
	err := runFixture(t, quietConfig(AssertionStrict), `local scene = Scenario.new("wrong")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("e2e4")
scene:expect({move_count = 99})
return scene
`)
	if err == nil || !strings.Contains(err.Error(), "move count") {
		t.Fatalf("err = %v, want move count mismatch", err)
	}
}

func TestLogOnlyModeContinuesPastMismatch(t *testing.T) {
	err := runFixture(t, quietConfig(AssertionLogOnly), `local scene = Scenario.new("wrong")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("e2e4")
scene:expect({move_count = 99})
scene:expect({move_count = 1})
return scene
`)
	if err != nil {
		t.Fatalf("log-only run failed: %v", err)
	}
}

func TestRejectCodeMismatchFails(t *testing.T) {
	err := runFixture(t, quietConfig(AssertionStrict), `local scene = Scenario.new("code")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:reject({payload = "e7e5", code = "CHESS_EMPTY_SOURCE"})
return scene
`)
	if err == nil || !strings.Contains(err.Error(), "CHESS_EMPTY_SOURCE") {
		t.Fatalf("err = %v, want code mismatch naming CHESS_EMPTY_SOURCE", err)
	}
}

func TestUnknownGameTypeFails(t *testing.T) {
	err := runFixture(t, quietConfig(AssertionStrict), `local scene = Scenario.new("missing")
scene:game({type = "go"})
return scene
`)
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("err = %v, want not registered", err)
	}
}

func TestRunDirReportsPerFileFailures(t *testing.T) {
	dir := t.TempDir()
	good := `local scene = Scenario.new("good")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("e2e4")
return scene
`
	bad := `local scene = Scenario.new("bad")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("e9z9")
return scene
`
	if err := os.WriteFile(filepath.Join(dir, "a_good.lua"), []byte(good), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b_bad.lua"), []byte(bad), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	registry, _ := manifest.NewRegistry()
	results, err := RunDir(context.Background(), quietConfig(AssertionStrict), registry, dir)
	if err != nil {
		t.Fatalf("run dir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("good scenario failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatal("bad scenario should fail")
	}
}
