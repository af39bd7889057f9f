package scenario

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Scenario != "" || cfg.Dir != "" {
		t.Fatalf("expected empty paths, got %q and %q", cfg.Scenario, cfg.Dir)
	}
}

func TestRunRequiresPath(t *testing.T) {
	err := Run(context.Background(), Config{Assertions: true}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("err = %v, want path required", err)
	}
}

func TestRunExecutesScenarioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opening.lua")
	script := `local scene = Scenario.new("opening")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("e2e4")
scene:expect({move_count = 1})
return scene
`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var out bytes.Buffer
	cfg := Config{Scenario: path, Assertions: true}
	if err := Run(context.Background(), cfg, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "ok ") {
		t.Fatalf("output = %q, want ok line", out.String())
	}
}

func TestRunReportsDirectoryFailures(t *testing.T) {
	dir := t.TempDir()
	bad := `local scene = Scenario.new("bad")
scene:game({type = "chess", players = {"alice", "bob"}})
scene:move("zz")
return scene
`
	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(bad), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var out bytes.Buffer
	cfg := Config{Dir: dir, Assertions: true}
	err := Run(context.Background(), cfg, &out, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "1 of 1 scenarios failed") {
		t.Fatalf("err = %v, want failure summary", err)
	}
	if !strings.Contains(out.String(), "fail ") {
		t.Fatalf("output = %q, want fail line", out.String())
	}
}
