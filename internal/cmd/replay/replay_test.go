package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anweather/web-boardgame-service-sub000/internal/engine"
	"github.com/anweather/web-boardgame-service-sub000/internal/games/manifest"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-record", "game.json"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Record != "game.json" {
		t.Fatalf("record = %q, want game.json", cfg.Record)
	}
}

func chessRecord(moves ...string) Record {
	record := Record{
		GameType: engine.GameTypeChess,
		Players: []engine.Player{
			{UserID: "alice", Order: 0},
			{UserID: "bob", Order: 1},
		},
	}
	for _, notation := range moves {
		payload, _ := json.Marshal(notation)
		record.Moves = append(record.Moves, RecordMove{Payload: payload})
	}
	return record
}

func TestReplayChessRecord(t *testing.T) {
	registry, _ := manifest.NewRegistry()

	record := chessRecord("e2e4", "e7e5", "Nf3")
	moveCount := 3
	record.Expect.MoveCount = &moveCount

	fingerprint, err := Replay(context.Background(), registry, record)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if fingerprint == "" {
		t.Fatal("empty fingerprint")
	}

	// The same record replays to the same fingerprint.
	again, err := Replay(context.Background(), registry, record)
	if err != nil {
		t.Fatalf("replay again: %v", err)
	}
	if again != fingerprint {
		t.Fatalf("fingerprint = %s, want %s", again, fingerprint)
	}
}

func TestReplayVerifiesFingerprint(t *testing.T) {
	registry, _ := manifest.NewRegistry()

	record := chessRecord("e2e4")
	record.Expect.Fingerprint = "0000"

	_, err := Replay(context.Background(), registry, record)
	if err == nil || !strings.Contains(err.Error(), "fingerprint") {
		t.Fatalf("err = %v, want fingerprint mismatch", err)
	}
}

func TestReplayFailsOnRejectedMove(t *testing.T) {
	registry, _ := manifest.NewRegistry()

	_, err := Replay(context.Background(), registry, chessRecord("e2e5"))
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("err = %v, want rejected move", err)
	}
}

func TestReplaySynthesizesMissingRoster(t *testing.T) {
	registry, _ := manifest.NewRegistry()

	seed := int64(7)
	record := Record{
		GameType: engine.GameTypeSolitaire,
		Settings: engine.Settings{Seed: &seed},
		Moves: []RecordMove{
			{Payload: json.RawMessage(`{"action":"draw_stock"}`)},
		},
	}

	if _, err := Replay(context.Background(), registry, record); err != nil {
		t.Fatalf("replay without roster: %v", err)
	}
}

func TestRunReplaysRecordFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.json")

	seed := int64(42)
	record := Record{
		GameType: engine.GameTypeSolitaire,
		Settings: engine.Settings{Seed: &seed},
		Players:  []engine.Player{{UserID: "dana"}},
		Moves: []RecordMove{
			{Payload: json.RawMessage(`{"action":"draw_stock"}`)},
		},
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write record: %v", err)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), Config{Record: path}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "replayed 1 moves") {
		t.Fatalf("output = %q, want replay summary", out.String())
	}
}

func TestRunRequiresRecordPath(t *testing.T) {
	err := Run(context.Background(), Config{}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("err = %v, want record path required", err)
	}
}
