package i18n

import (
	"strings"
	"testing"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

func TestDefaultCatalogRendersMetadata(t *testing.T) {
	err := errors.WithMetadata(errors.CodeCheckersCaptureMismatch, "capture count mismatch", map[string]string{
		"actual":   "1",
		"declared": "0",
	})

	got := Default().Message("en-US", err)
	if !strings.Contains(got, "1 opponent piece") {
		t.Fatalf("message = %q, want actual count rendered", got)
	}
	if !strings.Contains(got, "0 capture") {
		t.Fatalf("message = %q, want declared count rendered", got)
	}
}

// TestTemplatesRenderEngineMetadata feeds each template the metadata shape
// its producing rejection actually carries and checks the expected card,
// square, or count lands in the message instead of a missing-key hole.
func TestTemplatesRenderEngineMetadata(t *testing.T) {
	tcs := []struct {
		name     string
		code     errors.Code
		metadata map[string]string
		want     string
	}{
		{
			name: "tableau sequence names rank and color",
			code: errors.CodeSolitaireTableauSequence,
			metadata: map[string]string{
				"column":     "tableau-3",
				"want_rank":  "Seven",
				"want_color": "black",
				"bottom":     "Eight of hearts",
				"got":        "Five of clubs",
			},
			want: "Seven in black after Eight of hearts",
		},
		{
			name:     "tableau sequence on an ace",
			code:     errors.CodeSolitaireTableauSequence,
			metadata: map[string]string{"column": "tableau-2", "bottom": "Ace of spades"},
			want:     "Nothing stacks on the Ace of spades",
		},
		{
			name: "foundation rank names the wanted card",
			code: errors.CodeSolitaireFoundationRank,
			metadata: map[string]string{
				"foundation": "foundation-hearts",
				"want":       "Ace of hearts",
				"got":        "Five of hearts",
			},
			want: "Expected the Ace of hearts",
		},
		{
			name:     "foundation rank on a complete pile",
			code:     errors.CodeSolitaireFoundationRank,
			metadata: map[string]string{"foundation": "foundation-hearts"},
			want:     "foundation-hearts is already complete",
		},
		{
			name: "foundation suit",
			code: errors.CodeSolitaireFoundationSuit,
			metadata: map[string]string{
				"foundation": "foundation-spades",
				"want_suit":  "spades",
				"got":        "Two of hearts",
			},
			want: "takes spades, got Two of hearts",
		},
		{
			name:     "count exceeds run",
			code:     errors.CodeSolitaireCountExceedsRun,
			metadata: map[string]string{"run": "2", "requested": "4"},
			want:     "Only 2 card(s) can move together, not 4",
		},
		{
			name:     "waste moves one card",
			code:     errors.CodeSolitaireCountExceedsRun,
			metadata: map[string]string{"run": "1", "requested": "3"},
			want:     "Only 1 card(s)",
		},
		{
			name:     "empty column",
			code:     errors.CodeSolitaireColumnEmpty,
			metadata: map[string]string{"column": "tableau-5"},
			want:     "no cards on tableau-5",
		},
		{
			name:     "empty column needs king",
			code:     errors.CodeSolitaireEmptyNeedsKing,
			metadata: map[string]string{"column": "tableau-1", "got": "Seven of spades"},
			want:     "got Seven of spades",
		},
		{
			name:     "face down move carries no metadata",
			code:     errors.CodeSolitaireFaceDownMove,
			metadata: nil,
			want:     "Flip the card first",
		},
		{
			name:     "chess blocked path",
			code:     errors.CodeChessBlockedPath,
			metadata: map[string]string{"square": "a5", "blocked": "a2"},
			want:     "blocked at a2",
		},
		{
			name:     "chess illegal pattern",
			code:     errors.CodeChessIllegalPattern,
			metadata: map[string]string{"piece": "knight", "from": "g1", "to": "g3"},
			want:     "knight cannot move from g1 to g3",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := errors.WithMetadata(tc.code, "internal message", tc.metadata)
			got := Default().Message("en-US", err)
			if strings.Contains(got, "<no value>") {
				t.Fatalf("message = %q, want no missing-key holes", got)
			}
			if !strings.Contains(got, tc.want) {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveMatchesRegionalVariant(t *testing.T) {
	tcs := []struct {
		requested string
		want      string
	}{
		{"en-US", "en-US"},
		{"en-GB", "en-US"},
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"", "en-US"},
		{"not-a-locale", "en-US"},
		{"ja-JP", "en-US"},
	}
	for _, tc := range tcs {
		if got := Default().Resolve(tc.requested); got != tc.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tc.requested, got, tc.want)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	// pt-BR has no template for this code; en-US does.
	err := errors.WithMetadata(errors.CodeSolitaireEmptyNeedsKing, "empty column needs king", map[string]string{
		"got": "Seven of spades",
	})
	got := Default().Message("pt-BR", err)
	if !strings.Contains(got, "King") {
		t.Fatalf("message = %q, want en-US fallback", got)
	}
}

func TestMessageFallsBackToInternalMessage(t *testing.T) {
	err := errors.New(errors.CodeUnknown, "internal detail")
	if got := Default().Message("en-US", err); got != "internal detail" {
		t.Fatalf("message = %q, want internal message fallback", got)
	}
}

func TestNewCatalogRequiresBaseLocale(t *testing.T) {
	_, err := NewCatalog(map[string]map[errors.Code]string{
		"pt-BR": {errors.CodeUnknown: "x"},
	})
	if err == nil {
		t.Fatal("expected error for missing base locale")
	}
}
