package errors

import (
	stderrors "errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeCheckersCaptureMismatch, "capture count mismatch")
	target := New(CodeCheckersCaptureMismatch, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeCheckersSelfCapture, "other")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("bad json")
	err := Wrap(CodeStateFormatInvalid, "decode state", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	if err.Error() != "decode state" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "decode state")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := Wrap(CodeCardInvalid, "bad card", stderrors.New("boom"))
	if got := CodeOf(wrapped); got != CodeCardInvalid {
		t.Fatalf("CodeOf = %v, want %v", got, CodeCardInvalid)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain error = %v, want %v", got, CodeUnknown)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tcs := []struct {
		code Code
		want codes.Code
	}{
		{CodeMovePayloadMalformed, codes.InvalidArgument},
		{CodeDeckInsufficientCards, codes.InvalidArgument},
		{CodeChessInvalidNotation, codes.FailedPrecondition},
		{CodeSolitaireFoundationRank, codes.FailedPrecondition},
		{CodeStateFormatInvalid, codes.DataLoss},
		{CodePluginContractViolation, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tcs {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("GRPCCode(%v) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestCodeFamilies(t *testing.T) {
	if !IsRuleViolation(CodeCheckersSelfCapture) {
		t.Fatal("expected checkers self-capture to be a rule violation")
	}
	if IsRuleViolation(CodeMovePayloadMalformed) {
		t.Fatal("expected malformed payload not to be a rule violation")
	}
	if !IsStructural(CodeMoveTypeMismatch) {
		t.Fatal("expected move type mismatch to be structural")
	}
	if !IsStateFormat(CodeStateStructureInvalid) {
		t.Fatal("expected state structure invalid to be a state-format code")
	}
}

func TestToGRPCStatusCarriesDetails(t *testing.T) {
	err := WithMetadata(CodeSolitaireFoundationRank, "foundation rank mismatch", map[string]string{
		"wantRank": "Ace",
	})

	st, ok := status.FromError(err.ToGRPCStatus("en-US", "Expected Ace of hearts on the foundation"))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.FailedPrecondition)
	}
	if st.Message() != "foundation rank mismatch" {
		t.Fatalf("status message = %q, want internal message", st.Message())
	}
	if len(st.Details()) != 2 {
		t.Fatalf("details = %d, want 2", len(st.Details()))
	}
}
