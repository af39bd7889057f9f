// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Structural errors (malformed payloads, wrong concrete types)
	CodeMovePayloadMalformed Code = "MOVE_PAYLOAD_MALFORMED"
	CodeMoveTypeMismatch     Code = "MOVE_TYPE_MISMATCH"
	CodeStateTypeMismatch    Code = "STATE_TYPE_MISMATCH"

	// Plugin registry errors
	CodePluginContractViolation Code = "PLUGIN_CONTRACT_VIOLATION"
	CodeGameTypeDuplicate       Code = "GAME_TYPE_DUPLICATE"

	// Roster errors
	CodePlayerCountInvalid Code = "PLAYER_COUNT_INVALID"
	CodePlayerUnknown      Code = "PLAYER_UNKNOWN"
	CodeColorsExhausted    Code = "COLORS_EXHAUSTED"

	// Persisted state errors
	CodeStateFormatInvalid    Code = "STATE_FORMAT_INVALID"
	CodeStateStructureInvalid Code = "STATE_STRUCTURE_INVALID"

	// Card primitive errors
	CodeCardInvalid           Code = "CARD_INVALID"
	CodeCardStringInvalid     Code = "CARD_STRING_INVALID"
	CodeDeckConfigInvalid     Code = "DECK_CONFIG_INVALID"
	CodeDeckInsufficientCards Code = "DECK_INSUFFICIENT_CARDS"
	CodeHandOwnerRequired     Code = "HAND_OWNER_REQUIRED"
	CodeHandSortCriterion     Code = "HAND_SORT_CRITERION_INVALID"

	// Chess rule violations
	CodeChessInvalidNotation     Code = "CHESS_INVALID_NOTATION"
	CodeChessUnsupportedNotation Code = "CHESS_UNSUPPORTED_NOTATION"
	CodeChessOutOfBounds         Code = "CHESS_OUT_OF_BOUNDS"
	CodeChessEmptySource         Code = "CHESS_EMPTY_SOURCE"
	CodeChessWrongColor          Code = "CHESS_WRONG_COLOR"
	CodeChessDestinationOccupied Code = "CHESS_DESTINATION_OCCUPIED"
	CodeChessBlockedPath         Code = "CHESS_BLOCKED_PATH"
	CodeChessIllegalPattern      Code = "CHESS_ILLEGAL_PATTERN"
	CodeChessNoCandidate         Code = "CHESS_NO_CANDIDATE"
	CodeChessAmbiguousMove       Code = "CHESS_AMBIGUOUS_MOVE"
	CodeChessCaptureDeclared     Code = "CHESS_CAPTURE_DECLARED"

	// Checkers rule violations
	CodeCheckersInvalidSquare       Code = "CHECKERS_INVALID_SQUARE"
	CodeCheckersEmptySource         Code = "CHECKERS_EMPTY_SOURCE"
	CodeCheckersWrongColor          Code = "CHECKERS_WRONG_COLOR"
	CodeCheckersNotYourTurn         Code = "CHECKERS_NOT_YOUR_TURN"
	CodeCheckersNotDiagonal         Code = "CHECKERS_NOT_DIAGONAL"
	CodeCheckersBackwardMove        Code = "CHECKERS_BACKWARD_MOVE"
	CodeCheckersDestinationOccupied Code = "CHECKERS_DESTINATION_OCCUPIED"
	CodeCheckersStepDeclaresCapture Code = "CHECKERS_STEP_DECLARES_CAPTURE"
	CodeCheckersCaptureMismatch     Code = "CHECKERS_CAPTURE_MISMATCH"
	CodeCheckersSelfCapture         Code = "CHECKERS_SELF_CAPTURE"

	// Solitaire rule violations
	CodeSolitaireStockEmpty          Code = "SOLITAIRE_STOCK_EMPTY"
	CodeSolitaireStockNotEmpty       Code = "SOLITAIRE_STOCK_NOT_EMPTY"
	CodeSolitaireWasteEmpty          Code = "SOLITAIRE_WASTE_EMPTY"
	CodeSolitaireColumnEmpty         Code = "SOLITAIRE_COLUMN_EMPTY"
	CodeSolitaireFaceDownMove        Code = "SOLITAIRE_FACE_DOWN_MOVE"
	CodeSolitaireFlipNotAllowed      Code = "SOLITAIRE_FLIP_NOT_ALLOWED"
	CodeSolitaireCountExceedsRun     Code = "SOLITAIRE_COUNT_EXCEEDS_RUN"
	CodeSolitaireTableauSequence     Code = "SOLITAIRE_TABLEAU_SEQUENCE"
	CodeSolitaireEmptyNeedsKing      Code = "SOLITAIRE_EMPTY_COLUMN_NEEDS_KING"
	CodeSolitaireFoundationSuit      Code = "SOLITAIRE_FOUNDATION_SUIT_MISMATCH"
	CodeSolitaireFoundationRank      Code = "SOLITAIRE_FOUNDATION_RANK_MISMATCH"
	CodeSolitaireFoundationOneCard   Code = "SOLITAIRE_FOUNDATION_SINGLE_CARD"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch {
	// InvalidArgument - malformed payloads, bad primitive input
	case c == CodeMovePayloadMalformed,
		c == CodeMoveTypeMismatch,
		c == CodeStateTypeMismatch,
		c == CodePlayerCountInvalid,
		c == CodePlayerUnknown,
		c == CodeCardInvalid,
		c == CodeCardStringInvalid,
		c == CodeDeckConfigInvalid,
		c == CodeDeckInsufficientCards,
		c == CodeHandOwnerRequired,
		c == CodeHandSortCriterion:
		return codes.InvalidArgument

	// FailedPrecondition - well-formed but illegal against current state
	case c == CodeColorsExhausted,
		IsRuleViolation(c):
		return codes.FailedPrecondition

	// DataLoss - corrupt persisted state
	case c == CodeStateFormatInvalid,
		c == CodeStateStructureInvalid:
		return codes.DataLoss

	// Internal - registration/contract bugs
	case c == CodePluginContractViolation,
		c == CodeGameTypeDuplicate:
		return codes.Internal

	default:
		return codes.Internal
	}
}

// IsRuleViolation reports whether the code names a game-rule rejection.
// Rule violations are surfaced verbatim to the acting player and are never
// retried and never fatal.
func IsRuleViolation(c Code) bool {
	switch c {
	case CodeChessInvalidNotation,
		CodeChessUnsupportedNotation,
		CodeChessOutOfBounds,
		CodeChessEmptySource,
		CodeChessWrongColor,
		CodeChessDestinationOccupied,
		CodeChessBlockedPath,
		CodeChessIllegalPattern,
		CodeChessNoCandidate,
		CodeChessAmbiguousMove,
		CodeChessCaptureDeclared,
		CodeCheckersInvalidSquare,
		CodeCheckersEmptySource,
		CodeCheckersWrongColor,
		CodeCheckersNotYourTurn,
		CodeCheckersNotDiagonal,
		CodeCheckersBackwardMove,
		CodeCheckersDestinationOccupied,
		CodeCheckersStepDeclaresCapture,
		CodeCheckersCaptureMismatch,
		CodeCheckersSelfCapture,
		CodeSolitaireStockEmpty,
		CodeSolitaireStockNotEmpty,
		CodeSolitaireWasteEmpty,
		CodeSolitaireColumnEmpty,
		CodeSolitaireFaceDownMove,
		CodeSolitaireFlipNotAllowed,
		CodeSolitaireCountExceedsRun,
		CodeSolitaireTableauSequence,
		CodeSolitaireEmptyNeedsKing,
		CodeSolitaireFoundationSuit,
		CodeSolitaireFoundationRank,
		CodeSolitaireFoundationOneCard:
		return true
	}
	return false
}

// IsStructural reports whether the code names a malformed-payload caller bug.
func IsStructural(c Code) bool {
	switch c {
	case CodeMovePayloadMalformed, CodeMoveTypeMismatch, CodeStateTypeMismatch:
		return true
	}
	return false
}

// IsStateFormat reports whether the code names corrupt persisted state.
func IsStateFormat(c Code) bool {
	return c == CodeStateFormatInvalid || c == CodeStateStructureInvalid
}
