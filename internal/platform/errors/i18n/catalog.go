package i18n

import (
	"sync"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog of built-in message templates.
func Default() *Catalog {
	defaultOnce.Do(func() {
		catalog, err := NewCatalog(builtinSources)
		if err != nil {
			// Built-in templates are compiled constants; failing to parse
			// them is a programmer error.
			panic(err)
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

var builtinSources = map[string]map[errors.Code]string{
	"en-US": {
		errors.CodeMovePayloadMalformed: "The move could not be read. Check the move format and try again.",
		errors.CodeStateFormatInvalid:   "The saved game could not be loaded because its data is corrupt.",

		errors.CodeChessInvalidNotation:     "{{.notation}} is not valid chess notation. Use coordinates like e2e4 or algebraic moves like Nf3.",
		errors.CodeChessUnsupportedNotation: "{{.notation}} is not supported. Castling is not available in this game.",
		errors.CodeChessOutOfBounds:         "Square {{.square}} is outside the board.",
		errors.CodeChessEmptySource:         "There is no piece on {{.square}}.",
		errors.CodeChessWrongColor:          "The piece on {{.square}} is not yours.",
		errors.CodeChessDestinationOccupied: "Your own piece already occupies {{.square}}.",
		errors.CodeChessBlockedPath:         "The path to {{.square}} is blocked at {{.blocked}}.",
		errors.CodeChessIllegalPattern:      "A {{.piece}} cannot move from {{.from}} to {{.to}}.",
		errors.CodeChessNoCandidate:         "No {{.piece}} can reach {{.square}}.",
		errors.CodeChessAmbiguousMove:       "More than one {{.piece}} can reach {{.square}}. Add a file or rank hint.",
		errors.CodeChessCaptureDeclared:     "The move declares a capture, but {{.square}} is empty.",

		errors.CodeCheckersInvalidSquare:       "{{.square}} is not a playable square. Checkers pieces stay on dark squares.",
		errors.CodeCheckersEmptySource:         "There is no piece on {{.square}}.",
		errors.CodeCheckersWrongColor:          "The piece on {{.square}} is not yours.",
		errors.CodeCheckersNotYourTurn:         "It is {{.current}}'s turn.",
		errors.CodeCheckersNotDiagonal:         "Moves must follow a diagonal. {{.from}} to {{.to}} does not.",
		errors.CodeCheckersBackwardMove:        "A man cannot move backward. Only kings move toward {{.to}} from {{.from}}.",
		errors.CodeCheckersDestinationOccupied: "Square {{.square}} is already occupied.",
		errors.CodeCheckersStepDeclaresCapture: "A single step cannot capture. Declare captures only for jumps.",
		errors.CodeCheckersCaptureMismatch:     "The jump crosses {{.actual}} opponent piece(s) but {{.declared}} capture(s) were declared.",
		errors.CodeCheckersSelfCapture:         "Your own piece on {{.square}} is in the way.",

		errors.CodeSolitaireStockEmpty:        "The stock is empty. Reset it from the waste first.",
		errors.CodeSolitaireStockNotEmpty:     "The stock still holds cards. Draw before resetting.",
		errors.CodeSolitaireWasteEmpty:        "The waste is empty.",
		errors.CodeSolitaireColumnEmpty:       "There are no cards on {{.column}}.",
		errors.CodeSolitaireFaceDownMove:      "Face-down cards cannot be moved. Flip the card first.",
		errors.CodeSolitaireFlipNotAllowed:    "Only an exposed face-down card can be flipped.",
		errors.CodeSolitaireCountExceedsRun:   "Only {{.run}} card(s) can move together, not {{.requested}}.",
		errors.CodeSolitaireTableauSequence:   "{{if .want_rank}}Expected {{.want_rank}} in {{.want_color}} after {{.bottom}}, got {{.got}}. Tableau builds King down to Ace, alternating colors.{{else}}Nothing stacks on the {{.bottom}}.{{end}}",
		errors.CodeSolitaireEmptyNeedsKing:    "Only a King can start an empty column, got {{.got}}.",
		errors.CodeSolitaireFoundationSuit:    "That foundation takes {{.want_suit}}, got {{.got}}.",
		errors.CodeSolitaireFoundationRank:    "{{if .want}}Expected the {{.want}} on the foundation, got {{.got}}.{{else}}{{.foundation}} is already complete.{{end}}",
		errors.CodeSolitaireFoundationOneCard: "Foundations accept exactly one card at a time.",
	},
	"pt-BR": {
		errors.CodeMovePayloadMalformed: "A jogada não pôde ser lida. Verifique o formato e tente novamente.",
		errors.CodeStateFormatInvalid:   "O jogo salvo não pôde ser carregado porque os dados estão corrompidos.",

		errors.CodeChessInvalidNotation: "{{.notation}} não é uma notação de xadrez válida. Use coordenadas como e2e4 ou lances algébricos como Nf3.",
		errors.CodeChessEmptySource:     "Não há peça em {{.square}}.",
		errors.CodeChessNoCandidate:     "Nenhum(a) {{.piece}} alcança {{.square}}.",

		errors.CodeCheckersNotYourTurn:     "É a vez de {{.current}}.",
		errors.CodeCheckersCaptureMismatch: "O salto cruza {{.actual}} peça(s) adversária(s), mas {{.declared}} captura(s) foram declaradas.",

		errors.CodeSolitaireTableauSequence: "{{if .want_rank}}Esperava {{.want_rank}} em {{.want_color}} depois de {{.bottom}}, recebeu {{.got}}. A mesa desce de Rei a Ás, alternando cores.{{else}}Nada empilha sobre {{.bottom}}.{{end}}",
		errors.CodeSolitaireFoundationRank:  "{{if .want}}Esperava {{.want}} na fundação, recebeu {{.got}}.{{else}}{{.foundation}} já está completa.{{end}}",
	},
}
