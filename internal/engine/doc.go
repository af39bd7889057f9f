// Package engine defines the contract every game rule engine implements and
// the registry that validates and instantiates implementations.
//
// # Architecture
//
// A rule engine is a pure, synchronous state machine behind the Plugin
// interface. The host resolves a plugin by game type from a Registry, calls
// NewGame once, then drives play with ParseMove, ValidateMove, ApplyMove,
// IsComplete and NextPlayer. The engine never calls back into the host, never
// performs I/O, and never mutates a State in place: ApplyMove clones before
// writing, so a State value handed to the host is immutable from its point
// of view.
//
// # Adding a New Game
//
//  1. Create a package under internal/games/<game> with a State type
//     (implementing engine.State) and a Move type (implementing engine.Move).
//  2. Implement engine.Plugin on the game type. ValidateMove must be pure
//     and return rejections through engine.Reject; ApplyMove may assume the
//     move already validated and must treat any inconsistency it finds as a
//     contract violation, not a rule rejection.
//  3. Add the game's factory to internal/games/manifest so discovery picks
//     it up. Registration fails with a contract violation if the descriptor
//     metadata is out of range.
package engine
