package engine

import (
	"encoding/json"
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// StateVersion is the serialization envelope version.
const StateVersion = 1

// stateEnvelope wraps a per-game state DTO so the persistence layer can
// store board states opaquely and still fail loudly on a type mix-up.
type stateEnvelope struct {
	GameType GameType        `json:"game_type"`
	Version  int             `json:"version"`
	State    json.RawMessage `json:"state"`
}

// EncodeState wraps a per-game state DTO in the versioned envelope.
func EncodeState(gameType GameType, dto any) ([]byte, error) {
	state, err := json.Marshal(dto)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStateFormatInvalid,
			fmt.Sprintf("encode %s state", gameType), err)
	}
	return json.Marshal(stateEnvelope{GameType: gameType, Version: StateVersion, State: state})
}

// DecodeState unwraps the envelope, verifying game type and version, and
// returns the inner DTO bytes. Corrupt input fails with a state-format error.
func DecodeState(data []byte, want GameType) (json.RawMessage, error) {
	var envelope stateEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(errors.CodeStateFormatInvalid, "decode state envelope", err)
	}
	if envelope.GameType != want {
		return nil, errors.New(errors.CodeStateFormatInvalid,
			fmt.Sprintf("state is for game type %q, want %q", envelope.GameType, want))
	}
	if envelope.Version != StateVersion {
		return nil, errors.New(errors.CodeStateFormatInvalid,
			fmt.Sprintf("unsupported state version %d", envelope.Version))
	}
	if len(envelope.State) == 0 {
		return nil, errors.New(errors.CodeStateFormatInvalid, "state envelope has no payload")
	}
	return envelope.State, nil
}
