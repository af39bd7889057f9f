// Package id generates compact random identifiers.
//
// Identifiers are random UUIDs (version 4) encoded as lowercase unpadded
// base32, producing 26-character strings safe for URLs and filenames.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a new 26-character lowercase base32 identifier.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(u[:])
	return strings.ToLower(encoded), nil
}
