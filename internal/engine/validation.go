package engine

import (
	"fmt"

	"github.com/anweather/web-boardgame-service-sub000/internal/platform/errors"
)

// Validation is the outcome of ValidateMove.
type Validation struct {
	Valid     bool
	Rejection *Rejection
}

// Rejection names the rule a rejected move violated. The message is precise
// enough to drive a corrected retry and is surfaced verbatim to the acting
// player; metadata feeds the i18n message catalog.
type Rejection struct {
	Code     errors.Code
	Message  string
	Metadata map[string]string
}

// Err converts the rejection to a domain error for hosts that propagate
// rejections through an error channel.
func (r *Rejection) Err() *errors.Error {
	return errors.WithMetadata(r.Code, r.Message, r.Metadata)
}

// Accept returns a passing validation.
func Accept() Validation {
	return Validation{Valid: true}
}

// Reject returns a failing validation with a coded reason.
func Reject(code errors.Code, message string) Validation {
	return Validation{Rejection: &Rejection{Code: code, Message: message}}
}

// Rejectf returns a failing validation with a formatted reason.
func Rejectf(code errors.Code, format string, args ...any) Validation {
	return Reject(code, fmt.Sprintf(format, args...))
}

// RejectWith returns a failing validation carrying metadata for templating.
func RejectWith(code errors.Code, message string, metadata map[string]string) Validation {
	return Validation{Rejection: &Rejection{Code: code, Message: message, Metadata: metadata}}
}
