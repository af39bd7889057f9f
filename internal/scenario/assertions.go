package scenario

import (
	"fmt"
	"log"
)

// AssertionMode controls how expectation mismatches are treated.
type AssertionMode int

const (
	// AssertionStrict fails the run on the first mismatch.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs mismatches and keeps going. Useful when
	// recording a new scenario against evolving rules.
	AssertionLogOnly
)

// Assertions applies the configured mode to expectation checks.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports an unconditional failure: a structural problem the run
// cannot continue past regardless of mode.
func (a Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf reports an expectation mismatch. In strict mode it fails the run;
// in log-only mode it logs and continues.
func (a Assertions) Assertf(format string, args ...any) error {
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("expectation not met: "+format, args...)
		}
		return nil
	}
	return fmt.Errorf(format, args...)
}
