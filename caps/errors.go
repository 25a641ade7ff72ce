// Package caps provides error definitions for the capability layer
package caps

import (
	"errors"
	"fmt"
)

// Token issuance errors
var (
	ErrUnknownEffect = errors.New("unknown effect")
	ErrEmptyModule   = errors.New("module name cannot be empty")
)

// Facade errors
var (
	ErrCapabilityViolation = errors.New("capability violation")
	ErrNoImplementation    = errors.New("no implementation bound for effect")
)

// ViolationError reports an attempt to perform an effect that is absent
// from the caller's token. It is raised before the underlying
// implementation is invoked.
type ViolationError struct {
	// Module is the module name stamped on the offending token
	Module string

	// Effect is the missing effect
	Effect Effect
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("capability violation: module %q lacks effect %s", e.Module, e.Effect)
}

// Unwrap allows errors.Is(err, ErrCapabilityViolation) to match.
func (e *ViolationError) Unwrap() error {
	return ErrCapabilityViolation
}
