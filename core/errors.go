// Package core provides error definitions for the actor kernel
package core

import "errors"

// Spawn and registry errors
var (
	ErrActorAlreadyExists = errors.New("actor already exists")
	ErrActorNotFound      = errors.New("actor not found")
	ErrEmptyActorName     = errors.New("actor name cannot be empty")
	ErrNilActor           = errors.New("actor cannot be nil")
	ErrNilToken           = errors.New("capability token cannot be nil")
	ErrSystemShutdown     = errors.New("actor system is shutting down")
)

// Delivery errors
var (
	ErrMailboxOverflow = errors.New("mailbox overflow")
	ErrActorStopped    = errors.New("actor is stopped")
)
