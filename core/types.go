package core

import (
	"time"
)

// Message represents communication data delivered to an Actor. The mailbox
// owns a message until delivery; the handler owns it for the duration of
// that single invocation.
type Message struct {
	// Type indicates the message category
	Type string

	// Payload contains the actual message data
	Payload any

	// SentAt is the time the message was created
	SentAt time.Time
}

// NewMessage creates a message stamped with the current time.
func NewMessage(msgType string, payload any) *Message {
	return &Message{
		Type:    msgType,
		Payload: payload,
		SentAt:  time.Now(),
	}
}

// Disposition is the supervisor's decision after a crash.
type Disposition uint8

const (
	// DispositionRestart re-runs Init after the backoff delay, subject to
	// the restart budget. This is the default when an actor defines no
	// crash handler.
	DispositionRestart Disposition = iota

	// DispositionResume keeps the actor running with no further action
	DispositionResume

	// DispositionStop deregisters the actor permanently
	DispositionStop
)

// String returns the string representation of Disposition.
func (d Disposition) String() string {
	switch d {
	case DispositionRestart:
		return "restart"
	case DispositionResume:
		return "resume"
	case DispositionStop:
		return "stop"
	default:
		return "unknown"
	}
}

// ActorState represents the current lifecycle state of a live actor.
type ActorState uint8

const (
	// ActorStateCreated means the actor is registered but Init has not run
	ActorStateCreated ActorState = iota

	// ActorStateRunning means the actor is delivering messages normally
	ActorStateRunning

	// ActorStateCrashDeciding means a failure is being routed through the
	// crash-handling state machine
	ActorStateCrashDeciding

	// ActorStateStopped is terminal; re-entry requires a fresh Spawn
	ActorStateStopped
)

// String returns the string representation of ActorState.
func (s ActorState) String() string {
	switch s {
	case ActorStateCreated:
		return "created"
	case ActorStateRunning:
		return "running"
	case ActorStateCrashDeciding:
		return "crash-deciding"
	case ActorStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// RestartPolicy bounds how often a crashing actor may be restarted.
// An actor exceeding MaxRestarts restarts within Window is permanently
// stopped. Backoff is applied before every restart attempt, including
// the first.
type RestartPolicy struct {
	// MaxRestarts is the restart budget within the window
	MaxRestarts int

	// Window is the sliding window crash timestamps are counted in
	Window time.Duration

	// Backoff is the delay before each restart attempt
	Backoff time.Duration
}

// DefaultRestartPolicy returns the stock supervision policy.
func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		MaxRestarts: 3,
		Window:      60 * time.Second,
		Backoff:     250 * time.Millisecond,
	}
}

// SpawnOptions contains per-actor overrides applied at spawn time.
type SpawnOptions struct {
	// MailboxSize overrides the system mailbox capacity when positive
	MailboxSize int

	// Policy overrides the system restart policy when non-nil
	Policy *RestartPolicy
}

// DefaultMailboxSize is the mailbox capacity used when neither the system
// options nor the spawn options set one.
const DefaultMailboxSize = 1024
