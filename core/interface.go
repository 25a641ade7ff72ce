package core

// Actor is the behavior contract every module must implement. An Actor is
// a behavior definition only; all mutable kernel bookkeeping lives in the
// live actor record owned by the System.
type Actor interface {
	// Name returns the identifier the actor registers under. It must be
	// unique among currently live actors in a System.
	Name() string

	// OnMessage processes a single message. Returned errors and panics are
	// routed to the crash-handling state machine.
	OnMessage(ctx *ActorContext, msg *Message) error
}

// Initializer is implemented by actors that need setup before receiving
// messages. Init runs asynchronously after Spawn returns and again after
// every restart; failures are routed to the crash-handling state machine.
type Initializer interface {
	Init(ctx *ActorContext) error
}

// CrashHandler is implemented by actors that choose their own disposition
// after a failure. Actors without this hook default to DispositionRestart.
type CrashHandler interface {
	OnCrash(ctx *ActorContext, cause error) Disposition
}
