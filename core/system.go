package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/weft-lang/weftrt/caps"
)

// SystemOptions contains configuration options for creating a System.
type SystemOptions struct {
	// Policy is the system-wide restart policy
	Policy RestartPolicy

	// MailboxSize is the default mailbox capacity for spawned actors
	MailboxSize int

	// Implementations are the low-level effect implementations bound into
	// every actor's facade
	Implementations caps.Implementations

	// Logger receives kernel events; slog.Default() when nil
	Logger *slog.Logger

	// Clock supplies kernel time for crash-history bookkeeping; time.Now
	// when nil. Tests substitute a fake to drive the restart window.
	Clock func() time.Time
}

// DefaultSystemOptions returns sensible default options.
func DefaultSystemOptions() SystemOptions {
	return SystemOptions{
		Policy:      DefaultRestartPolicy(),
		MailboxSize: DefaultMailboxSize,
	}
}

// System is the registry and supervisor for live actors. All registry
// mutation happens under its mutex; each actor's remaining mutable state
// is owned by that actor's single run goroutine.
type System struct {
	mu     sync.RWMutex
	actors map[string]*liveActor
	policy RestartPolicy

	mailboxSize int
	impls       caps.Implementations
	logger      *slog.Logger
	clock       func() time.Time

	// System shutdown context
	ctx    context.Context
	cancel context.CancelFunc

	// Wait group for all actor goroutines
	wg sync.WaitGroup
}

// NewSystem creates an actor system with default options.
func NewSystem() *System {
	return NewSystemWithOptions(DefaultSystemOptions())
}

// NewSystemWithOptions creates an actor system with the given options.
func NewSystemWithOptions(opts SystemOptions) *System {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = DefaultMailboxSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &System{
		actors:      make(map[string]*liveActor),
		policy:      opts.Policy,
		mailboxSize: opts.MailboxSize,
		impls:       opts.Implementations,
		logger:      opts.Logger,
		clock:       opts.Clock,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// IssueToken issues a capability token for a module. It is a convenience
// passthrough to caps.IssueToken.
func (s *System) IssueToken(module string, effects []caps.Effect) (*caps.Token, error) {
	return caps.IssueToken(module, effects)
}

// Policy returns the current system-wide restart policy.
func (s *System) Policy() RestartPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy replaces the system-wide restart policy. Actors spawned with a
// per-spawn override are unaffected; everyone else picks up the new policy
// at their next crash.
func (s *System) SetPolicy(policy RestartPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
}

// Spawn registers and starts an actor under the given capability token.
func (s *System) Spawn(actor Actor, token *caps.Token) (*Handle, error) {
	return s.SpawnWithOptions(actor, token, SpawnOptions{})
}

// SpawnWithOptions registers and starts an actor with per-actor overrides.
// It fails with ErrActorAlreadyExists when the name is taken, leaving the
// existing actor untouched. Init, when present, runs asynchronously on the
// actor's own goroutine; Spawn does not wait for it.
func (s *System) SpawnWithOptions(actor Actor, token *caps.Token, opts SpawnOptions) (*Handle, error) {
	if actor == nil {
		return nil, ErrNilActor
	}
	if token == nil {
		return nil, ErrNilToken
	}
	name := actor.Name()
	if name == "" {
		return nil, ErrEmptyActorName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.ctx.Done():
		return nil, ErrSystemShutdown
	default:
	}

	if _, exists := s.actors[name]; exists {
		return nil, fmt.Errorf("actor %q: %w", name, ErrActorAlreadyExists)
	}

	mailboxSize := s.mailboxSize
	if opts.MailboxSize > 0 {
		mailboxSize = opts.MailboxSize
	}

	ctx, cancel := context.WithCancel(s.ctx)

	la := &liveActor{
		actor:   actor,
		name:    name,
		mailbox: NewMailbox(mailboxSize),
		system:  s,
		policy:  opts.Policy,
		ctx:     ctx,
		cancel:  cancel,
	}
	la.actx = &ActorContext{
		token:  token,
		facade: caps.Bind(token, s.impls),
		system: s,
		clock:  s.clock,
	}
	la.setState(ActorStateCreated)

	s.actors[name] = la

	s.wg.Add(1)
	go la.run()

	s.logger.Info("actor spawned",
		"actor", name,
		"module", token.Module(),
		"effects", len(token.Effects()))

	return &Handle{name: name, actor: la}, nil
}

// Send delivers a message to the named actor's mailbox.
func (s *System) Send(name string, msg *Message) error {
	la, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("actor %q: %w", name, ErrActorNotFound)
	}
	return la.send(msg)
}

// Stop removes the named actor from the registry. A message currently
// being handled is allowed to finish; cancellation is cooperative, not
// preemptive.
func (s *System) Stop(name string) error {
	la, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("actor %q: %w", name, ErrActorNotFound)
	}
	s.deregister(la)
	return nil
}

// Lookup returns a handle for the named actor if it is live.
func (s *System) Lookup(name string) (*Handle, bool) {
	la, ok := s.lookup(name)
	if !ok {
		return nil, false
	}
	return &Handle{name: name, actor: la}, true
}

// ActorNames returns the names of all currently live actors.
func (s *System) ActorNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.actors))
	for name := range s.actors {
		names = append(names, name)
	}
	return names
}

// Shutdown stops all actors and waits for their goroutines to finish, up
// to the deadline of ctx.
func (s *System) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	for _, la := range s.actors {
		la.setState(ActorStateStopped)
		la.cancel()
	}
	s.actors = make(map[string]*liveActor)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("actor system shut down")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *System) lookup(name string) (*liveActor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	la, ok := s.actors[name]
	return la, ok
}

// deregister removes an actor from the registry and marks it stopped. The
// name becomes free for re-spawning immediately; the run goroutine winds
// down cooperatively.
func (s *System) deregister(la *liveActor) {
	s.mu.Lock()
	if current, ok := s.actors[la.name]; ok && current == la {
		delete(s.actors, la.name)
	}
	s.mu.Unlock()

	la.setState(ActorStateStopped)
	la.cancel()

	s.logger.Info("actor stopped", "actor", la.name)
}
