package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// liveActor is the kernel's mutable record for one spawned actor. It is
// created on Spawn and destroyed on Stop or permanent crash-loop
// termination. crashHistory is touched only by the actor's own run
// goroutine, which keeps it single-writer without locking.
type liveActor struct {
	actor   Actor
	name    string
	actx    *ActorContext
	mailbox *Mailbox
	system  *System

	// policy overrides the system policy when non-nil
	policy *RestartPolicy

	// crashHistory holds crash timestamps within the policy window
	crashHistory []time.Time

	state int32 // ActorState

	ctx    context.Context
	cancel context.CancelFunc
}

// State returns the actor's current lifecycle state.
func (la *liveActor) State() ActorState {
	return ActorState(atomic.LoadInt32(&la.state))
}

func (la *liveActor) setState(s ActorState) {
	atomic.StoreInt32(&la.state, int32(s))
}

// send enqueues a message for delivery. Stopped actors reject sends.
func (la *liveActor) send(msg *Message) error {
	if la.State() == ActorStateStopped {
		return fmt.Errorf("actor %q: %w", la.name, ErrActorStopped)
	}
	if err := la.mailbox.Push(msg); err != nil {
		return fmt.Errorf("actor %q: %w", la.name, err)
	}
	return nil
}

// run is the actor's single goroutine: it runs Init, then drains the
// mailbox one message at a time, feeding every failure into the crash
// state machine. Running Init here is what makes messages sent during
// spawn or backoff wait until Init completes.
func (la *liveActor) run() {
	defer la.system.wg.Done()

	if !la.runInit() {
		return
	}

	for {
		// Stop wins over pending messages once observed.
		select {
		case <-la.ctx.Done():
			return
		default:
		}

		select {
		case <-la.ctx.Done():
			return
		case msg := <-la.mailbox.ch:
			if msg == nil {
				continue
			}
			if err := la.dispatch(msg); err != nil {
				if !la.handleCrash(err) {
					return
				}
			}
		}
	}
}

// runInit invokes Init when the actor implements Initializer. It returns
// false when a resulting crash permanently stopped the actor.
func (la *liveActor) runInit() bool {
	initer, ok := la.actor.(Initializer)
	if !ok {
		la.setState(ActorStateRunning)
		return true
	}

	if err := la.safeCall(func() error { return initer.Init(la.actx) }); err != nil {
		return la.handleCrash(err)
	}

	la.setState(ActorStateRunning)
	return true
}

// dispatch invokes the actor's message handler, converting panics into
// errors so they reach the supervisor instead of the host process.
func (la *liveActor) dispatch(msg *Message) error {
	return la.safeCall(func() error { return la.actor.OnMessage(la.actx, msg) })
}

// safeCall runs fn with panic recovery.
func (la *liveActor) safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			la.system.logger.Error("actor panicked",
				"actor", la.name,
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("actor %q panicked: %v", la.name, r)
		}
	}()
	return fn()
}

// handleCrash routes a failure through the supervision state machine and
// reports whether the actor keeps running. On restart it prunes the crash
// history to the policy window, charges the current crash against the
// budget, sleeps the backoff, and re-runs Init on the same context.
func (la *liveActor) handleCrash(cause error) bool {
	la.setState(ActorStateCrashDeciding)

	disposition := DispositionRestart
	if handler, ok := la.actor.(CrashHandler); ok {
		disposition = la.safeDisposition(handler, cause)
	}

	policy := la.restartPolicy()

	la.system.logger.Warn("actor crashed",
		"actor", la.name,
		"cause", cause,
		"disposition", disposition.String())

	switch disposition {
	case DispositionResume:
		la.setState(ActorStateRunning)
		return true

	case DispositionStop:
		la.system.deregister(la)
		return false

	default: // DispositionRestart
		now := la.system.clock()
		la.pruneCrashHistory(now, policy.Window)
		la.crashHistory = append(la.crashHistory, now)

		if len(la.crashHistory) > policy.MaxRestarts {
			la.system.logger.Error("actor exceeded restart budget, stopping permanently",
				"actor", la.name,
				"crashes", len(la.crashHistory),
				"window", policy.Window)
			la.system.deregister(la)
			return false
		}

		// The actor stays registered during backoff; newly sent messages
		// queue in the mailbox and are delivered only after Init completes.
		backoff := time.NewTimer(policy.Backoff)
		select {
		case <-backoff.C:
		case <-la.ctx.Done():
			backoff.Stop()
			return false
		}

		la.system.logger.Info("restarting actor", "actor", la.name)
		return la.runInit()
	}
}

// safeDisposition asks the actor's crash handler for a disposition,
// falling back to restart when the handler itself panics.
func (la *liveActor) safeDisposition(handler CrashHandler, cause error) Disposition {
	defer func() {
		if r := recover(); r != nil {
			la.system.logger.Error("crash handler panicked, defaulting to restart",
				"actor", la.name,
				"panic", r)
		}
	}()
	return handler.OnCrash(la.actx, cause)
}

// pruneCrashHistory drops crash timestamps outside the sliding window so
// the history never grows beyond the restart budget.
func (la *liveActor) pruneCrashHistory(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	kept := la.crashHistory[:0]
	for _, t := range la.crashHistory {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	la.crashHistory = kept
}

// restartPolicy returns the per-spawn override when present, otherwise the
// system policy current at crash time.
func (la *liveActor) restartPolicy() RestartPolicy {
	if la.policy != nil {
		return *la.policy
	}
	return la.system.Policy()
}
