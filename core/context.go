package core

import (
	"time"

	"github.com/weft-lang/weftrt/caps"
)

// ActorContext is the per-actor execution context. It is constructed once
// per spawn and handed unchanged to every Init, OnMessage, and OnCrash
// invocation for that actor's lifetime.
type ActorContext struct {
	token  *caps.Token
	facade *caps.Facade
	system *System
	clock  func() time.Time
}

// Token returns the capability token the actor was spawned with.
func (c *ActorContext) Token() *caps.Token {
	return c.token
}

// Caps returns the effect facade bound to the actor's token. Every
// effectful call the actor makes goes through it.
func (c *ActorContext) Caps() *caps.Facade {
	return c.facade
}

// System returns the owning actor system, so handlers can spawn, look up,
// or message other actors.
func (c *ActorContext) System() *System {
	return c.system
}

// KernelNow returns the kernel clock reading. This is the clock the
// kernel uses for crash-history bookkeeping; wall-clock access from actor
// code goes through the Clock effect on Caps instead.
func (c *ActorContext) KernelNow() time.Time {
	return c.clock()
}
