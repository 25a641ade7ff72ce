// Package core implements the actor kernel of the weft runtime.
//
// This package provides the basic building blocks including the Actor
// contract, bounded Mailbox, ActorContext, and the System that runs each
// actor under a capability token and supervises failures with bounded,
// time-windowed restarts.
package core
