package core

import (
	"fmt"
)

// Mailbox is a bounded FIFO message queue for a single actor. Multiple
// senders may push concurrently; the actor's run loop is the only
// consumer, which is what guarantees in-order, one-at-a-time delivery.
type Mailbox struct {
	ch       chan *Message
	capacity int
}

// NewMailbox creates a mailbox with the given capacity. Non-positive
// capacities fall back to DefaultMailboxSize.
func NewMailbox(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxSize
	}
	return &Mailbox{
		ch:       make(chan *Message, capacity),
		capacity: capacity,
	}
}

// Push enqueues a message. It fails with ErrMailboxOverflow when the queue
// is at capacity; messages already enqueued are unaffected by the failed
// push.
func (m *Mailbox) Push(msg *Message) error {
	select {
	case m.ch <- msg:
		return nil
	default:
		return fmt.Errorf("%w: capacity %d", ErrMailboxOverflow, m.capacity)
	}
}

// Len returns the number of queued messages.
func (m *Mailbox) Len() int {
	return len(m.ch)
}

// Cap returns the configured capacity.
func (m *Mailbox) Cap() int {
	return m.capacity
}
