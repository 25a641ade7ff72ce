package core

import (
	"errors"
	"testing"
)

func TestMailboxPushAndOverflow(t *testing.T) {
	mb := NewMailbox(4)

	if mb.Cap() != 4 {
		t.Fatalf("Expected capacity 4, got %d", mb.Cap())
	}

	for i := 0; i < 4; i++ {
		if err := mb.Push(NewMessage("n", i)); err != nil {
			t.Fatalf("Push %d failed: %v", i, err)
		}
	}

	err := mb.Push(NewMessage("n", 4))
	if !errors.Is(err, ErrMailboxOverflow) {
		t.Fatalf("Expected ErrMailboxOverflow, got %v", err)
	}

	// The failed push must not disturb queued messages.
	if mb.Len() != 4 {
		t.Errorf("Expected 4 queued messages, got %d", mb.Len())
	}

	for i := 0; i < 4; i++ {
		msg := <-mb.ch
		if msg.Payload.(int) != i {
			t.Errorf("Expected payload %d in FIFO order, got %v", i, msg.Payload)
		}
	}
}

func TestMailboxDefaultCapacity(t *testing.T) {
	mb := NewMailbox(0)
	if mb.Cap() != DefaultMailboxSize {
		t.Errorf("Expected default capacity %d, got %d", DefaultMailboxSize, mb.Cap())
	}
}
