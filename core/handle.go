package core

// Handle is the caller-facing reference returned by Spawn. It stays bound
// to the actor instance it was created for; after that instance stops, the
// handle rejects sends even if a new actor is later spawned under the same
// name.
type Handle struct {
	name  string
	actor *liveActor
}

// Name returns the actor name the handle refers to.
func (h *Handle) Name() string {
	return h.name
}

// Send enqueues a message into the actor's mailbox.
func (h *Handle) Send(msg *Message) error {
	return h.actor.send(msg)
}

// Stop removes the actor from the registry. Safe to call more than once.
func (h *Handle) Stop() {
	h.actor.system.deregister(h.actor)
}

// State returns the actor's current lifecycle state.
func (h *Handle) State() ActorState {
	return h.actor.State()
}

// MailboxLen returns the number of messages waiting in the mailbox.
func (h *Handle) MailboxLen() int {
	return h.actor.mailbox.Len()
}
