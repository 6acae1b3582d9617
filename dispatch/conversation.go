package dispatch

import (
	"sync"

	"github.com/idelcare/nursebot/model"
)

type ActionType string

const ActionCreatePatient ActionType = "CREATE_PATIENT"

// PendingAction is a provisionally approved mutation awaiting explicit
// user confirmation.
type PendingAction struct {
	Type    ActionType
	Patient model.Patient
}

// Conversation owns the single pending-action slot for one logged-in
// session. At most one pending action exists at a time; the last one wins,
// replaced wholesale, never merged.
type Conversation struct {
	mu      sync.Mutex
	pending *PendingAction
}

func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) SetPending(action PendingAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &action
}

// TakePending returns and clears the pending action, if any.
func (c *Conversation) TakePending() (PendingAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PendingAction{}, false
	}
	action := *c.pending
	c.pending = nil
	return action, true
}

func (c *Conversation) HasPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}
