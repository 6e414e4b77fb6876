package store

import "sync"

// Notification is a user-facing status message emitted by the stores.
// Severity is one of the enum.Severity* values.
type Notification struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Notifier is the sink for store notifications.
type Notifier interface {
	Notify(message, severity string)
}

// Mailbox is a single-slot Notifier: each emission overwrites the
// previous one, and the consumer dismisses explicitly.
type Mailbox struct {
	mu      sync.Mutex
	current *Notification
}

// NewMailbox creates an empty Mailbox.
func NewMailbox() *Mailbox { return &Mailbox{} }

// Notify replaces the pending notification (last write wins).
func (m *Mailbox) Notify(message, severity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &Notification{Message: message, Severity: severity}
}

// Current returns the pending notification, or nil if none.
func (m *Mailbox) Current() *Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Dismiss clears the pending notification.
func (m *Mailbox) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// MultiNotifier fans each notification out to every sink, in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(message, severity string) {
	for _, n := range m {
		n.Notify(message, severity)
	}
}
