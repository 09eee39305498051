package notifications

import (
	"log"

	"github.com/google/uuid"
	ws "github.com/mkamau56/tutorhub/websocket"
)

const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Notification is the fire-and-forget payload shown to a user after a
// mutating operation. Exactly one is emitted per outcome.
type Notification struct {
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
}

// Notify logs the notification and, when it concerns a known user,
// pushes it over that user's websocket stream.
func Notify(n Notification) {
	log.Printf("[notify:%s] %s: %s", n.Severity, n.Title, n.Description)
	ws.Push(n.UserID, n)
}

// Dispatcher adapts Notify to the interface the session store expects.
type Dispatcher struct{}

func (Dispatcher) Notify(n Notification) {
	Notify(n)
}
