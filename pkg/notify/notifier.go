package notify

import (
	"context"
	"log"
)

// Notifier is how the ledger tells someone that money moved (or failed to).
// recipient is a delivery address (an email for the SMTP notifier; the log
// notifier prints whatever it is given). Delivery is best-effort; ledger
// operations never fail because of it.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// LogNotifier is the default when no SMTP config is present.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	log.Printf("notify %s: %s - %s", recipient, subject, body)
	return nil
}
