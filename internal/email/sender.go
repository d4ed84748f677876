package email

import "context"

// Sender is the interface that all email providers must implement.
// This abstraction allows swapping email providers (SMTP, Gmail, etc.)
// without changing dispatch logic.
type Sender interface {
	// Send submits one message. A returned error means the recipient was not reached.
	Send(ctx context.Context, msg Message) error
}

// Prober checks that the transport accepts the configured credentials
// before the operator enters the main workflow.
type Prober interface {
	Probe(ctx context.Context) error
}

// Transport is a Sender that can also be probed
type Transport interface {
	Sender
	Prober
}

// Message represents an email message to be sent.
type Message struct {
	From     string // sender address
	To       string // recipient email address
	Subject  string // email subject
	HTMLBody string // HTML email body
	TextBody string // plain-text fallback body
}
