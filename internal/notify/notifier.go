// Package notify delivers customer and admin notifications. Delivery is
// fire-and-forget: no retries, no delivery guarantee.
package notify

import "go.uber.org/zap"

// Channel is the delivery medium for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Notifier sends a single notification to a recipient.
type Notifier interface {
	Notify(channel Channel, recipient, subject, body string)
}

// ConsoleNotifier simulates delivery by writing structured log entries.
// It stands in for a real email/SMS gateway, which this system does not
// integrate.
type ConsoleNotifier struct {
	logger *zap.Logger
}

// NewConsoleNotifier creates a notifier that logs simulated deliveries.
func NewConsoleNotifier(logger *zap.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

// Notify logs the would-be delivery. Empty recipients are skipped, which
// covers users without a phone number on the SMS channel.
func (n *ConsoleNotifier) Notify(channel Channel, recipient, subject, body string) {
	if recipient == "" {
		n.logger.Debug("Notification skipped, no recipient",
			zap.String("channel", string(channel)),
			zap.String("subject", subject),
		)
		return
	}

	n.logger.Info("SIMULATED notification sent",
		zap.String("channel", string(channel)),
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.String("body", body),
	)
}
