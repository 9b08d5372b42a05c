// Package notifier pushes human-readable trade events to an external
// channel. Delivery is best effort; failures never block execution.
package notifier

// TextNotifier delivers a plain Markdown text message.
type TextNotifier interface {
	SendText(text string) error
}
