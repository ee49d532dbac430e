// Package notifier provides desktop notifications for awaited operations
package notifier

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/tickbridge/tickbridge/pkg/interfaces"
	"github.com/tickbridge/tickbridge/pkg/logger"
)

var _ interfaces.Notifier = (*AwaitNotifier)(nil)

// AwaitNotifier surfaces the outcome of long-running awaited operations
// as desktop notifications. Disabled notifiers swallow everything, which
// is the default for headless runs and tests.
type AwaitNotifier struct {
	enabled bool
	logger  logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled bool
}

// New creates a new await notifier
func New(config Config, log logger.Logger) *AwaitNotifier {
	return &AwaitNotifier{
		enabled: config.Enabled,
		logger:  log,
	}
}

// Notify sends a plain notification
func (n *AwaitNotifier) Notify(title, message string) error {
	if !n.enabled {
		return nil
	}
	return n.send(title, message)
}

// NotifyCompleted notifies that an awaited operation finished
func (n *AwaitNotifier) NotifyCompleted(name string, duration time.Duration) {
	if !n.enabled {
		return
	}

	message := fmt.Sprintf("%s completed in %s", name, formatDuration(duration))
	if err := n.send("Operation Completed", message); err != nil && n.logger != nil {
		n.logger.Debug("failed to send notification", logger.WithField("error", err))
	}
}

// NotifyFailed notifies that an awaited operation failed
func (n *AwaitNotifier) NotifyFailed(name string, opErr error) {
	if !n.enabled {
		return
	}

	message := fmt.Sprintf("%s: %v", name, opErr)
	if err := n.send("Operation Failed", message); err != nil && n.logger != nil {
		n.logger.Debug("failed to send notification", logger.WithField("error", err))
	}
}

func (n *AwaitNotifier) send(title, message string) error {
	return beeep.Notify(title, message, "")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
