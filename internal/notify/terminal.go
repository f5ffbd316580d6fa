package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

// TerminalNotifier prints notifications to a terminal.
type TerminalNotifier struct {
	out          io.Writer
	mu           sync.Mutex
	enabled      bool
	bellEnabled  bool
	colorEnabled bool
}

// NewTerminalNotifier creates a TerminalNotifier writing to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{
		out:          out,
		enabled:      true,
		colorEnabled: true,
	}
}

// SetBellEnabled enables or disables the terminal bell on alerts.
func (tn *TerminalNotifier) SetBellEnabled(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.bellEnabled = enabled
}

// SetColorEnabled enables or disables ANSI colors.
func (tn *TerminalNotifier) SetColorEnabled(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.colorEnabled = enabled
}

// SetEnabled enables or disables the notifier.
func (tn *TerminalNotifier) SetEnabled(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.enabled = enabled
}

// Name returns the name of the notifier.
func (tn *TerminalNotifier) Name() string {
	return "terminal"
}

// IsEnabled returns whether the notifier is enabled.
func (tn *TerminalNotifier) IsEnabled() bool {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	return tn.enabled
}

// Send writes the notification as a single line.
func (tn *TerminalNotifier) Send(ctx context.Context, n Notification) error {
	tn.mu.Lock()
	defer tn.mu.Unlock()

	line := FormatNotification(n, tn.colorEnabled)
	if tn.bellEnabled && n.Type == NotificationAlert {
		line = "\a" + line
	}
	if _, err := fmt.Fprintln(tn.out, line); err != nil {
		return fmt.Errorf("writing notification: %w", err)
	}
	return nil
}

// FormatNotification formats a notification for terminal display.
func FormatNotification(n Notification, colorEnabled bool) string {
	var sb strings.Builder

	var typeIndicator, color, resetColor string
	switch n.Type {
	case NotificationAlert:
		typeIndicator, color = "ALERT", colorRed
	case NotificationTarget:
		typeIndicator, color = "TARGET", colorGreen
	case NotificationTrade:
		typeIndicator, color = "TRADE", colorCyan
	case NotificationInfo:
		typeIndicator, color = "INFO", colorWhite
	default:
		typeIndicator, color = strings.ToUpper(string(n.Type)), colorYellow
	}
	if colorEnabled {
		resetColor = colorReset
	} else {
		color = ""
	}

	timestamp := n.Timestamp.Format("15:04:05")
	sb.WriteString(fmt.Sprintf("%s[%s] %s%s", color, timestamp, typeIndicator, resetColor))

	if n.Title != "" {
		sb.WriteString(fmt.Sprintf(" | %s", n.Title))
	}
	if n.Message != "" {
		sb.WriteString(fmt.Sprintf(" | %s", n.Message))
	}

	return sb.String()
}
