// Package notify delivers user-facing feedback for store and session
// operations, the terminal equivalent of the web client's toasts.
package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Notifier receives operation feedback. Implementations must be cheap and
// non-blocking; services call them synchronously.
type Notifier interface {
	Success(title, detail string)
	Error(title, detail string)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

// ConsoleNotifier renders notifications as styled lines on w.
type ConsoleNotifier struct {
	w io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Success(title, detail string) {
	n.write(successStyle.Render("✓ "+title), detail)
}

func (n *ConsoleNotifier) Error(title, detail string) {
	n.write(errorStyle.Render("✗ "+title), detail)
}

func (n *ConsoleNotifier) write(head, detail string) {
	if detail != "" {
		fmt.Fprintf(n.w, "%s %s\n", head, detailStyle.Render(detail))
		return
	}
	fmt.Fprintln(n.w, head)
}

// Notification is one recorded message.
type Notification struct {
	Kind   string // "success" or "error"
	Title  string
	Detail string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Success(title, detail string) {
	r.Notifications = append(r.Notifications, Notification{Kind: "success", Title: title, Detail: detail})
}

func (r *Recorder) Error(title, detail string) {
	r.Notifications = append(r.Notifications, Notification{Kind: "error", Title: title, Detail: detail})
}

// Last returns the most recent notification, or a zero value when none.
func (r *Recorder) Last() Notification {
	if len(r.Notifications) == 0 {
		return Notification{}
	}
	return r.Notifications[len(r.Notifications)-1]
}
