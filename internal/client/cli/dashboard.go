package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sumit8974/fintrack-cli/internal/client/tui"
)

// Dashboard opens the full-screen month view over the loaded store data.
func (a *App) Dashboard() {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return
	}

	model := tui.NewModel(a.store.Transactions(), time.Now())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(a.out, "dashboard error:", err)
	}
}
