// Package tui renders the month dashboard: summary cards, a per-category
// spend breakdown, and a daily expense trend chart.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sumit8974/fintrack-cli/internal/client/models"
)

var (
	colorSuccess = lipgloss.Color("#a6e3a1")
	colorError   = lipgloss.Color("#f38ba8")
	colorAccent  = lipgloss.Color("#89b4fa")
	colorMuted   = lipgloss.Color("#6c7086")
	colorBar     = lipgloss.Color("#fab387")

	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle = lipgloss.NewStyle().Bold(true)
	paneStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

type keyMap struct {
	Prev key.Binding
	Next key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Quit}}
}

var defaultKeys = keyMap{
	Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev month")),
	Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next month")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is a bubbletea model over a fixed transaction snapshot. Month
// navigation refilters the snapshot; it never talks to the network.
type Model struct {
	transactions []models.Transaction
	month        time.Month
	year         int
	width        int
	height       int
	keys         keyMap
	help         help.Model
}

func NewModel(transactions []models.Transaction, now time.Time) Model {
	return Model{
		transactions: transactions,
		month:        now.Month(),
		year:         now.Year(),
		width:        80,
		height:       24,
		keys:         defaultKeys,
		help:         help.New(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.month, m.year = prevMonth(m.month, m.year)
		case key.Matches(msg, m.keys.Next):
			m.month, m.year = nextMonth(m.month, m.year)
		}
	}
	return m, nil
}

func (m Model) View() string {
	txs := inMonth(m.transactions, m.month, m.year)
	summary := Summarize(txs)

	inner := m.width - 4
	if inner < 40 {
		inner = 40
	}

	header := titleStyle.Render(fmt.Sprintf("Dashboard  %s %d", m.month, m.year))

	cards := paneStyle.Width(inner).Render(renderSummary(summary, len(txs)))
	breakdown := paneStyle.Width(inner).Render(renderBreakdown(CategorySpend(txs), summary.Expense))
	trend := paneStyle.Width(inner).Render(renderTrend(txs, m.month, m.year, inner-2))

	return strings.Join([]string{
		header,
		cards,
		breakdown,
		trend,
		m.help.View(m.keys),
	}, "\n")
}

// Summary holds the month totals.
type Summary struct {
	Income  float64
	Expense float64
}

func (s Summary) Net() float64 { return s.Income - s.Expense }

func Summarize(txs []models.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case models.TransactionTypeIncome:
			s.Income += t.Amount
		case models.TransactionTypeExpense:
			s.Expense += t.Amount
		}
	}
	return s
}

type categoryTotal struct {
	Name   string
	Amount float64
}

// CategorySpend sums expenses per category, largest first. Ties break on
// name so the order is stable.
func CategorySpend(txs []models.Transaction) []categoryTotal {
	byName := make(map[string]float64)
	for _, t := range txs {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		name := t.Category
		if name == "" {
			name = "Uncategorised"
		}
		byName[name] += t.Amount
	}

	totals := make([]categoryTotal, 0, len(byName))
	for name, amount := range byName {
		totals = append(totals, categoryTotal{Name: name, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Name < totals[j].Name
	})
	return totals
}

// DailyExpenses returns one value per day of the month.
func DailyExpenses(txs []models.Transaction, month time.Month, year int) []float64 {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	out := make([]float64, days)
	for _, t := range txs {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		if t.Date.Month() != month || t.Date.Year() != year {
			continue
		}
		out[t.Date.Day()-1] += t.Amount
	}
	return out
}

func renderSummary(s Summary, count int) string {
	greenSty := lipgloss.NewStyle().Foreground(colorSuccess)
	redSty := lipgloss.NewStyle().Foreground(colorError)

	netSty := greenSty
	if s.Net() < 0 {
		netSty = redSty
	}

	return strings.Join([]string{
		labelStyle.Render("Income       ") + greenSty.Render(fmt.Sprintf("%10.2f", s.Income)),
		labelStyle.Render("Expense      ") + redSty.Render(fmt.Sprintf("%10.2f", s.Expense)),
		labelStyle.Render("Net          ") + netSty.Render(fmt.Sprintf("%10.2f", s.Net())),
		labelStyle.Render("Transactions ") + valueStyle.Render(fmt.Sprintf("%10d", count)),
	}, "\n")
}

func renderBreakdown(totals []categoryTotal, totalExpense float64) string {
	if len(totals) == 0 {
		return labelStyle.Render("No spending this month.")
	}

	barSty := lipgloss.NewStyle().Foreground(colorBar)
	const barWidth = 24

	lines := make([]string, 0, len(totals))
	for _, c := range totals {
		share := 0.0
		if totalExpense > 0 {
			share = c.Amount / totalExpense
		}
		filled := int(share*barWidth + 0.5)
		if filled > barWidth {
			filled = barWidth
		}
		bar := barSty.Render(strings.Repeat("█", filled)) +
			labelStyle.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%-14s %s %8.2f (%3.0f%%)",
			truncate(c.Name, 14), bar, c.Amount, share*100))
	}
	return strings.Join(lines, "\n")
}

func renderTrend(txs []models.Transaction, month time.Month, year int, width int) string {
	daily := DailyExpenses(txs, month, year)

	var maxVal float64
	for _, v := range daily {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return labelStyle.Render("No daily spend to chart.")
	}

	if width < 30 {
		width = 30
	}
	chart := tslc.New(width, 10)
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorBar))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorMuted)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, len(daily), 0, 0, 0, 0, time.UTC)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, maxVal)
	chart.SetViewYRange(0, maxVal)

	for i, v := range daily {
		chart.Push(tslc.TimePoint{Time: start.AddDate(0, 0, i), Value: v})
	}
	chart.DrawBraille()

	return labelStyle.Render("Daily expenses") + "\n" + chart.View()
}

func inMonth(txs []models.Transaction, month time.Month, year int) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.InMonth(month, year) {
			out = append(out, t)
		}
	}
	return out
}

func prevMonth(m time.Month, y int) (time.Month, int) {
	if m == time.January {
		return time.December, y - 1
	}
	return m - 1, y
}

func nextMonth(m time.Month, y int) (time.Month, int) {
	if m == time.December {
		return time.January, y + 1
	}
	return m + 1, y
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
