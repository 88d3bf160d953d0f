// Package dashboard renders the summary aggregate as terminal charts.
package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/money"
	"tableflip.dev/ledger/pkg/tui/theme"
)

const (
	titleMonthly  = "Monatliche Einnahmen vs. Ausgaben"
	titleCategory = "Ausgaben nach Kategorie"
	titleTrend    = "Monatstrend (Bilanz)"
	noData        = "Keine Daten"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// BalancePoint is one month of the derived trend.
type BalancePoint struct {
	Month   string
	Income  float64
	Expense float64
	Balance float64
}

// BalanceSeries derives income minus expense for every month. This is the
// only aggregate computed on the client.
func BalanceSeries(monthly []ledger.MonthlyTotal) []BalancePoint {
	out := make([]BalancePoint, 0, len(monthly))
	for _, m := range monthly {
		out = append(out, BalancePoint{
			Month:   m.Month,
			Income:  m.Income,
			Expense: m.Expense,
			Balance: money.Sub(m.Income, m.Expense),
		})
	}
	return out
}

// Model renders a Summary inside a scrollable viewport.
type Model struct {
	theme    theme.Theme
	viewport viewport.Model
	summary  ledger.Summary

	width  int
	height int
}

// New returns a dashboard sized to width x height.
func New(th theme.Theme, width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{theme: th, viewport: vp}
	m.SetSize(width, height)
	return m
}

// SetSummary replaces the rendered aggregate.
func (m *Model) SetSummary(s ledger.Summary) {
	m.summary = s
	m.refresh()
}

// Summary returns the aggregate currently shown.
func (m *Model) Summary() ledger.Summary {
	return m.summary
}

// SetSize resizes the viewport and re-renders the charts to fit.
func (m *Model) SetSize(width, height int) {
	if width < 40 {
		width = 40
	}
	if height < 5 {
		height = 5
	}
	m.width, m.height = width, height
	m.viewport.SetWidth(width)
	m.viewport.SetHeight(height)
	m.refresh()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the visible part of the dashboard.
func (m *Model) View() (string, *tea.Cursor) {
	return m.viewport.View(), nil
}

// Content renders the full dashboard without the viewport window.
func (m *Model) Content() string {
	sections := []string{
		m.renderCards(),
		m.section(titleMonthly, m.renderMonthly()),
		m.section(titleCategory, m.renderCategories()),
		m.section(titleTrend, m.renderTrend()),
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.Content())
}

func (m *Model) section(title, body string) string {
	return m.theme.Panel.Title.Render(title) + "\n" + body
}

func (m *Model) renderCards() string {
	mt := m.theme.Money
	balanceStyle := mt.Balance
	if m.summary.Balance < 0 {
		balanceStyle = mt.Deficit
	}
	cardWidth := max((m.width-6)/3-4, 14)
	card := func(label, value string, style lipgloss.Style) string {
		body := m.theme.Panel.Muted.Render(label) + "\n" + style.Bold(true).Render(value)
		return m.theme.Panel.Frame.Width(cardWidth).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Einnahmen", money.Format(m.summary.TotalIncome), mt.Income),
		" ",
		card("Ausgaben", money.Format(m.summary.TotalExpense), mt.Expense),
		" ",
		card("Bilanz", money.Format(m.summary.Balance), balanceStyle),
	)
}

// renderMonthly draws one income and one expense bar per month, scaled to
// the largest value in the series.
func (m *Model) renderMonthly() string {
	if len(m.summary.Monthly) == 0 {
		return m.theme.Panel.Muted.Render(noData)
	}
	peak := 0.0
	for _, p := range m.summary.Monthly {
		peak = math.Max(peak, math.Max(p.Income, p.Expense))
	}
	labelW := 8
	valueW := 14
	barW := max(m.width-labelW-valueW-4, 10)

	var lines []string
	for _, p := range m.summary.Monthly {
		lines = append(lines,
			fmt.Sprintf("%-*s %s %s", labelW, p.Month, m.theme.Money.Income.Render(bar(p.Income, peak, barW)), money.Format(p.Income)),
			fmt.Sprintf("%-*s %s %s", labelW, "", m.theme.Money.Expense.Render(bar(p.Expense, peak, barW)), money.Format(p.Expense)),
		)
	}
	legend := m.theme.Money.Income.Render("■ Einnahmen") + "  " + m.theme.Money.Expense.Render("■ Ausgaben")
	return strings.Join(append(lines, legend), "\n")
}

// renderCategories shows each category's share of all expenses.
func (m *Model) renderCategories() string {
	if len(m.summary.ByCategory) == 0 {
		return m.theme.Panel.Muted.Render(noData)
	}
	total := 0.0
	nameW := 4
	for _, c := range m.summary.ByCategory {
		total += c.Value
		nameW = max(nameW, min(lipgloss.Width(c.Name), 20))
	}
	barW := max(m.width-nameW-24, 10)

	lines := make([]string, 0, len(m.summary.ByCategory))
	for i, c := range m.summary.ByCategory {
		style := m.theme.Series(i)
		name := truncate.StringWithTail(c.Name, uint(nameW), "…")
		pct := money.Percent(c.Value, total)
		lines = append(lines, fmt.Sprintf("%s %-*s %s %s %3d%%",
			style.Render("●"), nameW, name,
			style.Render(bar(c.Value, total, barW)),
			money.Format(c.Value), pct))
	}
	return strings.Join(lines, "\n")
}

// renderTrend lists the derived balance per month with a sparkline.
func (m *Model) renderTrend() string {
	series := BalanceSeries(m.summary.Monthly)
	if len(series) == 0 {
		return m.theme.Panel.Muted.Render(noData)
	}
	mt := m.theme.Money
	header := m.theme.Table.Header.Render(fmt.Sprintf("%-8s %14s %14s %14s", "Monat", "Einnahmen", "Ausgaben", "Bilanz"))
	lines := []string{header}
	balances := make([]float64, 0, len(series))
	for _, p := range series {
		balanceStyle := mt.Balance
		if p.Balance < 0 {
			balanceStyle = mt.Deficit
		}
		lines = append(lines, fmt.Sprintf("%-8s %s %s %s",
			p.Month,
			mt.Income.Render(fmt.Sprintf("%14s", money.Format(p.Income))),
			mt.Expense.Render(fmt.Sprintf("%14s", money.Format(p.Expense))),
			balanceStyle.Render(fmt.Sprintf("%14s", money.Format(p.Balance))),
		))
		balances = append(balances, p.Balance)
	}
	lines = append(lines, "", m.theme.Panel.Muted.Render("Bilanz ")+mt.Balance.Render(Sparkline(balances)))
	return strings.Join(lines, "\n")
}

// Sparkline maps values onto eight block heights between their min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkRunes)-1)))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func bar(value, peak float64, width int) string {
	if peak <= 0 || value <= 0 || width <= 0 {
		return strings.Repeat(" ", width)
	}
	n := int(math.Round(value / peak * float64(width)))
	n = min(max(n, 1), width)
	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}
