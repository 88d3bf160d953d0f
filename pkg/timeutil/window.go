// Package timeutil parses calendar windows such as "30d" or "1y6m" into the
// date ranges used by entry filters.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/ledger/pkg/ledger"
)

const (
	// DefaultWindow is used when an empty window is parsed.
	DefaultWindow = "1m"
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-zä]+)`)
	unitMap       = map[string]Window{
		"d":      {Days: 1},
		"day":    {Days: 1},
		"days":   {Days: 1},
		"t":      {Days: 1},
		"tag":    {Days: 1},
		"tage":   {Days: 1},
		"w":      {Days: 7},
		"wk":     {Days: 7},
		"week":   {Days: 7},
		"weeks":  {Days: 7},
		"woche":  {Days: 7},
		"wochen": {Days: 7},
		"m":      {Months: 1},
		"mo":     {Months: 1},
		"month":  {Months: 1},
		"months": {Months: 1},
		"monat":  {Months: 1},
		"monate": {Months: 1},
		"y":      {Years: 1},
		"yr":     {Years: 1},
		"year":   {Years: 1},
		"years":  {Years: 1},
		"j":      {Years: 1},
		"jahr":   {Years: 1},
		"jahre":  {Years: 1},
	}
)

// Window is a calendar span. Months and years follow time.AddDate
// normalization.
type Window struct {
	Years  int
	Months int
	Days   int
}

// IsZero reports whether the window spans nothing.
func (w Window) IsZero() bool {
	return w.Years == 0 && w.Months == 0 && w.Days == 0
}

func (w Window) add(o Window, n int) Window {
	return Window{
		Years:  w.Years + o.Years*n,
		Months: w.Months + o.Months*n,
		Days:   w.Days + o.Days*n,
	}
}

// ParseWindow parses a human-friendly window ("30d", "2w", "1y6m") and
// returns it along with its canonical form.
func ParseWindow(input string) (Window, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	var total Window
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return Window{}, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return Window{}, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		unit, ok := unitMap[matches[2]]
		if !ok {
			return Window{}, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total = total.add(unit, value)
		remaining = remaining[len(matches[0]):]
	}

	if total.IsZero() {
		return Window{}, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders w using y/m/w/d tokens.
func FormatWindow(w Window) string {
	if w.IsZero() {
		return "0d"
	}
	var parts []string
	if w.Years > 0 {
		parts = append(parts, fmt.Sprintf("%dy", w.Years))
	}
	if w.Months > 0 {
		parts = append(parts, fmt.Sprintf("%dm", w.Months))
	}
	if weeks := w.Days / 7; weeks > 0 {
		parts = append(parts, fmt.Sprintf("%dw", weeks))
	}
	if days := w.Days % 7; days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	return strings.Join(parts, "")
}

// Since returns the first date inside the window ending on now, formatted
// as a filter date. A one day window starts today.
func Since(now time.Time, w Window) string {
	start := now.AddDate(-w.Years, -w.Months, -w.Days+1)
	return start.Format(ledger.DateLayout)
}

// MonthStart returns the first day of now's month as a filter date.
func MonthStart(now time.Time) string {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(ledger.DateLayout)
}
