package options

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/timeutil"
)

// FilterOptions are the entry/summary query flags.
type FilterOptions struct {
	Category string
	Project  string
	Type     string
	From     string
	To       string
	Last     string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVar(&o.Category, "category", "",
		"Only entries in this category id.")
	cmd.Flags().StringVar(&o.Project, "project", "",
		"Only entries assigned to this project id.")
	cmd.Flags().StringVar(&o.Type, "type", "",
		`Only "income" or "expense" entries.`)
	cmd.Flags().StringVar(&o.From, "from", "",
		`Earliest date, example: --from="2024-01-01".`)
	cmd.Flags().StringVar(&o.To, "to", "",
		`Latest date, example: --to="2024-12-31".`)
	cmd.Flags().StringVar(&o.Last, "last", "",
		`Only the trailing window up to today, example: --last=30d, --last=3m, --last=1y.`)
}

// Filters builds the validated filter set. Unset flags are left out.
func (o *FilterOptions) Filters() (ledger.Filters, error) {
	return o.FiltersAt(time.Now())
}

// FiltersAt is Filters with --last resolved relative to now.
func (o *FilterOptions) FiltersAt(now time.Time) (ledger.Filters, error) {
	from := strings.TrimSpace(o.From)
	if last := strings.TrimSpace(o.Last); last != "" {
		if from != "" {
			return nil, errors.New("--last and --from are mutually exclusive")
		}
		w, _, err := timeutil.ParseWindow(last)
		if err != nil {
			return nil, err
		}
		from = timeutil.Since(now, w)
	}
	f := ledger.Filters{}.
		With(ledger.FilterCategory, strings.TrimSpace(o.Category)).
		With(ledger.FilterProject, strings.TrimSpace(o.Project)).
		With(ledger.FilterDateFrom, from).
		With(ledger.FilterDateTo, strings.TrimSpace(o.To))
	if t := strings.TrimSpace(o.Type); t != "" {
		et, err := ledger.ParseEntryType(t)
		if err != nil {
			return nil, err
		}
		f = f.With(ledger.FilterType, string(et))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}
