package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/summary"
)

func addSummary(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, the monthly balance and expenses per category.",
		Example: `
ledger summary
ledger summary --from 2024-01-01 --to 2024-06-30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fo.Filters()
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := summary.Summary{Service: s.service(), Filters: f, JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddOutputArg(cmd, oo)
	registerCatalogCompletions(cmd)

	topLevel.AddCommand(cmd)
}
