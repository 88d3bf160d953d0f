package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/entries"
)

func addEntries(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first.",
		Example: `
ledger entries
ledger ls --type expense --from 2024-01-01
ledger entries --category 3 --json
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

			n := entries.Entries{
				Service: s.service(),
				Filters: f,
				ShowID:  oo.ShowID,
				JSON:    oo.JSON,
			}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArg(cmd, oo)
	registerCatalogCompletions(cmd)

	topLevel.AddCommand(cmd)
}
