package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an income or expense entry.",
		Example: `
ledger add -d "Miete" -a 850 --category 2
ledger add -d "Gehalt" -a 2500,00 -t income --date 2024-03-01
ledger add -d "Flug" -a 320 -p 1 -p 4 -n "Hin und zurück"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := eo.NewEntry(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := add.Add{Service: s.service(), Payload: payload, JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	registerCatalogCompletions(cmd)

	topLevel.AddCommand(cmd)
}
