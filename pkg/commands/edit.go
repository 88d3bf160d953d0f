package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry. Only the flags given are sent.",
		Example: `
ledger edit 42 -a 860
ledger edit 42 --no-category --no-notes
ledger edit 42 -p 1 -p 2
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := options.ParseID(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			patch, err := eo.Patch(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := edit.Edit{Service: s.service(), ID: id, Patch: patch, JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.AddClearArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)
	registerCatalogCompletions(cmd)

	topLevel.AddCommand(cmd)
}
