package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry. Deleting a missing entry succeeds.",
		Example: `
ledger delete 42
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := options.ParseID(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := remove.Remove{Service: s.service(), ID: id, JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
