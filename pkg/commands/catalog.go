package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/catalog"
)

func addCategories(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := catalog.Categories{Service: s.service(), JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addProjects(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects.",
		Example: `
ledger projects
ledger projects add "Urlaub 2024"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := catalog.Projects{Service: s.service(), JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	addProjectsAdd(cmd)

	topLevel.AddCommand(cmd)
}

func addProjectsAdd(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := catalog.AddProject{Service: s.service(), Name: strings.Join(args, " "), JSON: oo.JSON}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
