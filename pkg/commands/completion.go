package commands

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(ledger completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(ledger completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// registerCatalogCompletions completes --category and --project with ids
// from the API, described by name.
func registerCatalogCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalogCompletions(toComplete, true), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("project", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalogCompletions(toComplete, false), cobra.ShellCompDirectiveNoFileComp
	})
}

func catalogCompletions(toComplete string, categories bool) []string {
	s, err := newSession(false)
	if err != nil {
		return nil
	}
	defer s.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out := make([]string, 0)
	add := func(id int64, name string) {
		v := strconv.FormatInt(id, 10)
		if strings.HasPrefix(v, toComplete) {
			out = append(out, v+"\t"+name)
		}
	}
	if categories {
		all, err := s.service().Categories(ctx)
		if err != nil {
			return nil
		}
		for _, c := range all {
			add(c.ID, c.Name)
		}
		return out
	}
	all, err := s.service().Projects(ctx)
	if err != nil {
		return nil
	}
	for _, p := range all {
		add(p.ID, p.Name)
	}
	return out
}
