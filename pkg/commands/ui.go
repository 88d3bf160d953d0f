package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/runner/ui"
	"tableflip.dev/ledger/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the dashboard.",
		Example: `
ledger ui
ledger ui --api-url http://nas.local:8000
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("ledger ui needs an interactive terminal")
			}
			s, err := newSession(true)
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, err := store.OpenPrefs(s.cfg.StatePath)
			if err != nil {
				s.log.WithError(err).Warn("preferences disabled")
				prefs = nil
			}

			i := ui.UI{
				Controller:     app.NewController(s.service(), app.NewState(), s.log),
				Prefs:          prefs,
				Log:            s.log,
				RestoreFilters: s.cfg.RestoreFilters,
				Config:         viper.GetViper(),
				Title:          "Ledger · " + s.client.BaseURL(),
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
