package commands

import (
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/ledger/pkg/api"
	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/logging"
	"tableflip.dev/ledger/pkg/store"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:           "ledger",
		Short:         options.Wrap80("Household ledger on the command line, backed by the ledger REST API."),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if termenv.EnvNoColor() {
				color.NoColor = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("api-url", "",
		"Base URL of the ledger API, example: --api-url=http://localhost:8000.")
	cmd.PersistentFlags().Duration("timeout", 0,
		"Request timeout, example: --timeout=5s.")
	_ = viper.BindPFlag(store.KeyAPIURL, cmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag(store.KeyTimeout, cmd.PersistentFlags().Lookup("timeout"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addEntries(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addCategories(topLevel)
	addProjects(topLevel)
	addSummary(topLevel)
	addExport(topLevel)
	addHealth(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// session is what every API command needs: config, a logger and a client.
type session struct {
	cfg    *store.Config
	log    *logrus.Logger
	closer io.Closer
	client *api.Client
}

// newSession loads the config and builds the API client. toFile sends logs
// to the configured log file instead of stderr.
func newSession(toFile bool) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	logFile := ""
	if toFile {
		logFile = cfg.LogFile
	}
	level := cfg.LogLevel
	if !toFile && level == "info" {
		// Request logs at info stay out of table output.
		level = "warn"
	}
	log, closer, err := logging.Setup(level, logFile)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client, err := api.New(cfg.APIURL,
		api.WithTimeout(timeout),
		api.WithLogger(log),
	)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, closer: closer, client: client}, nil
}

func (s *session) service() *app.Service {
	return &app.Service{Backend: s.client}
}

func (s *session) Close() error {
	return s.closer.Close()
}
