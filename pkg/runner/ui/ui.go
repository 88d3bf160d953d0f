// Package ui launches the interactive dashboard.
package ui

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/logging"
	"tableflip.dev/ledger/pkg/store"
	tui "tableflip.dev/ledger/pkg/tui/ui"
)

// UI runs the dashboard against Controller.
type UI struct {
	Controller     *app.Controller
	Prefs          *store.Prefs
	Log            *logrus.Logger
	RestoreFilters bool
	// Config, when set, is watched so log level edits apply live.
	Config *viper.Viper
	Title  string
}

func (d *UI) Do(ctx context.Context) error {
	if d.Controller == nil {
		return errors.New("can not start ui, no controller")
	}
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}

	opts := tui.Options{Log: log, Title: d.Title}
	if d.Prefs != nil {
		d.restore(log)
		opts.Prefs = d.Prefs
	}
	if d.Config != nil {
		store.WatchConfig(d.Config, func(cfg *store.Config) {
			if logging.SetLevel(log, cfg.LogLevel) {
				log.WithField("level", cfg.LogLevel).Info("log level changed")
			}
		}, func(err error) {
			log.WithError(err).Warn("ignoring invalid config change")
		})
	}

	log.Info("starting dashboard")
	return tui.Run(ctx, d.Controller, opts)
}

func (d *UI) restore(log logrus.FieldLogger) {
	prefs, err := d.Prefs.Load()
	if err != nil {
		log.WithError(err).Warn("could not restore preferences")
		return
	}
	d.Controller.State.SetView(prefs.View)
	if d.RestoreFilters {
		d.Controller.State.SetFilters(prefs.Filters)
	}
}
