// Package export writes entries to a spreadsheet.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

// Export fetches the filtered entries and summary and writes them to Path as
// an xlsx workbook.
type Export struct {
	Service *app.Service
	Filters ledger.Filters
	Path    string
	Out     io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	if n.Path == "" {
		return errors.New("can not export, no file")
	}
	if err := n.Filters.Validate(); err != nil {
		return err
	}

	var (
		entries []ledger.Entry
		summary *ledger.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = n.Service.Entries(gctx, n.Filters)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = n.Service.Summary(gctx, n.Filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	f, err := os.Create(n.Path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := printers.Workbook(f, entries, *summary); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.Faint).Fprintf(out, "%d Einträge nach %s exportiert.\n", len(entries), n.Path)
	return nil
}
