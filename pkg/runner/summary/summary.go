// Package summary prints the ledger totals.
package summary

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

// Summary prints totals, the monthly table and the category breakdown.
type Summary struct {
	Service *app.Service
	Filters ledger.Filters
	JSON    bool
	Out     io.Writer
}

func (n *Summary) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not summarize, no service")
	}
	if err := n.Filters.Validate(); err != nil {
		return err
	}
	s, err := n.Service.Summary(ctx, n.Filters)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(s)
	}
	pp.Title("Übersicht")
	pp.Summary(*s)
	return nil
}
