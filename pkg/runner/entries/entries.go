// Package entries lists ledger entries on the command line.
package entries

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

// Entries prints the entries matching Filters, newest first as returned by
// the API.
type Entries struct {
	Service *app.Service
	Filters ledger.Filters
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (n *Entries) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list entries, no service")
	}
	if err := n.Filters.Validate(); err != nil {
		return err
	}
	all, err := n.Service.Entries(ctx, n.Filters)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(all)
	}
	title := "Einträge"
	if !n.Filters.IsEmpty() {
		title += " (" + n.Filters.String() + ")"
	}
	pp.TitleWithCount(title, len(all))
	pp.Entries(all...)
	return nil
}
