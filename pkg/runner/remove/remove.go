// Package remove deletes entries.
package remove

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

// Remove deletes entry ID. Deleting an entry that is already gone succeeds.
type Remove struct {
	Service *app.Service
	ID      int64
	JSON    bool
	Out     io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	if n.ID <= 0 {
		return ledger.ErrInvalidID
	}
	if err := n.Service.Delete(ctx, n.ID); err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(map[string]any{"deleted": n.ID})
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.Faint).Fprintf(out, "Eintrag %d gelöscht.\n", n.ID)
	return nil
}
