// Package edit patches an existing entry.
package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

// Edit sends Patch for entry ID. Only the fields set on Patch are sent.
type Edit struct {
	Service *app.Service
	ID      int64
	Patch   ledger.EntryPatch
	JSON    bool
	Out     io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	if n.ID <= 0 {
		return ledger.ErrInvalidID
	}
	updated, err := n.Service.Update(ctx, n.ID, n.Patch)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(updated)
	}
	pp.Title("Eintrag aktualisiert")
	pp.Entry(*updated)
	return nil
}
