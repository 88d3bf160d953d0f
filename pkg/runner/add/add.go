package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/ledger"
	"tableflip.dev/ledger/pkg/printers"
)

// Add creates one entry and prints what the server stored.
type Add struct {
	Service *app.Service
	Payload ledger.NewEntry
	JSON    bool
	Out     io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	created, err := n.Service.Create(ctx, n.Payload)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(created)
	}
	pp.Title("Neuer Eintrag")
	pp.Entry(*created)
	return nil
}
