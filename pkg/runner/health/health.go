// Package health checks that the ledger API answers.
package health

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/ledger/pkg/printers"
)

// Checker is satisfied by *api.Client.
type Checker interface {
	Health(ctx context.Context) error
	BaseURL() string
}

// Health reports the API status.
type Health struct {
	Client Checker
	JSON   bool
	Out    io.Writer
}

func (n *Health) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not check health, no client")
	}
	if err := n.Client.Health(ctx); err != nil {
		return fmt.Errorf("%s: %w", n.Client.BaseURL(), err)
	}

	if n.JSON {
		pp := printers.PrettyPrint{Out: n.Out}
		return pp.JSON(map[string]string{"status": "ok", "api_url": n.Client.BaseURL()})
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("ok"), n.Client.BaseURL())
	return nil
}
