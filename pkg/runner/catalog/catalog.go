// Package catalog lists categories and projects and creates projects.
package catalog

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/ledger/pkg/app"
	"tableflip.dev/ledger/pkg/printers"
)

var errNoService = errors.New("catalog: no service")

// Categories prints the category list.
type Categories struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Categories) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	all, err := n.Service.Categories(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(all)
	}
	pp.TitleWithCount("Kategorien", len(all))
	pp.Categories(all...)
	return nil
}

// Projects prints the project list.
type Projects struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Projects) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	all, err := n.Service.Projects(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(all)
	}
	pp.TitleWithCount("Projekte", len(all))
	pp.Projects(all...)
	return nil
}

// AddProject creates a project by name.
type AddProject struct {
	Service *app.Service
	Name    string
	JSON    bool
	Out     io.Writer
}

func (n *AddProject) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	p, err := n.Service.CreateProject(ctx, n.Name)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(p)
	}
	pp.Projects(*p)
	return nil
}
