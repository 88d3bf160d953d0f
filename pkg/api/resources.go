package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tableflip.dev/ledger/pkg/ledger"
)

const (
	pathEntries    = "/api/entries"
	pathSummary    = "/api/entries/summary"
	pathCategories = "/api/categories"
	pathProjects   = "/api/projects"
	pathHealth     = "/api/health"
)

// FetchEntries lists entries constrained by filters, in server order.
func (c *Client) FetchEntries(ctx context.Context, filters ledger.Filters) ([]ledger.Entry, error) {
	var out []ledger.Entry
	if err := c.do(ctx, http.MethodGet, pathEntries, filters.Query(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ledger.Entry{}
	}
	return out, nil
}

// CreateEntry posts a new entry and returns it with its server id.
func (c *Client) CreateEntry(ctx context.Context, payload ledger.NewEntry) (*ledger.Entry, error) {
	payload = payload.Normalized()
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	var out ledger.Entry
	if err := c.do(ctx, http.MethodPost, pathEntries, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntry sends the supplied fields of patch.
func (c *Client) UpdateEntry(ctx context.Context, id int64, patch ledger.EntryPatch) (*ledger.Entry, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var out ledger.Entry
	if err := c.do(ctx, http.MethodPut, entryPath(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEntry removes an entry. Deleting an id that no longer exists is not
// an error.
func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	err := c.do(ctx, http.MethodDelete, entryPath(id), nil, nil, nil)
	if IsNotFound(err) {
		c.log.WithField("id", id).Debug("entry already gone")
		return nil
	}
	return err
}

// FetchCategories lists every category.
func (c *Client) FetchCategories(ctx context.Context) ([]ledger.Category, error) {
	var out []ledger.Category
	if err := c.do(ctx, http.MethodGet, pathCategories, nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ledger.Category{}
	}
	return out, nil
}

// FetchProjects lists every project.
func (c *Client) FetchProjects(ctx context.Context) ([]ledger.Project, error) {
	var out []ledger.Project
	if err := c.do(ctx, http.MethodGet, pathProjects, nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ledger.Project{}
	}
	return out, nil
}

// CreateProject adds a project by name.
func (c *Client) CreateProject(ctx context.Context, name string) (*ledger.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("api: project name is required")
	}
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	var out ledger.Project
	if err := c.do(ctx, http.MethodPost, pathProjects, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSummary returns the aggregate for filters.
func (c *Client) FetchSummary(ctx context.Context, filters ledger.Filters) (*ledger.Summary, error) {
	var out ledger.Summary
	if err := c.do(ctx, http.MethodGet, pathSummary, filters.Query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks that the backend answers with status "ok".
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, pathHealth, nil, nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("api: health status %q", out.Status)
	}
	return nil
}

func entryPath(id int64) string {
	return fmt.Sprintf("%s/%d", pathEntries, id)
}
