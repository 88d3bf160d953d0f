package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/ledger/pkg/ledger"
)

// Backend is the remote ledger API. *api.Client satisfies it.
type Backend interface {
	FetchEntries(ctx context.Context, filters ledger.Filters) ([]ledger.Entry, error)
	FetchCategories(ctx context.Context) ([]ledger.Category, error)
	FetchProjects(ctx context.Context) ([]ledger.Project, error)
	FetchSummary(ctx context.Context, filters ledger.Filters) (*ledger.Summary, error)
	CreateEntry(ctx context.Context, payload ledger.NewEntry) (*ledger.Entry, error)
	UpdateEntry(ctx context.Context, id int64, patch ledger.EntryPatch) (*ledger.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	CreateProject(ctx context.Context, name string) (*ledger.Project, error)
}

// Service provides the ledger operations shared by the dashboard and the CLI.
type Service struct {
	Backend Backend
}

var errNoBackend = errors.New("app: no backend configured")

// Snapshot is one consistent read of the four resources.
type Snapshot struct {
	Entries    []ledger.Entry
	Categories []ledger.Category
	Projects   []ledger.Project
	Summary    ledger.Summary
}

// Clone returns a deep enough copy for read-only consumers.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Entries:    ledger.CloneEntries(s.Entries),
		Categories: append([]ledger.Category(nil), s.Categories...),
		Projects:   append([]ledger.Project(nil), s.Projects...),
		Summary:    s.Summary,
	}
	out.Summary.Monthly = append([]ledger.MonthlyTotal(nil), s.Summary.Monthly...)
	out.Summary.ByCategory = append([]ledger.CategoryTotal(nil), s.Summary.ByCategory...)
	return out
}

// Snapshot fetches entries, categories, projects and the summary
// concurrently. Either all four succeed or the first error is returned and
// the remaining requests are cancelled.
func (s *Service) Snapshot(ctx context.Context, filters ledger.Filters) (Snapshot, error) {
	if s.Backend == nil {
		return Snapshot{}, errNoBackend
	}
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.Backend.FetchEntries(gctx, filters)
		if err != nil {
			return fmt.Errorf("entries: %w", err)
		}
		snap.Entries = entries
		return nil
	})
	g.Go(func() error {
		cats, err := s.Backend.FetchCategories(gctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		snap.Categories = cats
		return nil
	})
	g.Go(func() error {
		projects, err := s.Backend.FetchProjects(gctx)
		if err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		snap.Projects = projects
		return nil
	})
	g.Go(func() error {
		sum, err := s.Backend.FetchSummary(gctx, filters)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		if sum != nil {
			snap.Summary = *sum
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Create stores a new entry.
func (s *Service) Create(ctx context.Context, payload ledger.NewEntry) (*ledger.Entry, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.CreateEntry(ctx, payload)
}

// Update patches an existing entry.
func (s *Service) Update(ctx context.Context, id int64, patch ledger.EntryPatch) (*ledger.Entry, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	if patch.IsEmpty() {
		return nil, errors.New("app: nothing to update")
	}
	return s.Backend.UpdateEntry(ctx, id, patch)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.Backend == nil {
		return errNoBackend
	}
	return s.Backend.DeleteEntry(ctx, id)
}

// Entries lists entries without touching categories or the summary.
func (s *Service) Entries(ctx context.Context, filters ledger.Filters) ([]ledger.Entry, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.FetchEntries(ctx, filters)
}

// Categories lists categories.
func (s *Service) Categories(ctx context.Context) ([]ledger.Category, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.FetchCategories(ctx)
}

// Projects lists projects.
func (s *Service) Projects(ctx context.Context) ([]ledger.Project, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.FetchProjects(ctx)
}

// CreateProject adds a project.
func (s *Service) CreateProject(ctx context.Context, name string) (*ledger.Project, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.CreateProject(ctx, name)
}

// Summary fetches the aggregate for filters.
func (s *Service) Summary(ctx context.Context, filters ledger.Filters) (*ledger.Summary, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.FetchSummary(ctx, filters)
}
