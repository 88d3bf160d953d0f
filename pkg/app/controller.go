package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"tableflip.dev/ledger/pkg/ledger"
)

// ErrReload marks a mutation that reached the backend but whose follow-up
// load failed. Retrying the mutation would repeat it.
var ErrReload = errors.New("reload after change failed")

// Controller orchestrates mutations and the reload that follows each of
// them. The server stays the source of truth: every mutation ends with a
// full load.
type Controller struct {
	Service *Service
	State   *State
	Log     logrus.FieldLogger
}

// NewController wires a controller. A nil logger discards output.
func NewController(svc *Service, state *State, log logrus.FieldLogger) *Controller {
	if state == nil {
		state = NewState()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Controller{Service: svc, State: state, Log: log}
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Seq     uint64
	Applied bool
}

// Load fetches all four resources for the current filters and applies them
// unless a newer load was issued in the meantime. On failure the previous
// data stays in place and the error is recorded.
func (c *Controller) Load(ctx context.Context) (LoadResult, error) {
	seq, filters := c.State.BeginLoad()
	log := c.Log.WithFields(logrus.Fields{"seq": seq, "filters": filters.String()})

	snap, err := c.Service.Snapshot(ctx, filters)
	if err != nil {
		if c.State.IsLatest(seq) {
			c.State.SetError(err)
		}
		log.WithError(err).Error("load failed")
		return LoadResult{Seq: seq}, err
	}
	applied := c.State.ApplyLoad(seq, snap)
	if !applied {
		log.Debug("discarded stale load")
	} else {
		log.WithField("entries", len(snap.Entries)).Debug("load applied")
	}
	return LoadResult{Seq: seq, Applied: applied}, nil
}

// HandleCreate creates the entry, closes the form and reloads. The new entry
// shows up only through the reload.
func (c *Controller) HandleCreate(ctx context.Context, payload ledger.NewEntry) (*ledger.Entry, error) {
	created, err := c.Service.Create(ctx, payload)
	if err != nil {
		c.fail("create failed", err)
		return nil, err
	}
	c.Log.WithField("id", created.ID).Info("entry created")
	c.State.CloseModal()
	if _, err := c.Load(ctx); err != nil {
		return created, fmt.Errorf("%w: %w", ErrReload, err)
	}
	return created, nil
}

// HandleUpdate patches the entry, clears the edit target and reloads.
func (c *Controller) HandleUpdate(ctx context.Context, id int64, patch ledger.EntryPatch) (*ledger.Entry, error) {
	updated, err := c.Service.Update(ctx, id, patch)
	if err != nil {
		c.fail("update failed", err)
		return nil, err
	}
	c.Log.WithField("id", id).Info("entry updated")
	c.State.CloseModal()
	if _, err := c.Load(ctx); err != nil {
		return updated, fmt.Errorf("%w: %w", ErrReload, err)
	}
	return updated, nil
}

// BeginDelete removes the entry locally so the UI reacts immediately.
func (c *Controller) BeginDelete(id int64) bool {
	return c.State.RemoveEntry(id)
}

// FinishDelete issues the delete and reloads regardless of its outcome, so
// a failed delete makes the entry reappear. The delete error, if any, is
// returned after the reload.
func (c *Controller) FinishDelete(ctx context.Context, id int64) error {
	delErr := c.Service.Delete(ctx, id)
	_, loadErr := c.Load(ctx)
	if delErr != nil {
		c.fail("delete failed", delErr)
		return delErr
	}
	c.Log.WithField("id", id).Info("entry deleted")
	if loadErr != nil {
		return fmt.Errorf("%w: %w", ErrReload, loadErr)
	}
	return nil
}

// HandleDelete is BeginDelete followed by FinishDelete.
func (c *Controller) HandleDelete(ctx context.Context, id int64) error {
	c.BeginDelete(id)
	return c.FinishDelete(ctx, id)
}

// SetFilter updates one dimension and reloads.
func (c *Controller) SetFilter(ctx context.Context, key ledger.FilterKey, value string) error {
	c.State.SetFilter(key, value)
	_, err := c.Load(ctx)
	return err
}

// ClearFilters resets every dimension and reloads.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.State.ClearFilters()
	_, err := c.Load(ctx)
	return err
}

func (c *Controller) fail(msg string, err error) {
	c.State.SetError(err)
	c.Log.WithError(err).Error(msg)
}
