// Package workflow drives the login-then-send flow around the
// dispatch engine and owns the working table.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bulkmail/bulkmail/internal/dispatch"
	"github.com/bulkmail/bulkmail/internal/email"
	"github.com/bulkmail/bulkmail/internal/journal"
	"github.com/bulkmail/bulkmail/internal/logger"
	"github.com/bulkmail/bulkmail/internal/model"
	"github.com/bulkmail/bulkmail/internal/render"
	"github.com/bulkmail/bulkmail/internal/spreadsheet"
	"github.com/bulkmail/bulkmail/internal/store"
)

// Workflow errors
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrNotReady           = errors.New("not logged in")
	ErrAlreadyReady       = errors.New("already logged in")
	ErrDispatchRunning    = errors.New("a dispatch pass is in progress")
)

// TransportFactory builds a transport authenticated as the given identity
type TransportFactory func(ctx context.Context, id model.Identity) (email.Transport, error)

// Options holds the collaborators of a Workflow
type Options struct {
	Transport TransportFactory
	Store     store.Store
	Journal   journal.Journal
	Renderer  *render.Renderer
	Ingest    spreadsheet.Options
	// Domain is appended to the username to form the sender address
	Domain string
}

// Workflow holds the current State. All methods are safe for concurrent use;
// mutations are rejected with ErrDispatchRunning while a pass is in flight.
type Workflow struct {
	opts Options
	log  *logger.Logger

	mu      sync.Mutex
	state   State
	running bool
}

// New creates a Workflow in AwaitingCredentials, reading the persisted
// identity and draft once.
func New(ctx context.Context, opts Options, log *logger.Logger) (*Workflow, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("workflow: transport factory is required")
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New("")
	}

	var id model.Identity
	if opts.Store != nil {
		var err error
		if id, err = opts.Store.LoadIdentity(ctx); err != nil {
			return nil, fmt.Errorf("failed to load identity: %w", err)
		}
	}

	return &Workflow{
		opts:  opts,
		log:   log.WithComponent("workflow"),
		state: AwaitingCredentials{Identity: id},
	}, nil
}

// Phase returns the current phase
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Phase()
}

// Running reports whether a dispatch pass is in flight
func (w *Workflow) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RememberedIdentity returns the identity prefilled from the store
func (w *Workflow) RememberedIdentity() model.Identity {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.state.(AwaitingCredentials); ok {
		return s.Identity
	}
	return w.state.(*Ready).Identity
}

// Login probes the transport with id and, on success, enters Ready with a
// fresh empty table and the persisted draft.
func (w *Workflow) Login(ctx context.Context, id model.Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.state.(AwaitingCredentials); !ok {
		return ErrAlreadyReady
	}
	id.Username = strings.TrimSpace(id.Username)
	if !id.IsComplete() {
		return ErrMissingCredentials
	}

	transport, err := w.opts.Transport(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err := transport.Probe(ctx); err != nil {
		w.log.Warn().Err(err).Str("user", id.Username).Msg("transport probe failed")
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	var draft model.Draft
	if w.opts.Store != nil {
		if err := w.opts.Store.SaveIdentity(ctx, id); err != nil {
			w.log.Error().Err(err).Msg("failed to persist identity")
		}
		if draft, err = w.opts.Store.LoadDraft(ctx); err != nil {
			w.log.Error().Err(err).Msg("failed to load draft")
		}
	}

	w.state = &Ready{
		Identity:  id,
		From:      email.FromAddress(id.Username, w.opts.Domain),
		Transport: transport,
		Table:     &model.Table{},
		Draft:     draft,
	}
	w.log.Info().Str("user", id.Username).Msg("logged in")
	return nil
}

// ready returns the Ready state for a mutation; callers hold w.mu
func (w *Workflow) ready() (*Ready, error) {
	r, ok := w.state.(*Ready)
	if !ok {
		return nil, ErrNotReady
	}
	if w.running {
		return nil, ErrDispatchRunning
	}
	return r, nil
}

// Import replaces the working table with the workbook at path. On failure
// the previous table is kept.
func (w *Workflow) Import(path string) (*model.Table, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.ready()
	if err != nil {
		return nil, err
	}

	table, err := spreadsheet.Ingest(path, w.opts.Ingest)
	if err != nil {
		return nil, err
	}
	r.Table = table
	w.log.Info().Str("path", path).Int("rows", table.Len()).Int("columns", len(table.Columns)).Msg("workbook imported")
	return table.Clone(), nil
}

// Table returns a copy of the working table
func (w *Workflow) Table() (*model.Table, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, ok := w.state.(*Ready)
	if !ok {
		return nil, ErrNotReady
	}
	return r.Table.Clone(), nil
}

// Pending returns the rows still awaiting delivery: the working table after
// the last pass, or the freshly imported table before any pass.
func (w *Workflow) Pending() (*model.Table, error) {
	return w.Table()
}

// Draft returns the current subject and remark
func (w *Workflow) Draft() (model.Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, ok := w.state.(*Ready)
	if !ok {
		return model.Draft{}, ErrNotReady
	}
	return r.Draft, nil
}

// ToggleRow sets the selection of one row
func (w *Workflow) ToggleRow(index int, selected bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.ready()
	if err != nil {
		return err
	}
	return r.Table.ToggleRow(index, selected)
}

// ToggleAll sets the selection of every row
func (w *Workflow) ToggleAll(selected bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.ready()
	if err != nil {
		return err
	}
	r.Table.ToggleAll(selected)
	return nil
}

// SetSubject updates the subject template
func (w *Workflow) SetSubject(subject string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.ready()
	if err != nil {
		return err
	}
	r.Draft.Subject = strings.TrimSpace(subject)
	return nil
}

// SetRemark updates the remark footer
func (w *Workflow) SetRemark(remark string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.ready()
	if err != nil {
		return err
	}
	r.Draft.Remark = strings.TrimSpace(remark)
	return nil
}

// Dispatch runs one pass over the working table and replaces it with the
// residual table. It blocks until every selected row has been attempted.
func (w *Workflow) Dispatch(ctx context.Context) (*dispatch.Result, error) {
	pass, err := w.begin()
	if err != nil {
		return nil, err
	}
	return pass(ctx), nil
}

// DispatchAsync starts a pass on its own goroutine and returns immediately.
// The channel receives exactly one Result and is then closed.
func (w *Workflow) DispatchAsync(ctx context.Context) (<-chan *dispatch.Result, error) {
	pass, err := w.begin()
	if err != nil {
		return nil, err
	}

	out := make(chan *dispatch.Result, 1)
	go func() {
		defer close(out)
		out <- pass(ctx)
	}()
	return out, nil
}

// begin marks the workflow running and snapshots the pass inputs. The
// returned func performs the pass, swaps the residual table in and clears
// the running flag even when the transport panics.
func (w *Workflow) begin() (func(context.Context) *dispatch.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.ready()
	if err != nil {
		return nil, err
	}
	w.running = true

	table := r.Table.Clone()
	draft := r.Draft
	engine := dispatch.NewEngine(r.Transport, w.opts.Renderer, w.opts.Journal, w.log.WithUser(r.Identity.Username))
	req := dispatch.Request{Subject: draft.Subject, Remark: draft.Remark, From: r.From}

	return func(ctx context.Context) (res *dispatch.Result) {
		defer func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if res != nil {
				r.Table = res.Residual.Clone()
			}
			w.running = false
		}()

		res = engine.Dispatch(ctx, table, req)

		if w.opts.Store != nil {
			if err := w.opts.Store.SaveDraft(ctx, draft); err != nil {
				w.log.Error().Err(err).Msg("failed to persist draft")
			}
		}
		return res
	}, nil
}
