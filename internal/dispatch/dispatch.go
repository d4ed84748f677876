// Package dispatch sends one personalized message per selected row and keeps
// the rows that could not be delivered as the residual table.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bulkmail/bulkmail/internal/email"
	"github.com/bulkmail/bulkmail/internal/journal"
	"github.com/bulkmail/bulkmail/internal/logger"
	"github.com/bulkmail/bulkmail/internal/model"
	"github.com/bulkmail/bulkmail/internal/render"
)

// NamePlaceholder in a subject template is replaced by the recipient's name.
const NamePlaceholder = "{name}"

// Request carries the per-pass inputs shared by every row
type Request struct {
	Subject string
	Remark  string
	From    string
}

// Failure records one rejected send
type Failure struct {
	Row   model.Row
	Email string
	Err   error
}

// Result is the outcome of one dispatch pass
type Result struct {
	BatchID   string
	Residual  *model.Table
	Attempted int
	Delivered int
	Failures  []Failure
}

// AllDelivered reports whether nothing is left pending
func (r *Result) AllDelivered() bool {
	return r.Residual.IsEmpty()
}

// Summary returns the single end-of-pass report
func (r *Result) Summary() string {
	n := r.Residual.Len()
	switch n {
	case 0:
		return "all delivered"
	case 1:
		return "1 row remains undelivered"
	default:
		return fmt.Sprintf("%d rows remain undelivered", n)
	}
}

// Engine runs dispatch passes over a Sender
type Engine struct {
	sender   email.Sender
	renderer *render.Renderer
	journal  journal.Journal
	log      *logger.Logger
	now      func() time.Time
}

// NewEngine creates a new Engine. A nil journal records nothing.
func NewEngine(sender email.Sender, renderer *render.Renderer, j journal.Journal, log *logger.Logger) *Engine {
	if renderer == nil {
		renderer = render.New("")
	}
	if j == nil {
		j = journal.Nop{}
	}
	return &Engine{
		sender:   sender,
		renderer: renderer,
		journal:  j,
		log:      log.WithComponent("dispatch"),
		now:      time.Now,
	}
}

// Dispatch attempts every selected row once, strictly in table order. Rows
// that were delivered are dropped; failed and unselected rows are kept, in
// their original order, in the returned residual table. The input table is
// not modified. Send errors are collected in the Result and never abort the pass.
func (e *Engine) Dispatch(ctx context.Context, table *model.Table, req Request) *Result {
	if table == nil {
		table = &model.Table{}
	}
	batchID := uuid.NewString()
	log := e.log.WithBatchID(batchID)

	res := &Result{BatchID: batchID}
	if table.SelectedCount() == 0 {
		res.Residual = table.Clone()
		log.Debug().Int("rows", table.Len()).Msg("nothing selected, transport not contacted")
		return res
	}

	log.Info().
		Int("rows", table.Len()).
		Int("selected", table.SelectedCount()).
		Msg("dispatch started")

	pending := make([]model.Row, 0, table.Len())
	for _, row := range table.Clone().Rows {
		if !row.Selected {
			pending = append(pending, row)
			continue
		}

		res.Attempted++
		subject := ComposeSubject(req.Subject, row.Name)
		msg := email.Message{
			From:     req.From,
			To:       row.Email,
			Subject:  subject,
			HTMLBody: e.renderer.Render(row, table.Columns, req.Remark),
			TextBody: e.renderer.RenderText(row, table.Columns, req.Remark),
		}

		err := e.sender.Send(ctx, msg)
		e.record(ctx, log, batchID, row, subject, err)
		if err != nil {
			log.Warn().Err(err).
				Str("email", row.Email).
				Int64("sequence", row.Sequence).
				Msg("send failed, row kept for retry")
			res.Failures = append(res.Failures, Failure{Row: row, Email: row.Email, Err: err})
			pending = append(pending, row)
			continue
		}

		res.Delivered++
		log.Debug().Str("email", row.Email).Int64("sequence", row.Sequence).Msg("sent")
	}

	res.Residual = table.WithRows(pending)

	log.Info().
		Int("attempted", res.Attempted).
		Int("delivered", res.Delivered).
		Int("failed", len(res.Failures)).
		Int("pending", res.Residual.Len()).
		Msg(res.Summary())
	return res
}

func (e *Engine) record(ctx context.Context, log *logger.Logger, batchID string, row model.Row, subject string, sendErr error) {
	d := &model.Delivery{
		ID:        uuid.NewString(),
		BatchID:   batchID,
		Email:     row.Email,
		Name:      row.Name,
		Sequence:  row.Sequence,
		Subject:   subject,
		Status:    model.DeliveryStatusSent,
		CreatedAt: e.now(),
	}
	if sendErr != nil {
		msg := sendErr.Error()
		d.Status = model.DeliveryStatusFailed
		d.Error = &msg
	}
	if err := e.journal.Record(ctx, d); err != nil {
		log.Error().Err(err).Str("email", row.Email).Msg("failed to journal delivery")
	}
}

// ComposeSubject combines the shared subject template with a recipient name.
// Every NamePlaceholder is replaced by name; without a placeholder the name
// is appended as "subject - name".
func ComposeSubject(template, name string) string {
	if strings.Contains(template, NamePlaceholder) {
		return strings.ReplaceAll(template, NamePlaceholder, name)
	}
	if name == "" {
		return template
	}
	if template == "" {
		return name
	}
	return template + " - " + name
}
