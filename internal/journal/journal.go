// Package journal records every send attempt of a dispatch pass.
package journal

import (
	"context"

	"github.com/bulkmail/bulkmail/internal/model"
)

// Journal is the sink for delivery attempts
type Journal interface {
	Record(ctx context.Context, d *model.Delivery) error
}

// Nop discards every entry
type Nop struct{}

// Record implements Journal
func (Nop) Record(context.Context, *model.Delivery) error { return nil }
