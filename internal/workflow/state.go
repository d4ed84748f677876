package workflow

import (
	"github.com/bulkmail/bulkmail/internal/email"
	"github.com/bulkmail/bulkmail/internal/model"
)

// Phase names the workflow state
type Phase string

const (
	PhaseAwaitingCredentials Phase = "awaiting_credentials"
	PhaseReady               Phase = "ready"
)

// State is one of AwaitingCredentials or Ready
type State interface {
	Phase() Phase
}

// AwaitingCredentials is the initial state; Identity is prefilled from the store
type AwaitingCredentials struct {
	Identity model.Identity
}

// Phase implements State
func (AwaitingCredentials) Phase() Phase { return PhaseAwaitingCredentials }

// Ready is entered after a successful transport probe
type Ready struct {
	Identity  model.Identity
	From      string
	Transport email.Transport
	// Table is the working table; after a dispatch pass it holds the residual rows
	Table *model.Table
	Draft model.Draft
}

// Phase implements State
func (*Ready) Phase() Phase { return PhaseReady }
