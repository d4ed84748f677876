// Package store persists the operator's identity and last-used draft.
// Each record is read and written whole.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bulkmail/bulkmail/internal/model"
)

// Store is the persistence collaborator for the two workflow records.
// Loading a record that was never saved returns its zero value.
type Store interface {
	LoadIdentity(ctx context.Context) (model.Identity, error)
	SaveIdentity(ctx context.Context, id model.Identity) error
	LoadDraft(ctx context.Context) (model.Draft, error)
	SaveDraft(ctx context.Context, d model.Draft) error
}

const (
	identityRecord = "identity"
	draftRecord    = "draft"
)

// identityDoc is the stored form of model.Identity; the password is sealed
// and only kept when Remember is set.
type identityDoc struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Remember bool   `json:"remember"`
}

type codec struct {
	sealer *Sealer
}

func (c codec) encodeIdentity(id model.Identity) ([]byte, error) {
	doc := identityDoc{Username: id.Username, Remember: id.Remember}
	if id.Remember && id.Password != "" {
		sealed, err := c.sealer.Seal(id.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to seal password: %w", err)
		}
		doc.Password = sealed
	}
	return json.Marshal(doc)
}

func (c codec) decodeIdentity(data []byte) (model.Identity, error) {
	var doc identityDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Identity{}, fmt.Errorf("failed to decode identity: %w", err)
	}
	id := model.Identity{Username: doc.Username, Remember: doc.Remember}
	if doc.Password != "" {
		password, err := c.sealer.Open(doc.Password)
		if err != nil {
			return model.Identity{}, fmt.Errorf("failed to unseal password: %w", err)
		}
		id.Password = password
	}
	return id, nil
}

func encodeDraft(d model.Draft) ([]byte, error) {
	return json.Marshal(d)
}

func decodeDraft(data []byte) (model.Draft, error) {
	var d model.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return model.Draft{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return d, nil
}
