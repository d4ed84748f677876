package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bulkmail/bulkmail/internal/model"
)

// FileStore keeps each record as a JSON file in a directory
type FileStore struct {
	dir   string
	codec codec
}

// NewFileStore creates a FileStore rooted at dir
func NewFileStore(dir string, sealer *Sealer) *FileStore {
	return &FileStore{dir: dir, codec: codec{sealer: sealer}}
}

// LoadIdentity reads the identity record
func (s *FileStore) LoadIdentity(ctx context.Context) (model.Identity, error) {
	data, err := s.read(identityRecord)
	if err != nil || data == nil {
		return model.Identity{}, err
	}
	return s.codec.decodeIdentity(data)
}

// SaveIdentity replaces the identity record
func (s *FileStore) SaveIdentity(ctx context.Context, id model.Identity) error {
	data, err := s.codec.encodeIdentity(id)
	if err != nil {
		return err
	}
	return s.write(identityRecord, data)
}

// LoadDraft reads the draft record
func (s *FileStore) LoadDraft(ctx context.Context) (model.Draft, error) {
	data, err := s.read(draftRecord)
	if err != nil || data == nil {
		return model.Draft{}, err
	}
	return decodeDraft(data)
}

// SaveDraft replaces the draft record
func (s *FileStore) SaveDraft(ctx context.Context, d model.Draft) error {
	data, err := encodeDraft(d)
	if err != nil {
		return err
	}
	return s.write(draftRecord, data)
}

func (s *FileStore) path(record string) string {
	return filepath.Join(s.dir, record+".json")
}

func (s *FileStore) read(record string) ([]byte, error) {
	data, err := os.ReadFile(s.path(record))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s record: %w", record, err)
	}
	return data, nil
}

// write replaces the record atomically via a temp file in the same directory
func (s *FileStore) write(record string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, record+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s record: %w", record, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s record: %w", record, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s record: %w", record, err)
	}
	if err := os.Rename(tmp.Name(), s.path(record)); err != nil {
		return fmt.Errorf("failed to replace %s record: %w", record, err)
	}
	return nil
}
