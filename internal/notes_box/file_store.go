package notes_box

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/2beens/notesbox/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the collection as a JSON array in a single file
type FileStore struct {
	path string
	perm os.FileMode
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("notes file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}

	return &FileStore{
		path: path,
		perm: 0o644,
	}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) GetAll(ctx context.Context) (_ []Note, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "fileStore.getAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("notes.file", s.path))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Tracef("notes file [%s] does not exist yet", s.path)
		return []Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notes file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Note{}, nil
	}

	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("decode notes file [%s]: %w", s.path, err)
	}
	if notes == nil {
		notes = []Note{}
	}

	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	return notes, nil
}

func (s *FileStore) ReplaceAll(ctx context.Context, notes []Note) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "fileStore.replaceAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("notes.file", s.path),
		attribute.Int("notes.count", len(notes)),
	)

	if err := ctx.Err(); err != nil {
		return err
	}

	if notes == nil {
		notes = []Note{}
	}

	notesJson, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	if err := writeFileAtomic(s.path, notesJson, s.perm); err != nil {
		return fmt.Errorf("write notes file: %w", err)
	}

	log.Tracef("notes file [%s] rewritten, %d notes", s.path, len(notes))
	return nil
}
