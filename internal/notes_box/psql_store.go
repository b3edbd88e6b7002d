package notes_box

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/notesbox/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// the whole collection lives in one row
const collectionRowID = 1

var _ Store = (*PsqlStore)(nil)

// PsqlStore keeps the collection as a single jsonb blob
type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(ctx context.Context, db *pgxpool.Pool) (*PsqlStore, error) {
	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS notes_collection (
			id         INT PRIMARY KEY,
			notes      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	); err != nil {
		return nil, fmt.Errorf("create notes_collection table: %w", err)
	}

	return &PsqlStore{
		db: db,
	}, nil
}

func (s *PsqlStore) GetAll(ctx context.Context) (_ []Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.getAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var notesJson []byte
	err = s.db.QueryRow(
		ctx,
		`SELECT notes FROM notes_collection WHERE id = $1;`,
		collectionRowID,
	).Scan(&notesJson)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Trace("notes collection row not stored yet")
		return []Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select notes collection: %w", err)
	}

	var notes []Note
	if err := json.Unmarshal(notesJson, &notes); err != nil {
		return nil, fmt.Errorf("decode notes collection: %w", err)
	}
	if notes == nil {
		notes = []Note{}
	}

	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	return notes, nil
}

func (s *PsqlStore) ReplaceAll(ctx context.Context, notes []Note) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.replaceAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("notes.count", len(notes)))

	if notes == nil {
		notes = []Note{}
	}

	notesJson, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	if _, err := s.db.Exec(
		ctx,
		`
			INSERT INTO notes_collection (id, notes, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (id) DO UPDATE
			SET notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at;`,
		collectionRowID, notesJson,
	); err != nil {
		return fmt.Errorf("upsert notes collection: %w", err)
	}

	return nil
}
