package notes_box

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/2beens/notesbox/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	NotesPath      = "/notes"
	MinTitleLength = 5
)

type SubmitResult struct {
	Note       Note
	RedirectTo string
}

type SubmitterOpts struct {
	// Serialize wraps the read-modify-write of a submission in a mutex,
	// without it concurrent submissions can overwrite each other
	Serialize bool
	// Clock defaults to time.Now
	Clock func() time.Time
}

type Submitter struct {
	store     Store
	serialize bool
	clock     func() time.Time
	mutex     sync.Mutex
}

func NewSubmitter(store Store, opts SubmitterOpts) *Submitter {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Submitter{
		store:     store,
		serialize: opts.Serialize,
		clock:     clock,
	}
}

// ValidateTitle rejects titles shorter than MinTitleLength characters once trimmed
func ValidateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < MinTitleLength {
		return &ValidationError{
			Field:   titleField,
			Message: InvalidTitleMessage,
		}
	}
	return nil
}

// Submit validates the submitted fields and appends a new note to the stored collection.
// A *ValidationError means nothing was written.
func (s *Submitter) Submit(ctx context.Context, fields map[string]string) (_ SubmitResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "submitter.submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	title, ok := fields[titleField]
	if !ok {
		return SubmitResult{}, fmt.Errorf("%w: title field missing", ErrMalformedSubmission)
	}
	span.SetAttributes(attribute.String("note.title", title))

	if err := ValidateTitle(title); err != nil {
		return SubmitResult{}, err
	}

	if s.serialize {
		s.mutex.Lock()
		defer s.mutex.Unlock()
	}

	existing, err := s.store.GetAll(ctx)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("get notes: %w", err)
	}

	note := NewNote(s.nextID(existing), title, fields)
	updated := make([]Note, 0, len(existing)+1)
	updated = append(updated, existing...)
	updated = append(updated, note)

	if err := s.store.ReplaceAll(ctx, updated); err != nil {
		return SubmitResult{}, fmt.Errorf("store notes: %w", err)
	}

	log.Debugf("new note added: [%s] [%s], total %d", note.ID, note.Title, len(updated))

	return SubmitResult{
		Note:       note,
		RedirectTo: NotesPath,
	}, nil
}

// nextID is the current time, moved a millisecond past the newest stored ID if the clock
// did not advance, so two quick submissions never share an ID
func (s *Submitter) nextID(existing []Note) string {
	next := s.clock().UTC().Truncate(time.Millisecond)

	for _, n := range existing {
		createdAt, err := n.CreatedAt()
		if err != nil {
			continue
		}
		if !next.After(createdAt) {
			next = createdAt.Add(time.Millisecond)
		}
	}

	return next.Format(IDLayout)
}
