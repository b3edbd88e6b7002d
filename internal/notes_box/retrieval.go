package notes_box

import (
	"context"
	"fmt"
)

// OnEmptyPolicy decides what listing an empty collection means
type OnEmptyPolicy string

const (
	// OnEmptyFail answers an empty collection with ErrNotesNotFound
	OnEmptyFail OnEmptyPolicy = "fail"
	// OnEmptyReturnEmpty returns the empty collection as is
	OnEmptyReturnEmpty OnEmptyPolicy = "returnEmpty"
)

func ParseOnEmptyPolicy(policy string) (OnEmptyPolicy, error) {
	switch OnEmptyPolicy(policy) {
	case OnEmptyFail, OnEmptyReturnEmpty:
		return OnEmptyPolicy(policy), nil
	default:
		return "", fmt.Errorf("unknown on empty policy: %q", policy)
	}
}

type Retriever struct {
	store   Store
	onEmpty OnEmptyPolicy
}

func NewRetriever(store Store, onEmpty OnEmptyPolicy) *Retriever {
	if onEmpty == "" {
		onEmpty = OnEmptyFail
	}
	return &Retriever{
		store:   store,
		onEmpty: onEmpty,
	}
}

func (r *Retriever) OnEmpty() OnEmptyPolicy {
	return r.onEmpty
}

// List loads the collection for display, applying the on empty policy
func (r *Retriever) List(ctx context.Context) ([]Note, error) {
	notes, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	if len(notes) == 0 && r.onEmpty == OnEmptyFail {
		return nil, ErrNotesNotFound
	}

	return notes, nil
}

// All loads the collection regardless of the on empty policy
func (r *Retriever) All(ctx context.Context) ([]Note, error) {
	notes, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get notes: %w", err)
	}
	return notes, nil
}
