package notes_box

import (
	"context"
)

//go:generate mockgen -source=$GOFILE -destination=store_mock_test.go -package=notes_box_test

// Store owns the persisted note collection. The collection is always read and written whole.
type Store interface {
	// GetAll returns the stored collection in insertion order, or an empty one if nothing is stored yet
	GetAll(ctx context.Context) ([]Note, error)
	// ReplaceAll overwrites the whole stored collection
	ReplaceAll(ctx context.Context, notes []Note) error
}
