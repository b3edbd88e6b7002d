package notes_box_test

import (
	"context"
	"sync"
	"unicode"

	notesBox "github.com/2beens/notesbox/internal/notes_box"
)

var _ notesBox.Store = (*memStore)(nil)

// memStore is an in memory store counting its calls, used where a temp dir is not at hand
type memStore struct {
	mutex        sync.Mutex
	notes        []notesBox.Note
	getAllCalls  int
	replaceCalls int
}

func newMemStore(notes ...notesBox.Note) *memStore {
	return &memStore{
		notes: notes,
	}
}

func (s *memStore) GetAll(_ context.Context) ([]notesBox.Note, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.getAllCalls++
	notes := make([]notesBox.Note, len(s.notes))
	copy(notes, s.notes)
	return notes, nil
}

func (s *memStore) ReplaceAll(_ context.Context, notes []notesBox.Note) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.replaceCalls++
	s.notes = make([]notesBox.Note, len(notes))
	copy(s.notes, notes)
	return nil
}

func (s *memStore) stored() []notesBox.Note {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.notes
}

func (s *memStore) writes() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.replaceCalls
}

// letters and digits keep generated titles free of whitespace, so trimming never shortens them
var unicodeLetters = []*unicode.RangeTable{unicode.Letter, unicode.Digit}
