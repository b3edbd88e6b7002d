package notes_box_test

import (
	"context"
	"errors"
	"testing"

	notesBox "github.com/2beens/notesbox/internal/notes_box"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestParseOnEmptyPolicy(t *testing.T) {
	policy, err := notesBox.ParseOnEmptyPolicy("fail")
	require.NoError(t, err)
	assert.Equal(t, notesBox.OnEmptyFail, policy)

	policy, err = notesBox.ParseOnEmptyPolicy("returnEmpty")
	require.NoError(t, err)
	assert.Equal(t, notesBox.OnEmptyReturnEmpty, policy)

	_, err = notesBox.ParseOnEmptyPolicy("ignore")
	require.Error(t, err)
}

func TestNewRetriever_DefaultsToFail(t *testing.T) {
	retriever := notesBox.NewRetriever(newMemStore(), "")
	assert.Equal(t, notesBox.OnEmptyFail, retriever.OnEmpty())
}

func TestRetriever_List_EmptyStrict(t *testing.T) {
	retriever := notesBox.NewRetriever(newMemStore(), notesBox.OnEmptyFail)

	notes, err := retriever.List(context.Background())
	require.ErrorIs(t, err, notesBox.ErrNotesNotFound)
	assert.Nil(t, notes)

	all, err := retriever.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRetriever_List_EmptyLenient(t *testing.T) {
	retriever := notesBox.NewRetriever(newMemStore(), notesBox.OnEmptyReturnEmpty)

	notes, err := retriever.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestRetriever_List_KeepsStoredOrder(t *testing.T) {
	stored := []notesBox.Note{
		{ID: "2026-10-19T10:00:02.000Z", Title: "Third written first"},
		{ID: "2026-10-19T10:00:00.000Z", Title: "Buy groceries"},
		{ID: "2026-10-19T10:00:01.000Z", Title: "Call mom back", Extra: map[string]string{"content": "today"}},
	}

	for _, policy := range []notesBox.OnEmptyPolicy{notesBox.OnEmptyFail, notesBox.OnEmptyReturnEmpty} {
		retriever := notesBox.NewRetriever(newMemStore(stored...), policy)
		notes, err := retriever.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stored, notes, "policy: %s", policy)
	}
}

func TestRetriever_List_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	storeErr := errors.New("disk on fire")
	store.EXPECT().GetAll(gomock.Any()).Return(nil, storeErr)

	retriever := notesBox.NewRetriever(store, notesBox.OnEmptyFail)
	notes, err := retriever.List(context.Background())
	require.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, notesBox.ErrNotesNotFound)
	assert.Nil(t, notes)
}
