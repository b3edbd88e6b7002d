//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	notesBox "github.com/2beens/notesbox/internal/notes_box"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notesListResponse struct {
	Notes []notesBox.Note `json:"notes"`
	Total int             `json:"total"`
}

func (s *IntegrationTestSuite) postNote(ctx context.Context, title string, extra map[string]string) *http.Response {
	t := s.T()

	form := url.Values{"title": {title}}
	for k, v := range extra {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/notes", serverEndpoint), strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) getNotes(ctx context.Context) (int, []byte) {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/notes", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestNotes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, respBytes := s.getNotes(ctx)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"message":"Could not find any notes"}`, string(respBytes))

	resp := s.postNote(ctx, "Hi", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	faker := gofakeit.New(0)
	titles := []string{"Buy groceries", faker.Sentence(4)}
	for _, title := range titles {
		resp := s.postNote(ctx, title, map[string]string{"content": faker.Sentence(8)})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/notes", resp.Header.Get("Location"))
		resp.Body.Close()
	}

	status, respBytes = s.getNotes(ctx)
	require.Equal(t, http.StatusOK, status)

	var notesResp notesListResponse
	require.NoError(t, json.Unmarshal(respBytes, &notesResp))
	require.Equal(t, 2, notesResp.Total)
	require.Len(t, notesResp.Notes, 2)
	assert.Equal(t, titles[0], notesResp.Notes[0].Title)
	assert.Equal(t, titles[1], notesResp.Notes[1].Title)
	assert.NotEqual(t, notesResp.Notes[0].ID, notesResp.Notes[1].ID)
	assert.NotEmpty(t, notesResp.Notes[0].Extra["content"])

	// the whole collection is one jsonb row
	var storedJson []byte
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT notes FROM notes_collection WHERE id = 1`).Scan(&storedJson))
	var stored []notesBox.Note
	require.NoError(t, json.Unmarshal(storedJson, &stored))
	assert.Equal(t, notesResp.Notes, stored)

	// submissions are rate limited per client through redis, two already went through
	limited := false
	for i := 0; i < testSubmitRateLimit; i++ {
		resp := s.postNote(ctx, fmt.Sprintf("Rate limited note %d", i), nil)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			assert.NotEmpty(t, resp.Header.Get("Retry-After"))
			break
		}
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}
	assert.True(t, limited)
}

func (s *IntegrationTestSuite) TestVersion() {
	t := s.T()

	resp, err := s.httpClient.Get(fmt.Sprintf("%s/version", serverEndpoint))
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test-version-info", string(respBytes))
}
