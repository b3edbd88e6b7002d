package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	rr := httptest.NewRecorder()

	testJson := `{"key":"val"}`
	WriteResponseBytes(rr, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, ContentType.JSON, rr.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rr.Body.String())
}

func TestWriteResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteResponse(rr, ContentType.HTML, "<p>hi</p>", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, ContentType.HTML, rr.Header().Get("Content-Type"))
	assert.Equal(t, "<p>hi</p>", rr.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	rr := httptest.NewRecorder()

	testText := `test text`
	WriteTextResponseOK(rr, testText)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentType.Text, rr.Header().Get("Content-Type"))
	assert.Equal(t, testText, rr.Body.String())
}

func TestWriteJSONResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSONResponse(rr, map[string]string{"message": "nope"}, http.StatusUnprocessableEntity)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, ContentType.JSON, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"nope"}`, rr.Body.String())
}

func TestWriteJSONResponse_MarshalError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSONResponse(rr, map[string]any{"ch": make(chan int)}, http.StatusOK)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
