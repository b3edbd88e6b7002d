package notes_box

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/notesbox/internal/telemetry/metrics"
	"github.com/2beens/notesbox/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxFormMemory = 1 << 20

type NotesPage struct {
	Notes []Note
	// Message is the validation message shown above the new note form
	Message string
	// FormTitle keeps the rejected title in the form
	FormTitle string
}

type pageRenderer interface {
	RenderNotes(w http.ResponseWriter, statusCode int, page NotesPage)
	RenderNotFound(w http.ResponseWriter, statusCode int, message string)
	RenderError(w http.ResponseWriter, statusCode int, message string)
}

type listResponse struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	retriever *Retriever
	submitter *Submitter
	pages     pageRenderer
	metrics   *metrics.Manager
}

func NewHandler(
	retriever *Retriever,
	submitter *Submitter,
	pages pageRenderer,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		retriever: retriever,
		submitter: submitter,
		pages:     pages,
		metrics:   metrics,
	}
}

// SetupRoutes registers the notes page routes, submitMiddlewares wrap only the new note route
func (handler *Handler) SetupRoutes(router *mux.Router, submitMiddlewares ...mux.MiddlewareFunc) {
	var addHandler http.Handler = http.HandlerFunc(handler.HandleAdd)
	for i := len(submitMiddlewares) - 1; i >= 0; i-- {
		addHandler = submitMiddlewares[i](addHandler)
	}

	router.HandleFunc(NotesPath, handler.HandleList).Methods("GET").Name("list-notes")
	router.Handle(NotesPath, addHandler).Methods("POST").Name("new-note")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	wantsJSON := pkg.AcceptsJSON(r.Header.Get("Accept"))

	notes, err := handler.retriever.List(r.Context())
	if errors.Is(err, ErrNotesNotFound) {
		handler.metrics.CounterNotesNotFound.Inc()
		if wantsJSON {
			pkg.WriteJSONResponse(w, messageResponse{Message: NotFoundMessage}, http.StatusNotFound)
			return
		}
		handler.pages.RenderNotFound(w, http.StatusNotFound, NotFoundMessage)
		return
	}
	if err != nil {
		log.Errorf("list notes error: %s", err)
		handler.renderError(w, wantsJSON, http.StatusInternalServerError, err)
		return
	}

	if wantsJSON {
		pkg.WriteJSONResponse(w, listResponse{Notes: notes, Total: len(notes)}, http.StatusOK)
		return
	}
	handler.pages.RenderNotes(w, http.StatusOK, NotesPage{Notes: notes})
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	wantsJSON := pkg.AcceptsJSON(r.Header.Get("Accept"))

	fields, err := parseFormFields(r)
	if err != nil {
		log.Errorf("add new note failed, parse form error: %s", err)
		handler.renderError(w, wantsJSON, http.StatusBadRequest, err)
		return
	}

	result, err := handler.submitter.Submit(r.Context(), fields)

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		handler.metrics.CounterSubmissionsRejected.Inc()
		log.Tracef("note submission rejected: %s", validationErr)
		handler.renderRejected(w, r, wantsJSON, validationErr.Message, fields[titleField])
		return
	case errors.Is(err, ErrMalformedSubmission):
		log.Warnf("add new note failed: %s", err)
		handler.renderError(w, wantsJSON, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Errorf("add new note failed: %s", err)
		handler.renderError(w, wantsJSON, http.StatusInternalServerError, err)
		return
	}

	handler.metrics.CounterNotesAdded.Inc()
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

// renderRejected shows the validation message on the notes page, nothing was stored
func (handler *Handler) renderRejected(
	w http.ResponseWriter,
	r *http.Request,
	wantsJSON bool,
	message string,
	title string,
) {
	if wantsJSON {
		pkg.WriteJSONResponse(w, messageResponse{Message: message}, http.StatusUnprocessableEntity)
		return
	}

	notes, err := handler.retriever.All(r.Context())
	if err != nil {
		log.Errorf("list notes after rejected submission: %s", err)
		handler.renderError(w, wantsJSON, http.StatusInternalServerError, err)
		return
	}

	handler.pages.RenderNotes(w, http.StatusUnprocessableEntity, NotesPage{
		Notes:     notes,
		Message:   message,
		FormTitle: title,
	})
}

func (handler *Handler) renderError(w http.ResponseWriter, wantsJSON bool, statusCode int, err error) {
	if wantsJSON {
		pkg.WriteJSONResponse(w, messageResponse{Message: err.Error()}, statusCode)
		return
	}
	handler.pages.RenderError(w, statusCode, err.Error())
}

// parseFormFields flattens the posted form, the last value wins for repeated keys
func parseFormFields(r *http.Request) (map[string]string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	return lastValues(r.PostForm), nil
}

func lastValues(values url.Values) map[string]string {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		fields[k] = v[len(v)-1]
	}
	return fields
}
