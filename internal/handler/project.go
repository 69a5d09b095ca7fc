package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/services"
	"assistant/internal/httputil"
)

// ProjectHandler serves the HTTP API of one project type
type ProjectHandler[M any, I project.Item] struct {
	service services.ProjectService[M, I]
	codec   *project.ChangeCodec[M, I]
	logger  *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler[M any, I project.Item](service services.ProjectService[M, I], codec *project.ChangeCodec[M, I], logger *slog.Logger) *ProjectHandler[M, I] {
	return &ProjectHandler[M, I]{
		service: service,
		codec:   codec,
		logger:  logger,
	}
}

// SuggestRequest is the body of a suggestion request
type SuggestRequest struct {
	Prompt string `json:"prompt"`
}

// SuggestedChange is one suggested change with its preview text
type SuggestedChange struct {
	Kind        project.ChangeKind `json:"kind"`
	Description string             `json:"description"`
	Change      json.RawMessage    `json:"change"`
}

// SuggestResponse lists suggested changes in application order
type SuggestResponse struct {
	Reasoning string            `json:"reasoning,omitempty"`
	Changes   []SuggestedChange `json:"changes"`
}

// ApplyRequest carries changes as returned by the suggestion endpoint.
// Descriptions are ignored.
type ApplyRequest struct {
	Changes []SuggestedChange `json:"changes"`
}

// Register mounts the handler's routes under prefix, e.g. "/api/itineraries".
func (h *ProjectHandler[M, I]) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix, h.List)
	mux.HandleFunc("POST "+prefix, h.Create)
	mux.HandleFunc("GET "+prefix+"/{id}", h.Get)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.Delete)
	mux.HandleFunc("POST "+prefix+"/{id}/suggestions", h.Suggest)
	mux.HandleFunc("POST "+prefix+"/{id}/changes", h.Apply)
}

// List returns one page of projects
// GET {prefix}?offset=0&limit=10
func (h *ProjectHandler[M, I]) List(w http.ResponseWriter, r *http.Request) {
	req := models.NewPaginationRequest()
	var err error
	if req.Offset, err = httputil.QueryInt(r, "offset", req.Offset); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Limit, err = httputil.QueryInt(r, "limit", req.Limit); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.List(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// Create creates an empty project
// POST {prefix}
func (h *ProjectHandler[M, I]) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProjectRequest[M]
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, p)
}

// Get retrieves a project by ID
// GET {prefix}/{id}
func (h *ProjectHandler[M, I]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, p)
}

// Delete removes a project
// DELETE {prefix}/{id}
func (h *ProjectHandler[M, I]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}

// Suggest runs the suggestion pipeline and previews every change against
// the current project. Nothing is persisted.
// POST {prefix}/{id}/suggestions
func (h *ProjectHandler[M, I]) Suggest(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req SuggestRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	suggestion, err := h.service.GetChangeSuggestions(r.Context(), id, req.Prompt)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	current, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	descriptions, err := project.Describe(current, suggestion.Changes)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	envelopes, err := h.codec.EncodeAll(suggestion.Changes)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	resp := SuggestResponse{
		Reasoning: suggestion.Reasoning,
		Changes:   make([]SuggestedChange, len(envelopes)),
	}
	for i, env := range envelopes {
		resp.Changes[i] = SuggestedChange{
			Kind:        env.Kind,
			Description: descriptions[i],
			Change:      env.Change,
		}
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Apply decodes a batch of changes and applies it in order
// POST {prefix}/{id}/changes
func (h *ProjectHandler[M, I]) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req ApplyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	envelopes := make([]project.Envelope, len(req.Changes))
	for i, c := range req.Changes {
		envelopes[i] = project.Envelope{Kind: c.Kind, Change: c.Change}
	}
	changes, err := h.codec.DecodeAll(envelopes)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	p, err := h.service.ApplyChanges(r.Context(), id, changes)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, p)
}
