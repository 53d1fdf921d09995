package venue

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/seatforge/seatforge/internal/auth"
	"github.com/seatforge/seatforge/internal/engine"
	"github.com/seatforge/seatforge/internal/geo"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

type importRequest struct {
	Polygons [][]geo.Point `json:"polygons"`
	Labels   []string      `json:"labels,omitempty"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	venue, err := h.service.Create(r.Context(), req.Name, userID)
	if err != nil {
		slog.Error("create venue failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, venue)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]

	venue, err := h.service.Get(r.Context(), venueID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, venue)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	venues, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list venues failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, venues)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]

	err := h.service.Delete(r.Context(), venueID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	err := h.service.InviteByEmail(r.Context(), venueID, userID, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "invited"})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]

	members, err := h.service.ListMembers(r.Context(), venueID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]
	targetUserID := mux.Vars(r)["userId"]

	err := h.service.RemoveMember(r.Context(), venueID, userID, targetUserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetLayout serves the newest persisted seat map as raw JSON.
func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]

	doc, err := h.service.GetLatestSnapshot(r.Context(), venueID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// ImportSections takes detector output (polygon outlines plus optional
// labels), merges it into the venue's latest layout as new sections, and
// stores the result as a fresh snapshot version.
func (h *Handler) ImportSections(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	venueID := mux.Vars(r)["venueId"]

	if err := h.service.CheckAccess(r.Context(), venueID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Polygons) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "polygons are required"})
		return
	}

	current, err := h.service.LoadDocument(r.Context(), venueID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	eng := engine.New()
	if err := eng.LoadDocument(current); err != nil {
		slog.Error("load layout for import", "error", err, "venue", venueID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	ids := eng.ImportPolygons(req.Polygons, req.Labels)

	updated, err := eng.ExportDocument()
	if err != nil {
		slog.Error("export layout after import", "error", err, "venue", venueID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if err := h.service.SaveDocument(r.Context(), venueID, updated); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"sectionIds": ids})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrNotMember):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a venue member"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
