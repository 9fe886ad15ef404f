package status

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	statusmodel "github.com/nomadiq/travel-assistant/backend/internal/model/status"
	"github.com/nomadiq/travel-assistant/backend/internal/store"
	"github.com/nomadiq/travel-assistant/backend/pkg/utils"
)

// listLimit bounds the status listing, matching the store's display cap.
const listLimit = 1000

// Handler serves the liveness root and the status-check endpoints.
type Handler struct {
	statuses store.StatusStore
}

// New creates the status handler.
func New(statuses store.StatusStore) *Handler {
	return &Handler{statuses: statuses}
}

// RegisterRoutes mounts the status routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Post("/status", h.handleCreate)
	r.Get("/status", h.handleList)
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "AI Travel Assistant API is running!",
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ClientName string `json:"client_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.ClientName) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "client_name must not be empty")
		return
	}

	check, err := h.statuses.Create(r.Context(), payload.ClientName)
	if err != nil {
		log.Printf("[status] create failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create status check")
		return
	}

	utils.RespondJSON(w, http.StatusOK, check)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	checks, err := h.statuses.List(r.Context(), listLimit)
	if err != nil {
		log.Printf("[status] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to retrieve status checks")
		return
	}

	if checks == nil {
		checks = []statusmodel.Check{}
	}
	utils.RespondJSON(w, http.StatusOK, checks)
}
