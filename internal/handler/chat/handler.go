package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	chatservice "github.com/nomadiq/travel-assistant/backend/internal/service/chat"
	"github.com/nomadiq/travel-assistant/backend/pkg/utils"
)

// ImageGenerator renders one base64-encoded image for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Handler serves the chat, chat-history and image-generation endpoints.
type Handler struct {
	chatSvc *chatservice.Service
	images  ImageGenerator
}

// New creates the chat handler. images may be nil when no provider is
// configured; the image route then answers 503.
func New(chatSvc *chatservice.Service, images ImageGenerator) *Handler {
	return &Handler{chatSvc: chatSvc, images: images}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat-history/{sessionID}", h.handleHistory)
	r.Post("/generate-trip-image", h.handleGenerateImage)
}

type chatResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	ImageURL  string `json:"image_url,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string  `json:"message"`
		SessionID *string `json:"session_id"`
		Budget    string  `json:"budget"`
		Location  string  `json:"location"`
		Duration  string  `json:"duration"`
		Travelers *int    `json:"travelers"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "message must not be empty")
		return
	}

	// A missing session_id starts a new session; a present-but-empty one is
	// a schema violation.
	sessionID := ""
	if payload.SessionID != nil {
		sessionID = strings.TrimSpace(*payload.SessionID)
		if sessionID == "" {
			utils.RespondError(w, http.StatusUnprocessableEntity, "session_id must not be empty")
			return
		}
	}

	result, err := h.chatSvc.Send(r.Context(), chatservice.SendRequest{
		Message:   payload.Message,
		SessionID: sessionID,
		Trip: chatservice.TripDetails{
			Budget:    strings.TrimSpace(payload.Budget),
			Location:  strings.TrimSpace(payload.Location),
			Duration:  strings.TrimSpace(payload.Duration),
			Travelers: payload.Travelers,
		},
	})
	if err != nil {
		log.Printf("[chat] send failed: %v", err)
		if errors.Is(err, chatservice.ErrUnavailable) {
			utils.RespondError(w, http.StatusServiceUnavailable, "chat unavailable")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Chat processing failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Message:   result.Message,
		SessionID: result.SessionID,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.History(r.Context(), sessionID)
	if err != nil {
		log.Printf("[chat] history failed session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to retrieve chat history")
		return
	}

	// Unknown sessions are valid empty sessions, never a 404.
	if messages == nil {
		messages = []chatmodel.Message{}
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt    string `json:"prompt"`
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Prompt) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "prompt must not be empty")
		return
	}
	if strings.TrimSpace(payload.SessionID) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "session_id must not be empty")
		return
	}

	if h.images == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "image generation unavailable")
		return
	}

	imageB64, err := h.images.GenerateImage(r.Context(), payload.Prompt)
	if err != nil {
		log.Printf("[chat] image generation failed session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Image generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"image_base64": imageB64,
		"session_id":   payload.SessionID,
	})
}
