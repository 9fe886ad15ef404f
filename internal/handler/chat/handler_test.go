package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/nomadiq/travel-assistant/backend/internal/model/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/service/ai"
	chatservice "github.com/nomadiq/travel-assistant/backend/internal/service/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/store"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(context.Context, []ai.PromptMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeImageGenerator struct {
	image string
	err   error
}

func (f *fakeImageGenerator) GenerateImage(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.image, nil
}

func setupRouter(completer chatservice.Completer, images ImageGenerator) (*chi.Mux, *store.MemoryMessageStore) {
	messages := store.NewMemoryMessageStore()
	chatSvc := chatservice.NewService(messages, completer, 5, 100)
	handler := New(chatSvc, images)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, messages
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatNewSessionRoundTrip(t *testing.T) {
	r, _ := setupRouter(&fakeCompleter{reply: "Day 1: the Louvre."}, nil)

	resp := postJSON(t, r, "/chat", map[string]any{
		"message":   "Plan a trip to Paris for 5 days",
		"location":  "Paris, France",
		"duration":  "5 days",
		"budget":    "$2000-3000",
		"travelers": 2,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var chatResp struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &chatResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if chatResp.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
	if chatResp.Message == "" {
		t.Fatal("expected a non-empty reply")
	}

	histReq := httptest.NewRequest(http.MethodGet, "/chat-history/"+chatResp.SessionID, nil)
	histResp := httptest.NewRecorder()
	r.ServeHTTP(histResp, histReq)
	if histResp.Code != http.StatusOK {
		t.Fatalf("expected 200 history, got %d", histResp.Code)
	}

	var history []chatmodel.Message
	if err := json.Unmarshal(histResp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Sender != chatmodel.SenderUser || history[0].Message != "Plan a trip to Paris for 5 days" {
		t.Fatalf("unexpected user turn: %+v", history[0])
	}
	if history[1].Sender != chatmodel.SenderAssistant || history[1].Message != "Day 1: the Louvre." {
		t.Fatalf("unexpected assistant turn: %+v", history[1])
	}
}

func TestChatReusedSessionAccumulatesTurns(t *testing.T) {
	r, messages := setupRouter(&fakeCompleter{reply: "noted"}, nil)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "first", "session_id": "session-7"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = postJSON(t, r, "/chat", map[string]any{"message": "second", "session_id": "session-7"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	stored, err := messages.All(context.Background(), "session-7", 100)
	if err != nil {
		t.Fatalf("All err: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(stored))
	}
}

func TestChatEmptyMessage(t *testing.T) {
	r, messages := setupRouter(&fakeCompleter{reply: "ok"}, nil)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "", "session_id": ""})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	stored, err := messages.All(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("All err: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected nothing persisted, got %d turns", len(stored))
	}
}

func TestChatEmptySessionID(t *testing.T) {
	r, _ := setupRouter(&fakeCompleter{reply: "ok"}, nil)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "hello", "session_id": "  "})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestChatInvalidBody(t *testing.T) {
	r, _ := setupRouter(&fakeCompleter{reply: "ok"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatGatewayFailure(t *testing.T) {
	gatewayErr := fmt.Errorf("%w: upstream 500", ai.ErrGateway)
	r, messages := setupRouter(&fakeCompleter{err: gatewayErr}, nil)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "hello", "session_id": "s1"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Chat processing failed") {
		t.Fatalf("expected generic detail, got %s", resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "upstream") {
		t.Fatalf("internal detail leaked: %s", resp.Body.String())
	}

	// The user turn stays persisted even though the reply failed.
	stored, err := messages.All(context.Background(), "s1", 100)
	if err != nil {
		t.Fatalf("All err: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected the dangling user turn, got %d turns", len(stored))
	}
}

func TestChatUnavailableWithoutCompleter(t *testing.T) {
	r, _ := setupRouter(nil, nil)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "hello"})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestHistoryUnknownSessionReturnsEmptyArray(t *testing.T) {
	r, _ := setupRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/chat-history/unknown-id", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestGenerateImageSuccess(t *testing.T) {
	r, _ := setupRouter(nil, &fakeImageGenerator{image: "aGVsbG8="})

	resp := postJSON(t, r, "/generate-trip-image", map[string]any{
		"prompt":     "eiffel tower at dusk",
		"session_id": "s1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var imageResp struct {
		ImageBase64 string `json:"image_base64"`
		SessionID   string `json:"session_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &imageResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if imageResp.ImageBase64 != "aGVsbG8=" {
		t.Fatalf("unexpected image payload: %q", imageResp.ImageBase64)
	}
	if imageResp.SessionID != "s1" {
		t.Fatalf("expected session id echoed, got %q", imageResp.SessionID)
	}
}

func TestGenerateImageValidation(t *testing.T) {
	r, _ := setupRouter(nil, &fakeImageGenerator{image: "x"})

	resp := postJSON(t, r, "/generate-trip-image", map[string]any{"prompt": "", "session_id": "s1"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty prompt, got %d", resp.Code)
	}

	resp = postJSON(t, r, "/generate-trip-image", map[string]any{"prompt": "a beach", "session_id": ""})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty session_id, got %d", resp.Code)
	}
}

func TestGenerateImageUnavailable(t *testing.T) {
	r, _ := setupRouter(nil, nil)

	resp := postJSON(t, r, "/generate-trip-image", map[string]any{"prompt": "a beach", "session_id": "s1"})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestGenerateImageProviderFailure(t *testing.T) {
	gatewayErr := fmt.Errorf("%w: no data", ai.ErrGateway)
	r, _ := setupRouter(nil, &fakeImageGenerator{err: gatewayErr})

	resp := postJSON(t, r, "/generate-trip-image", map[string]any{"prompt": "a beach", "session_id": "s1"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Image generation failed") {
		t.Fatalf("expected generic detail, got %s", resp.Body.String())
	}
}
