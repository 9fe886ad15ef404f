package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/nomadiq/travel-assistant/backend/internal/handler/chat"
	statusHandler "github.com/nomadiq/travel-assistant/backend/internal/handler/status"
	middlewarePkg "github.com/nomadiq/travel-assistant/backend/internal/middleware"
	"github.com/nomadiq/travel-assistant/backend/internal/service/ai"
	chatService "github.com/nomadiq/travel-assistant/backend/internal/service/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/store"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil when the
// provider is not configured; the affected routes answer 503.
func NewRouter(statuses store.StatusStore, chatSvc *chatService.Service, aiSvc *ai.Service, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	var images chatHandler.ImageGenerator
	if aiSvc != nil {
		images = aiSvc
	}

	statusH := statusHandler.New(statuses)
	chatH := chatHandler.New(chatSvc, images)

	r.Route("/api", func(api chi.Router) {
		statusH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)
	})

	return r
}
