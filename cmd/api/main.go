package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nomadiq/travel-assistant/backend/internal/config"
	"github.com/nomadiq/travel-assistant/backend/internal/handler"
	"github.com/nomadiq/travel-assistant/backend/internal/service/ai"
	chatservice "github.com/nomadiq/travel-assistant/backend/internal/service/chat"
	"github.com/nomadiq/travel-assistant/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Stores: MongoDB when configured, in-memory otherwise.
	var (
		messages store.MessageStore
		statuses store.StatusStore
	)
	if cfg.Mongo.Enabled() {
		client, err := store.Dial(ctx, cfg.Mongo.URL)
		if err != nil {
			log.Fatalf("failed to connect to mongodb: %v", err)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Printf("warning: mongodb disconnect: %v", err)
			}
		}()

		db := client.Database(cfg.Mongo.Database)
		messages = store.NewMongoMessageStore(db)
		statuses = store.NewMongoStatusStore(db)
		log.Printf("connected to mongodb database %q", cfg.Mongo.Database)
	} else {
		messages = store.NewMemoryMessageStore()
		statuses = store.NewMemoryStatusStore()
		log.Println("warning: MONGO_URL not set, using in-memory stores (data is lost on restart)")
	}

	// Initialize AI service
	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("OPENAI_API_KEY not set, chat and image generation disabled")
	}

	var completer chatservice.Completer
	if aiSvc != nil {
		completer = aiSvc
	}
	chatSvc := chatservice.NewService(messages, completer, cfg.Chat.ContextWindow, cfg.Chat.HistoryLimit)

	router := handler.NewRouter(statuses, chatSvc, aiSvc, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("travel assistant backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
