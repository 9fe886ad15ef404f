package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults for the chat pipeline. The context window feeds the completion
// prompt; the history limit bounds the transcript endpoint. They diverge on
// purpose: the window controls provider cost, the limit controls display.
const (
	DefaultContextWindow = 5
	DefaultHistoryLimit  = 100
)

// Config aggregates the service configuration.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	AI     AIConfig
	Chat   ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Mongo:  loadMongoConfig(),
		AI:     loadAIConfig(),
		Chat:   chat,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	return ServerConfig{
		Addr:           addr,
		AllowedOrigins: parseOrigins(getEnvOrDefault("CORS_ORIGINS", "*")),
	}, nil
}

func parseOrigins(raw string) []string {
	if raw == "*" {
		return []string{"*"}
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// MongoConfig describes the document store connection.
type MongoConfig struct {
	URL      string
	Database string
}

// Enabled reports whether a connection string was provided.
func (c MongoConfig) Enabled() bool {
	return c.URL != ""
}

func loadMongoConfig() MongoConfig {
	return MongoConfig{
		URL:      strings.TrimSpace(os.Getenv("MONGO_URL")),
		Database: getEnvOrDefault("DB_NAME", "travel_db"),
	}
}

// AIConfig describes the OpenAI-backed completion and image gateways.
type AIConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
}

// Enabled reports whether the required API key was provided.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() AIConfig {
	return AIConfig{
		APIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:    strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		ChatModel:  getEnvOrDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		ImageModel: getEnvOrDefault("OPENAI_IMAGE_MODEL", "dall-e-3"),
	}
}

// ChatConfig bounds the conversation pipeline.
type ChatConfig struct {
	ContextWindow int
	HistoryLimit  int
}

func loadChatConfig() (ChatConfig, error) {
	window := DefaultContextWindow
	if override, err := parseOptionalIntEnv("CHAT_CONTEXT_WINDOW"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			window = 1
		} else {
			window = *override
		}
	}

	limit := DefaultHistoryLimit
	if override, err := parseOptionalIntEnv("CHAT_HISTORY_LIMIT"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			limit = 1
		} else {
			limit = *override
		}
	}

	return ChatConfig{ContextWindow: window, HistoryLimit: limit}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
