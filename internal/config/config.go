package config

import (
	"os"
)

// Config holds all application configuration
type Config struct {
	OpenAIAPIKey string
	TavilyAPIKey string
	SerpAPIKey   string // optional, enables the extra SerpApi source
	HTTPAddr     string
	ExtractModel string
	ComposeModel string
	WhisperModel string
}

// Load loads configuration from environment variables. The two required
// API keys fail fast at startup rather than on the first request.
func Load() Config {
	return Config{
		OpenAIAPIKey: getEnvOrPanic("OPENAI_API_KEY"),
		TavilyAPIKey: getEnvOrPanic("TAVILY_API_KEY"),
		SerpAPIKey:   os.Getenv("SERPAPI_API_KEY"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		ExtractModel: getEnv("EXTRACT_MODEL", "gpt-4o-mini"),
		ComposeModel: getEnv("COMPOSE_MODEL", "gpt-4o-mini"),
		WhisperModel: getEnv("WHISPER_MODEL", "whisper-1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrPanic(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic("Missing required environment variable: " + key)
	}
	return value
}
