package fx

import (
	"log"

	"go.uber.org/fx"

	"github.com/amityadav/voyago/internal/ai"
	"github.com/amityadav/voyago/internal/config"
	"github.com/amityadav/voyago/internal/core"
	"github.com/amityadav/voyago/internal/normalize"
	"github.com/amityadav/voyago/internal/search"
	"github.com/amityadav/voyago/internal/serpapi"
	"github.com/amityadav/voyago/internal/tavily"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// AIModule provides the LLM provider and the audio transcriber
var AIModule = fx.Module("ai",
	fx.Provide(
		NewAIProvider,
		NewTranscriber,
	),
)

// SearchModule provides the search registry with all search providers
var SearchModule = fx.Module("search",
	fx.Provide(NewSearchRegistry),
)

// CoreModule provides the planning pipeline
var CoreModule = fx.Module("core",
	fx.Provide(
		NewNormalizer,
		NewPlanner,
	),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewAIProvider creates the OpenAI chat provider used for extraction
// and composition
func NewAIProvider(cfg config.Config) ai.Provider {
	provider := ai.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.ExtractModel, cfg.ComposeModel)
	log.Printf("[FX] AIProvider initialized (%s, extract=%s compose=%s)", provider.Name(), cfg.ExtractModel, cfg.ComposeModel)
	return provider
}

// NewTranscriber creates the Whisper transcription client
func NewTranscriber(cfg config.Config) ai.Transcriber {
	t := ai.NewWhisperClient(cfg.OpenAIAPIKey, cfg.WhisperModel)
	log.Printf("[FX] Transcriber initialized (model=%s)", cfg.WhisperModel)
	return t
}

// NewSearchRegistry creates the registry with all available providers.
// Tavily is required; SerpApi is an optional extra source.
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()

	registry.Register(tavily.NewClient(cfg.TavilyAPIKey))
	log.Printf("[FX] SearchRegistry: Tavily registered")

	if cfg.SerpAPIKey != "" {
		registry.Register(serpapi.NewClient(cfg.SerpAPIKey))
		log.Printf("[FX] SearchRegistry: SerpApi registered")
	}

	log.Printf("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewNormalizer creates the input normalizer
func NewNormalizer(t ai.Transcriber) *normalize.Normalizer {
	n := normalize.NewNormalizer(t)
	log.Printf("[FX] Normalizer initialized")
	return n
}

// NewPlanner creates the trip planning pipeline
func NewPlanner(provider ai.Provider, registry *search.Registry, n *normalize.Normalizer) *core.Planner {
	p := core.NewPlanner(provider, registry, n)
	log.Printf("[FX] Planner initialized")
	return p
}
