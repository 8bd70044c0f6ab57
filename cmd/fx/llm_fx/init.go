package llm_fx

import (
	"context"
	"log"

	"go.uber.org/fx"
	"wayfarer/pkg/config"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(ProvideLLMClient)

// ProvideLLMClient returns the configured model client, or nil when no provider
// key is set. Embeddings use the client whenever it exists, enrichment only when
// llm.enabled is on.
func ProvideLLMClient(lc fx.Lifecycle, cfg *config.Config) (utils.LLMClientInterface, error) {
	if cfg.LLM.Key == "" {
		log.Printf("No LLM provider configured, semantic search and enrichment are off")
		return nil, nil
	}

	log.Printf("Initializing %s client with model: %s", cfg.LLM.Provider, cfg.LLM.Model)

	switch cfg.LLM.Provider {
	case "openai":
		return utils.NewOpenAIClient(cfg.LLM.Key, cfg.LLM.BaseURL, cfg.LLM.Model), nil
	case "gemini":
		client, err := utils.NewGeminiClient(context.Background(), cfg.LLM.Key, cfg.LLM.Model)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return client, nil
	}
	return nil, nil
}
