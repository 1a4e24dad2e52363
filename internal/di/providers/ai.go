package providers

import (
	"github.com/samber/do/v2"

	"github.com/notetakerapp/notetaker-server/internal/ai"
	"github.com/notetakerapp/notetaker-server/internal/config"
	"github.com/notetakerapp/notetaker-server/internal/logger"
	"github.com/notetakerapp/notetaker-server/internal/translation"
)

// AIClientHandle is the chat-completions client used for tagging and suggestions.
type AIClientHandle struct {
	*ai.Client
}

// TranslationClientHandle is the chat-completions client used for translation.
// It shares the token with the AI client but talks to its own endpoint and model.
type TranslationClientHandle struct {
	*ai.Client
}

// ProvideAIClient provides the AI client. Without a token it is disabled and
// every analysis uses the keyword fallback.
func ProvideAIClient(i do.Injector) (*AIClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := ai.NewClient(ai.ClientConfig{
		URL:               cfg.AI.Endpoint + "/chat/completions",
		Token:             cfg.AI.Token,
		Model:             cfg.AI.Model,
		Timeout:           cfg.AI.Timeout,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
		Logger:            log.Component("ai"),
	})

	if client.Enabled() {
		log.Info("AI client configured", "endpoint", cfg.AI.Endpoint, "model", cfg.AI.Model)
	} else {
		log.Warn("No AI token configured, using keyword fallback for tags and suggestions")
	}

	return &AIClientHandle{Client: client}, nil
}

// ProvideTranslationClient provides the client the translator calls.
func ProvideTranslationClient(i do.Injector) (*TranslationClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := ai.NewClient(ai.ClientConfig{
		URL:               cfg.Translation.Endpoint,
		Token:             cfg.AI.Token,
		Model:             cfg.Translation.Model,
		Timeout:           cfg.AI.Timeout,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
		Logger:            log.Component("translation"),
	})

	return &TranslationClientHandle{Client: client}, nil
}

// ProvideAnalyzer provides the note analyzer.
func ProvideAnalyzer(i do.Injector) (*ai.Analyzer, error) {
	client := do.MustInvoke[*AIClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return ai.NewAnalyzer(client.Client, log.Component("ai")), nil
}

// ProvideTranslator provides the English to Chinese translator.
func ProvideTranslator(i do.Injector) (*translation.Translator, error) {
	client := do.MustInvoke[*TranslationClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return translation.New(client.Client, log.Component("translation")), nil
}
