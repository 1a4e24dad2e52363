// Package translation translates note text to Simplified Chinese through a
// chat-completions model.
package translation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/notetakerapp/notetaker-server/internal/ai"
)

// FailedText replaces a translation that could not be produced.
const FailedText = "翻译失败 (Translation failed)"

const systemPrompt = "You are a professional translator. Translate the given English text to Chinese (Simplified). " +
	"Only return the translated text, no explanations or additional content."

// ErrNotConfigured is returned when no API token is set.
var ErrNotConfigured = errors.New("translation: not configured")

// Translator translates English text to Simplified Chinese.
type Translator struct {
	client ai.Completer
	logger *slog.Logger
}

// New creates a translator backed by client.
func New(client ai.Completer, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{client: client, logger: logger}
}

// Configured reports whether the backing client has credentials.
func (t *Translator) Configured() bool {
	return t.client != nil && t.client.Enabled()
}

// Translate returns the Chinese translation of text. Blank input returns ""
// without calling the model.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if !t.Configured() {
		return "", ErrNotConfigured
	}

	reply, err := t.client.ChatCompletion(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: systemPrompt},
		{Role: ai.RoleUser, Content: "Translate this to Chinese: " + text},
	}, ai.RequestOptions{Temperature: 0.3, TopP: 1.0})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// TranslateToChinese is Translate with failures folded into FailedText.
func (t *Translator) TranslateToChinese(ctx context.Context, text string) string {
	out, err := t.Translate(ctx, text)
	if err != nil {
		t.logger.Warn("translation failed", "error", err, "chars", len(text))
		return FailedText
	}
	return out
}
