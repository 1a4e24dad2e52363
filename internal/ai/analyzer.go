package ai

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/util"
)

// Prompt input limits, in runes.
const (
	tagContentLimit        = 1000
	suggestionContentLimit = 800
)

// Reply budgets.
const (
	tagMaxTokens        = 100
	suggestionMaxTokens = 400
)

const tagSystemPrompt = `You are an AI assistant that analyzes text and generates relevant tags.
Generate 3-5 concise, relevant tags for the given note content.
Focus on: topic, category, urgency, type of content.
Return only a JSON array of tag strings, nothing else.
Example: ["work", "meeting", "urgent", "project"]`

const suggestionSystemPrompt = `You are a writing assistant. Analyze the given note and provide helpful suggestions.
Return a JSON object with these fields:
{
    "improvements": ["suggestion1", "suggestion2"],
    "tone_analysis": "professional/casual/academic",
    "readability_score": "high/medium/low",
    "suggested_edits": ["edit1", "edit2"],
    "completion_suggestions": ["complete this thought...", "add this section..."]
}
Keep suggestions practical and concise.`

var quotedRe = regexp.MustCompile(`"([^"]+)"`)

// Completer is the part of Client the analyzer needs.
type Completer interface {
	Enabled() bool
	ChatCompletion(ctx context.Context, messages []Message, opts RequestOptions) (string, error)
}

// Analyzer produces auto-tags and writing suggestions for notes.
// It never fails: when the model is unavailable or replies with something
// unusable, keyword and word-count heuristics are used instead.
type Analyzer struct {
	client Completer
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyzer creates an analyzer. A nil or disabled client means heuristics only.
func NewAnalyzer(client Completer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		client: client,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether a model backs the analyzer.
func (a *Analyzer) Enabled() bool {
	return a.client != nil && a.client.Enabled()
}

// Analyze returns both tags and suggestions for a note.
func (a *Analyzer) Analyze(ctx context.Context, title, content string) ([]string, domain.Suggestions) {
	tags := a.GenerateTags(ctx, title, content)
	suggestions := a.GenerateSuggestions(ctx, title, content)
	return tags, suggestions
}

// GenerateTags returns up to five lowercase tags for a note.
func (a *Analyzer) GenerateTags(ctx context.Context, title, content string) []string {
	if !a.Enabled() {
		return FallbackTags(title, content)
	}

	reply, err := a.client.ChatCompletion(ctx, []Message{
		{Role: RoleSystem, Content: tagSystemPrompt},
		{Role: RoleUser, Content: notePrompt(title, content, tagContentLimit)},
	}, RequestOptions{MaxTokens: tagMaxTokens})
	if err != nil {
		a.logger.Warn("tag generation failed, using keywords", "error", err)
		return FallbackTags(title, content)
	}

	if tags, ok := parseTags(reply); ok {
		return tags
	}
	a.logger.Debug("unusable tag reply, using keywords", "reply", util.Truncate(reply, 200))
	return FallbackTags(title, content)
}

// GenerateSuggestions returns writing feedback for a note.
func (a *Analyzer) GenerateSuggestions(ctx context.Context, title, content string) domain.Suggestions {
	if !a.Enabled() {
		return FallbackSuggestions(title, content, a.now())
	}

	reply, err := a.client.ChatCompletion(ctx, []Message{
		{Role: RoleSystem, Content: suggestionSystemPrompt},
		{Role: RoleUser, Content: notePrompt(title, content, suggestionContentLimit)},
	}, RequestOptions{MaxTokens: suggestionMaxTokens})
	if err != nil {
		a.logger.Warn("suggestion generation failed, using heuristics", "error", err)
		return FallbackSuggestions(title, content, a.now())
	}

	s, err := parseSuggestions(reply)
	if err != nil {
		a.logger.Debug("unusable suggestion reply, using heuristics", "error", err)
		return FallbackSuggestions(title, content, a.now())
	}
	s.GeneratedAt = a.now()
	return s
}

func notePrompt(title, content string, limit int) string {
	return fmt.Sprintf("Title: %s\n\nContent: %s", title, util.Truncate(content, limit))
}

// parseTags reads a model reply. A JSON array is cleaned tag by tag. Anything
// else falls back to pulling quoted words out of the text. ok is false when
// the reply is valid JSON of some other shape.
func parseTags(reply string) (tags []string, ok bool) {
	body := stripCodeFence(reply)

	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return quotedTags(body), true
	}

	items, isList := raw.([]any)
	if !isList {
		return nil, false
	}

	tags = make([]string, 0, domain.MaxAutoTags)
	for _, item := range items[:min(len(items), domain.MaxAutoTags)] {
		s, isString := item.(string)
		if !isString {
			continue
		}
		tag := util.CleanAutoTag(s, domain.MaxAutoTagLength)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags, true
}

// quotedTags keeps the purely alphanumeric quoted strings among the first five.
func quotedTags(reply string) []string {
	matches := quotedRe.FindAllStringSubmatch(reply, -1)
	tags := make([]string, 0, domain.MaxAutoTags)
	for _, m := range matches[:min(len(matches), domain.MaxAutoTags)] {
		if !isAlnum(m[1]) {
			continue
		}
		tags = append(tags, util.Truncate(strings.ToLower(m[1]), domain.MaxAutoTagLength))
	}
	return tags
}

// suggestionReply mirrors the JSON object the model is asked for.
type suggestionReply struct {
	Improvements          []string `json:"improvements"`
	ToneAnalysis          string   `json:"tone_analysis"`
	ReadabilityScore      string   `json:"readability_score"`
	SuggestedEdits        []string `json:"suggested_edits"`
	CompletionSuggestions []string `json:"completion_suggestions"`
}

func parseSuggestions(reply string) (domain.Suggestions, error) {
	var r suggestionReply
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &r); err != nil {
		return domain.Suggestions{}, fmt.Errorf("decode suggestions: %w", err)
	}
	s := domain.Suggestions{
		Improvements:          r.Improvements,
		ToneAnalysis:          r.ToneAnalysis,
		ReadabilityScore:      strings.ToLower(strings.TrimSpace(r.ReadabilityScore)),
		SuggestedEdits:        r.SuggestedEdits,
		CompletionSuggestions: r.CompletionSuggestions,
	}
	s.Normalize()
	return s, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
