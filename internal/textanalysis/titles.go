package textanalysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autocontent/internal/faults"
	"autocontent/internal/services/llm"
	"autocontent/internal/transcript"
)

// MaxTitleCount is the exclusive upper bound for SuggestTitles.
const MaxTitleCount = 20

// Completer issues a JSON-only chat completion.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const titleSystemPrompt = `You write titles for short videos. The user message is a transcription of a video.
Respond with JSON only, shaped as {"titles": ["title one", "title two"]}.`

const bestTitleSystemPrompt = `You pick the title that best suits a short video and is most likely to convert viewers.
The user message lists candidate TITLES and the video TEXT.
Respond with JSON only, shaped as {"title": "chosen title"}.`

// TranscriptText joins record texts into one block of prose.
func TranscriptText(records []transcript.Record) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		if text := strings.Join(strings.Fields(rec.Text), " "); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// SuggestTitles asks the model for count candidate titles for text.
// count must satisfy 0 < count < MaxTitleCount.
func SuggestTitles(ctx context.Context, completer Completer, text string, count int) ([]string, error) {
	if count <= 0 || count >= MaxTitleCount {
		return nil, faults.Wrap(faults.ErrValidation, "suggest titles", fmt.Sprintf("invalid title count %d (want 1-%d)", count, MaxTitleCount-1), nil)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, faults.Wrap(faults.ErrEmptyTranscript, "suggest titles", "no text to title", nil)
	}

	prompt := fmt.Sprintf("Generate %d titles for this TEXT.\n\nTEXT: %s", count, text)
	content, err := completer.CompleteJSON(ctx, titleSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("suggest titles: %w", err)
	}
	titles, err := decodeTitles(content)
	if err != nil {
		return nil, err
	}
	if len(titles) > count {
		titles = titles[:count]
	}
	return titles, nil
}

// PickBestTitle asks the model to choose among candidate titles.
func PickBestTitle(ctx context.Context, completer Completer, titles []string, text string) (string, error) {
	if len(titles) == 0 {
		return "", faults.Wrap(faults.ErrValidation, "pick title", "no candidate titles", nil)
	}
	if len(titles) == 1 {
		return titles[0], nil
	}
	prompt := fmt.Sprintf("TITLES: %q\n\nTEXT: %s", titles, strings.TrimSpace(text))
	content, err := completer.CompleteJSON(ctx, bestTitleSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("pick title: %w", err)
	}
	var parsed struct {
		Title string `json:"title"`
	}
	if err := llm.DecodeJSON(content, &parsed); err != nil {
		return "", faults.Wrap(faults.ErrExternalTool, "pick title", "parse payload", err)
	}
	if title := strings.TrimSpace(parsed.Title); title != "" {
		return title, nil
	}
	return "", faults.Wrap(faults.ErrExternalTool, "pick title", "model returned an empty title", nil)
}

// TitleCase applies English title casing to every title.
func TitleCase(titles []string) []string {
	caser := cases.Title(language.English)
	out := make([]string, len(titles))
	for i, title := range titles {
		out[i] = caser.String(title)
	}
	return out
}

// decodeTitles accepts either {"titles": [...]} or a bare JSON list.
func decodeTitles(content string) ([]string, error) {
	var wrapped struct {
		Titles []string `json:"titles"`
	}
	var titles []string
	if err := llm.DecodeJSON(content, &wrapped); err == nil && wrapped.Titles != nil {
		titles = wrapped.Titles
	} else if err := llm.DecodeJSON(content, &titles); err != nil {
		return nil, faults.Wrap(faults.ErrExternalTool, "suggest titles", "parse payload", err)
	}
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		if title = strings.TrimSpace(title); title != "" {
			out = append(out, title)
		}
	}
	if len(out) == 0 {
		return nil, faults.Wrap(faults.ErrExternalTool, "suggest titles", "model returned no titles", nil)
	}
	return out, nil
}
