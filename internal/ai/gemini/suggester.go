package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/ats-scorer/internal/ai"
	"github.com/spigell/ats-scorer/internal/logger"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Suggester struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	maxResumeRunes      = 2000
	minLineRunes        = 20
	lineMarkers         = "•-*123456789. "
)

func NewSuggester(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Suggester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Suggester{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *Suggester) Suggest(ctx context.Context, req ai.Request) ([]string, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("gemini generator is required")
	}

	prompt := buildPrompt(req)

	s.logger.Debug("gemini generate content request",
		zap.Int("ats_score", req.Score),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(req ai.Request) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME_TEXT}}\n\nATS score: {{ATS_SCORE}}/100\nSections: {{SECTIONS}}\n\nJSON array of 5 suggestions:"
	}

	text := req.Text
	if runes := []rune(text); len(runes) > maxResumeRunes {
		text = string(runes[:maxResumeRunes])
	}

	prompt := strings.ReplaceAll(template, "{{RESUME_TEXT}}", text)
	prompt = strings.ReplaceAll(prompt, "{{ATS_SCORE}}", strconv.Itoa(req.Score))
	prompt = strings.ReplaceAll(prompt, "{{SECTIONS}}", strings.Join(req.Sections.Detected(), ", "))
	return prompt
}

// parseResponse reads a JSON array of strings, optionally fenced as markdown.
// Responses that are not JSON are read line by line as a bullet list.
func parseResponse(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var suggestions []string
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		suggestions = parseLines(raw)
		if len(suggestions) == 0 {
			return nil, fmt.Errorf("parse gemini response: %w: %w", ai.ErrNoSuggestions, err)
		}
		return suggestions, nil
	}

	out := make([]string, 0, ai.MaxSuggestions)
	for _, suggestion := range suggestions {
		if suggestion = strings.TrimSpace(suggestion); suggestion == "" {
			continue
		}
		out = append(out, suggestion)
		if len(out) == ai.MaxSuggestions {
			break
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("parse gemini response: %w", ai.ErrNoSuggestions)
	}

	return out, nil
}

func parseLines(raw string) []string {
	var suggestions []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), lineMarkers)
		if utf8.RuneCountInString(line) <= minLineRunes {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == ai.MaxSuggestions {
			break
		}
	}
	return suggestions
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
