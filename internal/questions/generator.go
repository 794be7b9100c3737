package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mkarpov/interview-runner/internal/ai"
	"github.com/mkarpov/interview-runner/internal/retry"
	"github.com/mkarpov/interview-runner/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Generator is a Source backed by an AI provider. Transient upstream
// failures are retried; malformed responses are rejected before the session
// engine ever sees them.
type Generator struct {
	ai        ai.Generator
	retry     retry.Config
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(generator ai.Generator, retryCfg retry.Config, logger *zap.Logger, maxLogLength int) *Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		ai:        generator,
		retry:     retryCfg,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (g *Generator) Generate(ctx context.Context, jobDescription string) ([]Question, error) {
	if err := ValidateJobDescription(jobDescription); err != nil {
		return nil, err
	}

	prompt := buildPrompt(jobDescription)

	g.logger.Debug("question generation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := retry.Do(ctx, g.retry, g.logger, func(ctx context.Context) (string, error) {
		return g.ai.GenerateContent(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}

	g.logger.Debug("question generation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	decoded, err := ParseQuestionList(raw)
	if err != nil {
		return nil, err
	}

	return Vet(g.logger, decoded)
}

func buildPrompt(jobDescription string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job Description:\n{{JOB_DESCRIPTION}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", strings.TrimSpace(jobDescription))
}

// ParseQuestionList extracts the JSON array from a raw AI response and
// decodes it into questions. Parsing failures are permanent errors.
func ParseQuestionList(raw string) ([]Question, error) {
	cleaned := extractJSONArray(raw)
	if cleaned == "" {
		return nil, errors.New("invalid response format: no JSON array found")
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse question list: %w", err)
	}

	var decoded []Question
	cfg := &mapstructure.DecoderConfig{
		Result:           &decoded,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode question list: %w", err)
	}

	return decoded, nil
}

// extractJSONArray strips markdown code fences and surrounding prose,
// leaving the first top-level JSON array.
func extractJSONArray(raw string) string {
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

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}

	return strings.TrimSpace(raw[start : end+1])
}
