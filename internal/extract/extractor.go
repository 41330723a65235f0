// Package extract turns raw call transcripts into flat field maps using
// regex pattern tables backed by a model-based extraction pass.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/launchline/concierge/internal/anthropic"
	"github.com/launchline/concierge/internal/metrics"
)

// fillerValues are transcript answers that carry no information; extracted
// values matching one of these (case-insensitively) are dropped.
var fillerValues = map[string]bool{
	"not sure": true,
	"unknown":  true,
	"tbd":      true,
	"n/a":      true,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

type Extractor struct {
	llm    *anthropic.Client
	logger *slog.Logger
}

func New(llm *anthropic.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger}
}

// Extract runs both extraction strategies over a transcript and merges them.
// Pattern matches override model output for the same field: a regex hit on the
// literal transcript is higher-confidence than a model paraphrase. Extraction
// never fails the caller: a model error degrades to pattern-only results, and
// the worst case is an empty map.
func (e *Extractor) Extract(ctx context.Context, transcript string, stageNum int) map[string]string {
	pattern := PatternFields(stageNum, transcript)

	var model map[string]string
	if e.llm != nil && strings.TrimSpace(transcript) != "" {
		m, err := e.modelFields(ctx, transcript, stageNum)
		if err != nil {
			metrics.ExtractionFailures.Inc()
			e.logger.Warn("model extraction failed, keeping pattern results",
				"stage", stageNum,
				"error", err,
			)
		} else {
			model = m
		}
	}

	merged := make(map[string]string, len(model)+len(pattern))
	for k, v := range model {
		merged[k] = v
	}
	for k, v := range pattern {
		merged[k] = v
	}

	out := make(map[string]string, len(merged))
	for k, v := range merged {
		if cleaned, ok := CleanValue(v); ok {
			out[k] = cleaned
		}
	}

	e.logger.Info("extraction complete",
		"stage", stageNum,
		"pattern_fields", len(pattern),
		"model_fields", len(model),
		"merged_fields", len(out),
	)
	return out
}

func (e *Extractor) modelFields(ctx context.Context, transcript string, stageNum int) (map[string]string, error) {
	instruction, ok := stageInstructions[stageNum]
	if !ok {
		return nil, fmt.Errorf("no instruction for stage %d", stageNum)
	}

	messages := []anthropic.Message{
		{Role: "user", Content: instruction + "\n\nTranscript:\n" + transcript},
	}

	raw, err := e.llm.Complete(ctx, extractionSystemPrompt, messages, 2048)
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}

	// Models occasionally wrap the object in fences or prose despite the
	// instruction; parse the outermost object.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parse extraction: %w", err)
	}

	out := make(map[string]string, len(parsed))
	for k, v := range parsed {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

// CleanValue normalizes an extracted value: trims whitespace, strips wrapping
// quotes and a trailing period, and collapses internal whitespace runs. It
// reports false for values that are empty or filler after cleaning.
func CleanValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			v = v[1 : len(v)-1]
		}
	}
	v = strings.TrimSuffix(v, ".")
	v = whitespaceRun.ReplaceAllString(v, " ")
	v = strings.TrimSpace(v)

	if v == "" || fillerValues[strings.ToLower(v)] {
		return "", false
	}
	return v, true
}
