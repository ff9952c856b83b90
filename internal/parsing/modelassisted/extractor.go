// Package modelassisted implements the model-assisted recipe extractor
// (spec §4.3): the same Recipe shape as internal/parsing/local, produced by
// an external text-completion model instead of heuristics, for the cases a
// caller flags as likely to defeat the local parser. Grounded on
// poiesic-memorit's ai/openai.ConceptExtractor: a langchaingo chat client,
// JSON-mode generation, code-fence stripping, and a bounded retry loop
// around JSON decoding.
package modelassisted

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/parsing/local"
	"github.com/pill/recipes-etl/internal/parsing/repair"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// Completer is the smallest interface the extractor binds to (spec §4.3:
// "complete(prompt, temperature, system_prompt) -> string"), kept narrow so
// tests can fake a model without a live endpoint.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

type langchaingoCompleter struct {
	client llms.Model
}

func (c *langchaingoCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	content := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(systemPrompt)}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(userPrompt)}},
	}
	resp, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(temperature), llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("modelassisted: generate content: %w", err)
	}
	if len(resp.Choices) < 1 {
		return "", fmt.Errorf("modelassisted: model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// Extractor runs the model-assisted extraction contract from spec §4.3,
// including the schema-failure retry/fallback policy from spec §7 error
// kind 5.
type Extractor struct {
	completer Completer
	log       *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Extractor, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(tokenOrNone(cfg.APIKey)),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("modelassisted: construct openai client: %w", err)
	}
	return NewWithCompleter(&langchaingoCompleter{client: client}, log), nil
}

// NewWithCompleter builds an Extractor around an arbitrary Completer,
// primarily for tests.
func NewWithCompleter(completer Completer, log *logger.Logger) *Extractor {
	return &Extractor{completer: completer, log: log}
}

func tokenOrNone(key string) string {
	if key == "" {
		return "none"
	}
	return key
}

// SchemaFailureError wraps the decode error surviving both attempts, so
// callers can distinguish "model unreachable" from "model replied but
// didn't match the schema" (spec §7 error kind 5).
type SchemaFailureError struct {
	Cause error
}

func (e *SchemaFailureError) Error() string {
	return fmt.Sprintf("modelassisted: schema failure after retry: %v", e.Cause)
}

func (e *SchemaFailureError) Unwrap() error { return e.Cause }

// Extract runs the model, decodes against the lenient schema, retries once
// with a stricter re-prompt on decode failure, and returns a
// *SchemaFailureError on a second failure rather than falling back itself
// — ExtractOrFallback is the fallback-aware entry point callers should use.
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.Recipe, error) {
	raw, err := e.decodeOnce(ctx, text, systemPrompt)
	if err != nil {
		raw, err = e.decodeOnce(ctx, text, systemPrompt+"\n\n"+strictReprompt)
		if err != nil {
			return nil, &SchemaFailureError{Cause: err}
		}
	}
	r := toRecipe(raw)
	repair.Apply(r)
	return r, nil
}

func (e *Extractor) decodeOnce(ctx context.Context, text, system string) (rawRecipe, error) {
	response, err := e.completer.Complete(ctx, system, text, 0.0)
	if err != nil {
		return rawRecipe{}, err
	}
	return parseRawRecipe(response)
}

// ExtractOrFallback runs Extract and falls back to the local parser's
// output when the model is unreachable or its output never matches the
// schema, logging the fallback (spec §7 error kind 5: "logged").
func (e *Extractor) ExtractOrFallback(ctx context.Context, text string) *domain.Recipe {
	r, err := e.Extract(ctx, text)
	if err == nil {
		return r
	}
	if e.log != nil {
		e.log.Warn("model-assisted extraction failed, falling back to local parser", "error", err)
	}
	fallback := local.Parse(text)
	repair.Apply(fallback)
	return fallback
}
