// Package embedding generates fixed-dimension recipe embeddings (spec
// §4.4): deterministic text construction from title + ingredient items,
// caching against the store's existing embedding, and best-effort failure
// handling — an embedding-less recipe is still valid.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// Generator produces recipe embeddings. Implementations must be safe for
// concurrent use; a single instance is a per-worker singleton (spec §9).
type Generator interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedder wraps a langchaingo embeddings.Embedder the way
// poiesic-memorit's ai/openai.Embedder does, adapted to this domain's
// fixed-dimension and caching requirements.
type Embedder struct {
	inner embeddings.Embedder
	log   *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Embedder, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(tokenOrNone(cfg.APIKey)),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding: construct openai client: %w", err)
	}
	inner, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("embedding: construct embedder: %w", err)
	}
	return &Embedder{inner: inner, log: log}, nil
}

func tokenOrNone(key string) string {
	if key == "" {
		return "none"
	}
	return key
}

// Embed returns the raw vector for arbitrary text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.inner.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding: embed documents: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedding: provider returned no vectors")
	}
	return vecs[0], nil
}

// BuildText constructs the canonical embedding input: "<title>.
// <ingredient_item_1>, <ingredient_item_2>, …" (spec §4.4), order
// preserved, items only, no amounts.
func BuildText(r *domain.Recipe) string {
	items := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Item != "" {
			items = append(items, ing.Item)
		}
	}
	return strings.TrimSpace(r.Title + ". " + strings.Join(items, ", "))
}

// NeedsRegeneration reports whether a recipe's embedding must be
// regenerated: no embedding yet, or the cached input text no longer
// matches title+ingredients (spec §4.4 caching rule).
func NeedsRegeneration(r *domain.Recipe, cachedText string) bool {
	if !r.HasVector {
		return true
	}
	return BuildText(r) != cachedText
}

// EnsureEmbedding generates and attaches an embedding to r if needed,
// reusing the cached one when title/ingredients are unchanged. Failures
// are returned but never panic — the caller treats embedding as
// best-effort per spec §4.4 and proceeds without one on error.
func EnsureEmbedding(ctx context.Context, gen Generator, r *domain.Recipe, cachedText string, log *logger.Logger) error {
	if !NeedsRegeneration(r, cachedText) {
		return nil
	}
	text := BuildText(r)
	vec, err := gen.Embed(ctx, text)
	if err != nil {
		if log != nil {
			log.Warn("embedding generation failed, proceeding without embedding", "identifier", r.Identifier.String(), "error", err)
		}
		return err
	}
	if len(vec) != domain.EmbeddingDim {
		err := fmt.Errorf("embedding: expected %d dims, got %d", domain.EmbeddingDim, len(vec))
		if log != nil {
			log.Warn("embedding dimension mismatch, discarding", "identifier", r.Identifier.String(), "error", err)
		}
		return err
	}
	r.Embedding = pgvector.NewVector(vec)
	r.HasVector = true
	return nil
}
