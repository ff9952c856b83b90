// Package searchindex implements the hybrid lexical/semantic search index
// (spec §4.6) as a hand-rolled REST client, grounded on the teacher's
// internal/platform/qdrant package — there is no Elasticsearch/OpenSearch/
// Bleve client anywhere in the retrieval pack, and the teacher's own
// qdrant integration is itself a hand-rolled net/http client rather than
// an imported SDK, so that is this package's idiom too.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

const maxErrorBodyBytes = 1024

// Hit is one search result (spec §4.6 query()).
type Hit struct {
	Identifier string
	Score      float64
}

// SyncReport is sync_all's/bulk_upsert's outcome tally (spec §4.6).
type SyncReport struct {
	Success int
	Skipped int
	Failed  int
}

// QueryMode selects which clause(s) the index evaluates (spec §4.6).
type QueryMode string

const (
	QueryModeText     QueryMode = "text"
	QueryModeSemantic QueryMode = "semantic"
	QueryModeHybrid   QueryMode = "hybrid"
)

// QueryFilters narrows a query by closed-set/keyword terms and numeric ranges.
type QueryFilters struct {
	Difficulty  string
	CuisineType string
	MealType    string
	DietaryTags []string
	MinPrep     *int
	MaxPrep     *int
}

// Query describes one search request (spec §4.6 query()).
type Query struct {
	Text              string
	Filters           QueryFilters
	SemanticVector    []float32
	Mode              QueryMode
	From              int
	Size              int
	HybridVectorBoost float64
}

// Rerank optionally re-orders hits after the index returns them. Nil by
// default (see DESIGN.md's open-question decision on cross-encoder rerank).
type Rerank func(hits []Hit) []Hit

// Indexer is the search indexer contract (spec §4.6).
type Indexer interface {
	EnsureIndex(ctx context.Context) error
	RecreateIndex(ctx context.Context) error
	BulkUpsert(ctx context.Context, recipes []*domain.Recipe) (SyncReport, error)
	Query(ctx context.Context, q Query) ([]Hit, error)
}

type client struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
	rerank  Rerank
}

// New constructs a REST-backed Indexer, grounded on qdrant.NewVectorStore's
// construction shape (logger + config in, readiness not required up front
// since ensure_index is an explicit operation rather than a constructor
// side effect per spec §4.6).
func New(log *logger.Logger, cfg Config, rerank Rerank) (Indexer, error) {
	if log == nil {
		return nil, fmt.Errorf("searchindex: logger required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &client{
		log:     log.With("component", "SearchIndexer"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		rerank:  rerank,
	}, nil
}

// EnsureIndex creates the index if absent; it never mutates an existing
// index in place (spec §4.6 — destructive refresh is RecreateIndex only).
func (c *client) EnsureIndex(ctx context.Context) error {
	const op = "ensure_index"
	exists, err := c.indexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.createIndex(ctx, op)
}

// RecreateIndex drops and recreates the index with a fresh mapping. This is
// the only destructive path (spec §4.6).
func (c *client) RecreateIndex(ctx context.Context) error {
	const op = "recreate_index"
	if err := c.doJSON(ctx, op, http.MethodDelete, c.indexPath(""), nil, nil); err != nil {
		var opErrTyped *OperationError
		if !errors.As(err, &opErrTyped) || opErrTyped.StatusCode != http.StatusNotFound {
			return err
		}
	}
	return c.createIndex(ctx, op)
}

func (c *client) indexExists(ctx context.Context) (bool, error) {
	const op = "ensure_index_probe"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+c.indexPath(""), nil)
	if err != nil {
		return false, opErr(op, OperationErrorTransportFailed, "build head request failed", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, classifyHTTPCallError(op, "index existence check failed", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func (c *client) createIndex(ctx context.Context, op string) error {
	body := map[string]any{
		"mappings": indexMapping(c.cfg.VectorDim),
	}
	return c.doJSON(ctx, op, http.MethodPut, c.indexPath(""), body, nil)
}

// indexMapping mirrors spec §4.6's field list exactly: analyzed title with
// a keyword sub-field, analyzed description/instructions, nested
// ingredients (analyzed name + keyword sub-field), keyword facets, numeric
// timings/scores, and a dense_vector of fixed dimension.
func indexMapping(dim int) map[string]any {
	return map[string]any{
		"properties": map[string]any{
			"title": map[string]any{
				"type":   "text",
				"fields": map[string]any{"keyword": map[string]any{"type": "keyword"}},
			},
			"description":  map[string]any{"type": "text"},
			"instructions": map[string]any{"type": "text"},
			"ingredients": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"name": map[string]any{
						"type":   "text",
						"fields": map[string]any{"keyword": map[string]any{"type": "keyword"}},
					},
				},
			},
			"difficulty":    map[string]any{"type": "keyword"},
			"cuisine_type":  map[string]any{"type": "keyword"},
			"meal_type":     map[string]any{"type": "keyword"},
			"dietary_tags":  map[string]any{"type": "keyword"},
			"prep_minutes":  map[string]any{"type": "integer"},
			"cook_minutes":  map[string]any{"type": "integer"},
			"total_minutes": map[string]any{"type": "integer"},
			"source_score":  map[string]any{"type": "integer"},
			"embedding":     map[string]any{"type": "dense_vector", "dims": dim},
		},
	}
}

// BulkUpsert writes a batch of recipes keyed by identifier (spec §4.6).
// Callers own batching; this issues a single bulk request per call.
func (c *client) BulkUpsert(ctx context.Context, recipes []*domain.Recipe) (SyncReport, error) {
	const op = "bulk_upsert"
	if len(recipes) == 0 {
		return SyncReport{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range recipes {
		doc := toDocument(r)
		action := map[string]any{"index": map[string]any{"_id": doc.ID}}
		if err := enc.Encode(action); err != nil {
			return SyncReport{}, opErr(op, OperationErrorEncodeFailed, "encode bulk action failed", err)
		}
		if err := enc.Encode(doc); err != nil {
			return SyncReport{}, opErr(op, OperationErrorEncodeFailed, "encode bulk document failed", err)
		}
	}

	var result struct {
		Items []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  string `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := c.doBulk(ctx, op, buf.Bytes(), &result); err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{}
	for _, item := range result.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			report.Success++
		} else {
			report.Failed++
		}
	}
	return report, nil
}

func (c *client) doBulk(ctx context.Context, op string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.indexPath("/_bulk"), bytes.NewReader(body))
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build bulk request failed", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "bulk request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return ErrRejected
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*maxErrorBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read bulk response failed", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{Code: OperationErrorTransportFailed, Operation: op, StatusCode: resp.StatusCode, Message: truncateBody(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode bulk response failed", err)
	}
	return nil
}

func (c *client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*maxErrorBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", readErr)
	}
	if resp.StatusCode == http.StatusNotFound {
		return &OperationError{Code: OperationErrorValidation, Operation: op, StatusCode: resp.StatusCode, Message: truncateBody(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{Code: OperationErrorTransportFailed, Operation: op, StatusCode: resp.StatusCode, Message: truncateBody(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode response failed", err)
	}
	return nil
}

func classifyHTTPCallError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	return opErr(op, OperationErrorTransportFailed, message, err)
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}

func (c *client) indexPath(suffix string) string {
	path := "/" + c.cfg.IndexName
	if strings.TrimSpace(suffix) == "" {
		return path
	}
	return path + suffix
}
