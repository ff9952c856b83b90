package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, rt roundTripFunc) *client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return &client{
		log:     log,
		cfg:     Config{URL: "http://search.local", IndexName: "recipes", VectorDim: 384},
		baseURL: "http://search.local",
		http:    &http.Client{Transport: rt},
	}
}

func jsonResponse(t *testing.T, status int, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(raw)),
	}
}

func TestEnsureIndex_CreatesWhenAbsent(t *testing.T) {
	var headCalled, putCalled bool
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		switch r.Method {
		case http.MethodHead:
			headCalled = true
			return &http.Response{StatusCode: http.StatusNotFound, Header: make(http.Header), Body: io.NopCloser(bytes.NewReader(nil))}, nil
		case http.MethodPut:
			putCalled = true
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if _, ok := body["mappings"]; !ok {
				t.Fatalf("expected mappings in create-index body")
			}
			return jsonResponse(t, http.StatusOK, map[string]any{"acknowledged": true}), nil
		default:
			t.Fatalf("unexpected method %s", r.Method)
			return nil, nil
		}
	})

	if err := c.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if !headCalled || !putCalled {
		t.Fatalf("expected both HEAD and PUT calls, got head=%v put=%v", headCalled, putCalled)
	}
}

func TestEnsureIndex_NoOpWhenPresent(t *testing.T) {
	putCalled := false
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.Method == http.MethodPut {
			putCalled = true
		}
		return &http.Response{StatusCode: http.StatusOK, Header: make(http.Header), Body: io.NopCloser(bytes.NewReader(nil))}, nil
	})

	if err := c.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if putCalled {
		t.Fatalf("EnsureIndex must not mutate an existing index in place")
	}
}

func TestBulkUpsert_ReportsPerDocumentOutcome(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/recipes/_bulk" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected 2 action/doc line pairs, got %d lines", len(lines))
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"index": map[string]any{"_id": "a", "status": 201}},
				{"index": map[string]any{"_id": "b", "status": 400, "error": "mapper_parsing_exception"}},
			},
		}), nil
	})

	r1 := &domain.Recipe{Identifier: uuid.New(), Title: "Soup"}
	r2 := &domain.Recipe{Identifier: uuid.New(), Title: "Stew"}
	report, err := c.BulkUpsert(context.Background(), []*domain.Recipe{r1, r2})
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if report.Success != 1 || report.Failed != 1 {
		t.Fatalf("report: want success=1 failed=1, got %+v", report)
	}
}

func TestBulkUpsert_RejectedOnBackpressure(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusTooManyRequests, Header: make(http.Header), Body: io.NopCloser(bytes.NewReader(nil))}, nil
	})

	_, err := c.BulkUpsert(context.Background(), []*domain.Recipe{{Identifier: uuid.New(), Title: "Soup"}})
	if err != ErrRejected {
		t.Fatalf("want ErrRejected, got %v", err)
	}
}

func TestQuery_TextModeBuildsMultiMatch(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		query, ok := body["query"].(map[string]any)
		if !ok {
			t.Fatalf("expected query clause, got %v", body)
		}
		boolClause := query["bool"].(map[string]any)
		if _, ok := boolClause["must"]; !ok {
			t.Fatalf("expected must clause for text mode")
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"hits": map[string]any{
				"hits": []map[string]any{
					{"_id": "r1", "_score": 2.5},
				},
			},
		}), nil
	})

	hits, err := c.Query(context.Background(), Query{Text: "comfort food", Mode: QueryModeText, Size: 5})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 1 || hits[0].Identifier != "r1" {
		t.Fatalf("hits: got %+v", hits)
	}
}

func TestQuery_SemanticModeBuildsKNN(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, ok := body["knn"]; !ok {
			t.Fatalf("expected knn clause for semantic mode")
		}
		return jsonResponse(t, http.StatusOK, map[string]any{"hits": map[string]any{"hits": []map[string]any{}}}), nil
	})

	_, err := c.Query(context.Background(), Query{SemanticVector: []float32{0.1, 0.2}, Mode: QueryModeSemantic, Size: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
}

func TestQuery_RerankHookApplied(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(t, http.StatusOK, map[string]any{
			"hits": map[string]any{
				"hits": []map[string]any{
					{"_id": "low", "_score": 0.1},
					{"_id": "high", "_score": 0.9},
				},
			},
		}), nil
	})
	c.rerank = func(hits []Hit) []Hit {
		out := make([]Hit, len(hits))
		for i, h := range hits {
			out[len(hits)-1-i] = h
		}
		return out
	}

	hits, err := c.Query(context.Background(), Query{Text: "x", Mode: QueryModeText})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if hits[0].Identifier != "high" {
		t.Fatalf("expected rerank to reorder hits, got %+v", hits)
	}
}
