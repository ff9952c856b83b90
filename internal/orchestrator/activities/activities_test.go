package activities

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/feed"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/pkg/logger"
	"github.com/pill/recipes-etl/internal/searchindex"
	"github.com/pill/recipes-etl/internal/store"
)

type fakeStore struct {
	byPrimaryKey map[uint]*domain.Recipe
	nextKey      uint
	created      []*domain.Recipe
	updated      []*domain.Recipe
}

func newFakeStore() *fakeStore { return &fakeStore{byPrimaryKey: map[uint]*domain.Recipe{}} }

func (f *fakeStore) Create(_ dbctx.Context, r *domain.Recipe) (store.CreateResult, error) {
	for _, existing := range f.byPrimaryKey {
		if existing.Identifier == r.Identifier {
			return store.CreateResult{PrimaryKey: existing.ID, Identifier: existing.Identifier, AlreadyExisted: true}, nil
		}
	}
	if err := store.Validate(r); err != nil {
		return store.CreateResult{}, err
	}
	f.nextKey++
	r.ID = f.nextKey
	f.byPrimaryKey[f.nextKey] = r
	f.created = append(f.created, r)
	return store.CreateResult{PrimaryKey: r.ID, Identifier: r.Identifier}, nil
}

func (f *fakeStore) GetByIdentifier(_ dbctx.Context, id uuid.UUID) (*domain.Recipe, error) {
	for _, r := range f.byPrimaryKey {
		if r.Identifier == id {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetByTitle(dbctx.Context, string) (*domain.Recipe, error) { return nil, store.ErrNotFound }

func (f *fakeStore) GetByPrimaryKey(_ dbctx.Context, primaryKey uint) (*domain.Recipe, error) {
	r, ok := f.byPrimaryKey[primaryKey]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) Update(_ dbctx.Context, primaryKey uint, r *domain.Recipe) error {
	r.ID = primaryKey
	f.byPrimaryKey[primaryKey] = r
	f.updated = append(f.updated, r)
	return nil
}

func (f *fakeStore) SearchText(dbctx.Context, string, store.Filters, int, int) ([]*domain.Recipe, error) {
	return nil, nil
}

func (f *fakeStore) Stats(dbctx.Context) (store.Stats, error) { return store.Stats{}, nil }

type fakeIndexer struct {
	upserted []*domain.Recipe
	err      error
}

func (f *fakeIndexer) EnsureIndex(context.Context) error   { return nil }
func (f *fakeIndexer) RecreateIndex(context.Context) error { return nil }
func (f *fakeIndexer) Query(context.Context, searchindex.Query) ([]searchindex.Hit, error) {
	return nil, nil
}

func (f *fakeIndexer) BulkUpsert(_ context.Context, recipes []*domain.Recipe) (searchindex.SyncReport, error) {
	if f.err != nil {
		return searchindex.SyncReport{}, f.err
	}
	f.upserted = append(f.upserted, recipes...)
	return searchindex.SyncReport{Success: len(recipes)}, nil
}

type fakeGenerator struct{ calls int }

func (g *fakeGenerator) Embed(context.Context, string) ([]float32, error) {
	g.calls++
	return make([]float32, domain.EmbeddingDim), nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func writeRawCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.csv")
	content := "title,comment,author,source_url,source_post_id,source_score\n"
	for _, r := range rows {
		content += r + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestExtractOne_StagesAndIsIdempotent(t *testing.T) {
	csvPath := writeRawCSV(t, `Chili,"Title: Chili
Ingredients:
- 1 cup beans
- 2 lb beef
Instructions:
1. Brown the beef
2. Simmer with beans",chef,https://example.com/1,post-1,42`)
	a := &Activities{Log: testLogger(t), StageDir: t.TempDir()}

	out1, err := a.ExtractOne(context.Background(), ExtractOneInput{Source: csvPath, EntryIndex: 1})
	if err != nil {
		t.Fatalf("ExtractOne: %v", err)
	}
	if out1.StagedPath == "" {
		t.Fatalf("expected a staged path")
	}

	out2, err := a.ExtractOne(context.Background(), ExtractOneInput{Source: csvPath, EntryIndex: 1})
	if err != nil {
		t.Fatalf("ExtractOne (retry): %v", err)
	}
	if out2.StagedPath != out1.StagedPath {
		t.Fatalf("expected retry to be a no-op onto the same path: %s vs %s", out1.StagedPath, out2.StagedPath)
	}
}

func TestExtractOne_EmptyTextIsValidationError(t *testing.T) {
	csvPath := writeRawCSV(t, `Empty,,chef,,,`)
	a := &Activities{Log: testLogger(t), StageDir: t.TempDir()}

	_, err := a.ExtractOne(context.Background(), ExtractOneInput{Source: csvPath, EntryIndex: 1})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("want *ValidationError, got %v", err)
	}
}

func TestLoadOne_SecondLoadReportsAlreadyExisted(t *testing.T) {
	st := newFakeStore()
	a := &Activities{Log: testLogger(t), Store: st, StageDir: t.TempDir()}

	csvPath := writeRawCSV(t, `Cookies,"Ingredients:
- 1 cup flour
- 1 cup sugar
Instructions:
1. Mix
2. Bake",chef,,post-1,`)
	extracted, err := a.ExtractOne(context.Background(), ExtractOneInput{Source: csvPath, EntryIndex: 1})
	if err != nil {
		t.Fatalf("ExtractOne: %v", err)
	}

	first, err := a.LoadOne(context.Background(), extracted.StagedPath)
	if err != nil {
		t.Fatalf("LoadOne: %v", err)
	}
	if first.AlreadyExisted {
		t.Fatalf("expected first load to be a fresh insert")
	}

	second, err := a.LoadOne(context.Background(), extracted.StagedPath)
	if err != nil {
		t.Fatalf("LoadOne (retry): %v", err)
	}
	if !second.AlreadyExisted {
		t.Fatalf("expected second load to report already_existed=true")
	}
	if second.PrimaryKey != first.PrimaryKey {
		t.Fatalf("primary key mismatch across retries: %d vs %d", first.PrimaryKey, second.PrimaryKey)
	}
}

func TestSyncOne_EmbedsAndUpserts(t *testing.T) {
	st := newFakeStore()
	r := &domain.Recipe{Identifier: uuid.New(), Title: "Soup", Ingredients: []domain.RecipeIngredient{{Item: "broth"}}}
	st.nextKey = 1
	r.ID = 1
	st.byPrimaryKey[1] = r
	idx := &fakeIndexer{}
	gen := &fakeGenerator{}
	a := &Activities{Log: testLogger(t), Store: st, Indexer: idx, Embedder: gen}

	out, err := a.SyncOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success")
	}
	if gen.calls != 1 {
		t.Fatalf("expected embedding generated once, got %d", gen.calls)
	}
	if len(idx.upserted) != 1 {
		t.Fatalf("expected one upserted document, got %d", len(idx.upserted))
	}
}

func TestSyncOne_RejectionIsReportedAsSkipped(t *testing.T) {
	st := newFakeStore()
	r := &domain.Recipe{Identifier: uuid.New(), Title: "Soup", HasVector: true}
	st.byPrimaryKey[1] = r
	idx := &fakeIndexer{err: searchindex.ErrRejected}
	a := &Activities{Log: testLogger(t), Store: st, Indexer: idx}

	out, err := a.SyncOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if !out.Skipped || out.Success {
		t.Fatalf("expected skipped=true success=false, got %+v", out)
	}
}

func TestEmbedOne_SkipsWhenAlreadyVectored(t *testing.T) {
	st := newFakeStore()
	r := &domain.Recipe{Identifier: uuid.New(), Title: "Soup", HasVector: true}
	st.byPrimaryKey[1] = r
	gen := &fakeGenerator{}
	a := &Activities{Log: testLogger(t), Store: st, Embedder: gen}

	out, err := a.EmbedOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("EmbedOne: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success")
	}
	if gen.calls != 0 {
		t.Fatalf("expected no embedding call for an already-vectored recipe")
	}
}

type fakeFeedSource struct{ items []feed.Item }

func (f *fakeFeedSource) FetchRecent(context.Context, int) ([]feed.Item, error) { return f.items, nil }

type fakePublisher struct{ count int }

func (p *fakePublisher) Publish(context.Context, bus.Event) error { p.count++; return nil }

func TestScrapeFeedOnce_WrapsPoller(t *testing.T) {
	registry := feed.NewRegistry()
	registry.Register("recipes", &fakeFeedSource{items: []feed.Item{
		{Author: "a", SelfText: "ingredients: eggs"},
	}})
	pub := &fakePublisher{}
	a := &Activities{Log: testLogger(t), Poller: feed.NewPoller(registry, pub, testLogger(t))}

	out, err := a.ScrapeFeedOnce(context.Background(), "recipes", 10)
	if err != nil {
		t.Fatalf("ScrapeFeedOnce: %v", err)
	}
	if out.ItemsPublished != 1 {
		t.Fatalf("items_published: want=1 got=%d", out.ItemsPublished)
	}
}
