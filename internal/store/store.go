// Package store implements the idempotent relational store adapter (spec
// §4.5): dedup by identifier then by title, a single transaction per
// insert spanning the ingredient/measurement catalogs and the junction
// table, and read/stats/search paths used by the orchestrator and CLI.
package store

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pill/recipes-etl/internal/domain"
	"github.com/pill/recipes-etl/internal/identity"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/pkg/logger"
)

// CreateResult reports the outcome of Create (spec §4.5).
type CreateResult struct {
	PrimaryKey     uint
	Identifier     uuid.UUID
	AlreadyExisted bool
}

// Filters narrows SearchText results by closed-set or keyword fields.
type Filters struct {
	Difficulty  domain.Difficulty
	CuisineType string
	MealType    domain.MealType
	DietaryTags []string
}

// Stats reports counts and averages by category (spec §4.5, §11).
type Stats struct {
	Total          int64
	ByCuisine      map[string]int64
	ByDifficulty   map[string]int64
	ByMealType     map[string]int64
	AvgPrepMinutes float64
	AvgCookMinutes float64
}

// Store is the store adapter contract (spec §4.5).
type Store interface {
	Create(dbc dbctx.Context, r *domain.Recipe) (CreateResult, error)
	GetByIdentifier(dbc dbctx.Context, id uuid.UUID) (*domain.Recipe, error)
	GetByTitle(dbc dbctx.Context, title string) (*domain.Recipe, error)
	GetByPrimaryKey(dbc dbctx.Context, primaryKey uint) (*domain.Recipe, error)
	Update(dbc dbctx.Context, primaryKey uint, r *domain.Recipe) error
	SearchText(dbc dbctx.Context, query string, filters Filters, limit, offset int) ([]*domain.Recipe, error)
	Stats(dbc dbctx.Context) (Stats, error)
}

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// New constructs a gorm-backed Store, grounded on the teacher's
// repo-per-concern constructor shape (jobs.NewJobRunRepo).
func New(db *gorm.DB, baseLog *logger.Logger) Store {
	return &gormStore{db: db, log: baseLog.With("repo", "Store")}
}

func (s *gormStore) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return s.db.WithContext(dbc.Ctx)
}

// Create implements the dedup policy from spec §4.5: identifier match,
// then normalized-title match, then insert under a single transaction.
func (s *gormStore) Create(dbc dbctx.Context, r *domain.Recipe) (CreateResult, error) {
	if existing, err := s.GetByIdentifier(dbc, r.Identifier); err == nil && existing != nil {
		return CreateResult{PrimaryKey: existing.ID, Identifier: existing.Identifier, AlreadyExisted: true}, nil
	} else if err != nil && err != ErrNotFound {
		return CreateResult{}, err
	}

	if existing, err := s.GetByTitle(dbc, r.Title); err == nil && existing != nil {
		return CreateResult{PrimaryKey: existing.ID, Identifier: existing.Identifier, AlreadyExisted: true}, nil
	} else if err != nil && err != ErrNotFound {
		return CreateResult{}, err
	}

	if err := Validate(r); err != nil {
		return CreateResult{}, err
	}

	err := s.tx(dbc).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(r).Error; err != nil {
			return err
		}
		return writeIngredientRows(txn, r)
	})
	if err != nil {
		// A concurrent insert of the same identifier lost the race to the
		// unique index; the winning transaction's row is now visible.
		if existing, getErr := s.GetByIdentifier(dbc, r.Identifier); getErr == nil && existing != nil {
			return CreateResult{PrimaryKey: existing.ID, Identifier: existing.Identifier, AlreadyExisted: true}, nil
		}
		return CreateResult{}, err
	}

	return CreateResult{PrimaryKey: r.ID, Identifier: r.Identifier, AlreadyExisted: false}, nil
}

func (s *gormStore) GetByIdentifier(dbc dbctx.Context, id uuid.UUID) (*domain.Recipe, error) {
	var r domain.Recipe
	err := s.tx(dbc).Where("identifier = ?", id).First(&r).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := hydrateIngredients(s.tx(dbc), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByPrimaryKey looks up a recipe the orchestrator already has a
// primary_key for, used by sync_one/embed_one so they don't re-derive it
// from an identifier (spec §4.7).
func (s *gormStore) GetByPrimaryKey(dbc dbctx.Context, primaryKey uint) (*domain.Recipe, error) {
	var r domain.Recipe
	err := s.tx(dbc).First(&r, primaryKey).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := hydrateIngredients(s.tx(dbc), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *gormStore) GetByTitle(dbc dbctx.Context, title string) (*domain.Recipe, error) {
	normalized := identity.Normalize(title)
	// A case/whitespace-insensitive title match can't be expressed as a
	// single portable SQL predicate given identity.Normalize's exact rules,
	// so this narrows with a cheap LIKE first and confirms in Go.
	like := "%" + strings.ToLower(strings.Join(strings.Fields(normalized), "%")) + "%"
	var rows []domain.Recipe
	if err := s.tx(dbc).Where("LOWER(title) LIKE ?", like).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if identity.Normalize(rows[i].Title) == normalized {
			if err := hydrateIngredients(s.tx(dbc), &rows[i]); err != nil {
				return nil, err
			}
			return &rows[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *gormStore) Update(dbc dbctx.Context, primaryKey uint, r *domain.Recipe) error {
	return s.tx(dbc).Transaction(func(txn *gorm.DB) error {
		r.ID = primaryKey
		if err := txn.Save(r).Error; err != nil {
			return err
		}
		if err := txn.Where("recipe_id = ?", primaryKey).Delete(&domain.RecipeIngredientRow{}).Error; err != nil {
			return err
		}
		return writeIngredientRows(txn, r)
	})
}

func (s *gormStore) SearchText(dbc dbctx.Context, query string, filters Filters, limit, offset int) ([]*domain.Recipe, error) {
	q := s.tx(dbc).Model(&domain.Recipe{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filters.Difficulty != "" {
		q = q.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.CuisineType != "" {
		q = q.Where("cuisine_type = ?", filters.CuisineType)
	}
	if filters.MealType != "" {
		q = q.Where("meal_type = ?", filters.MealType)
	}
	if limit <= 0 {
		limit = 20
	}
	var rows []domain.Recipe
	if err := q.Order("title ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Recipe, 0, len(rows))
	for i := range rows {
		if err := hydrateIngredients(s.tx(dbc), &rows[i]); err != nil {
			return nil, err
		}
		out = append(out, &rows[i])
	}
	return out, nil
}

func (s *gormStore) Stats(dbc dbctx.Context) (Stats, error) {
	var stats Stats
	stats.ByCuisine = map[string]int64{}
	stats.ByDifficulty = map[string]int64{}
	stats.ByMealType = map[string]int64{}

	if err := s.tx(dbc).Model(&domain.Recipe{}).Count(&stats.Total).Error; err != nil {
		return Stats{}, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	for _, spec := range []struct {
		column string
		dest   map[string]int64
	}{
		{"cuisine_type", stats.ByCuisine},
		{"difficulty", stats.ByDifficulty},
		{"meal_type", stats.ByMealType},
	} {
		var buckets []bucket
		if err := s.tx(dbc).Model(&domain.Recipe{}).
			Select(spec.column+" AS key, COUNT(*) AS count").
			Where(spec.column+" <> ''").
			Group(spec.column).
			Scan(&buckets).Error; err != nil {
			return Stats{}, err
		}
		for _, b := range buckets {
			spec.dest[b.Key] = b.Count
		}
	}

	var avg struct {
		AvgPrep float64
		AvgCook float64
	}
	if err := s.tx(dbc).Model(&domain.Recipe{}).
		Select("AVG(prep_minutes) AS avg_prep, AVG(cook_minutes) AS avg_cook").
		Scan(&avg).Error; err != nil {
		return Stats{}, err
	}
	stats.AvgPrepMinutes = avg.AvgPrep
	stats.AvgCookMinutes = avg.AvgCook

	return stats, nil
}
