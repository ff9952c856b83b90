package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the fixed dimensionality of every stored recipe embedding.
const EmbeddingDim = 384

// Difficulty is the closed set of difficulty labels a recipe may carry.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// MealType is the closed set of meal-type labels a recipe may carry.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
	MealTypeDessert   MealType = "dessert"
)

// UnitType is the closed set of measurement categories (spec §6).
type UnitType string

const (
	UnitTypeVolume UnitType = "volume"
	UnitTypeWeight UnitType = "weight"
	UnitTypeCount  UnitType = "count"
)

// StringSlice is a JSON-backed []string column, mirroring how the teacher
// stack persists flexible string arrays in Postgres (pageza's
// JSONBStringArray) without pulling in a Postgres-array driver type.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if len(raw) == 0 {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// RecipeIngredient is the canonical ingredient shape from spec §3: a
// display-ready row, independent of how the store normalizes it into its
// ingredient/measurement catalogs. This is what parsers produce, what the
// staged JSON carries, and what the validator inspects.
type RecipeIngredient struct {
	Item       string `json:"item"`
	Amount     string `json:"amount,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Notes      string `json:"notes,omitempty"`
	OrderIndex int    `json:"order_index"`
}

// Recipe is the canonical stored record described by spec §3. Scalar
// columns map directly onto the "recipes" table; Ingredients is populated
// and persisted by the store adapter via the normalized catalog/junction
// tables (spec §6), not by GORM association magic, so it carries `gorm:"-"`.
type Recipe struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Identifier  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"identifier"`
	Title       string    `gorm:"size:500;not null;index:idx_recipes_title" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`

	Instructions StringSlice `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`

	PrepMinutes  *int `json:"prep_minutes,omitempty"`
	CookMinutes  *int `json:"cook_minutes,omitempty"`
	TotalMinutes *int `json:"total_minutes,omitempty"`

	Servings *float64 `json:"servings,omitempty"`

	Difficulty  Difficulty `gorm:"size:20;index" json:"difficulty,omitempty"`
	CuisineType string     `gorm:"size:100;index" json:"cuisine_type,omitempty"`
	MealType    MealType   `gorm:"size:20;index" json:"meal_type,omitempty"`

	DietaryTags StringSlice `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_tags"`

	SourceURL          string `gorm:"size:1000" json:"source_url,omitempty"`
	SourcePostID       string `gorm:"size:200;index" json:"source_post_id,omitempty"`
	SourceAuthor       string `gorm:"size:200" json:"source_author,omitempty"`
	SourceScore        *int   `json:"source_score,omitempty"`
	SourceCommentCount *int   `json:"source_comments_count,omitempty"`

	Embedding pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	HasVector bool            `gorm:"column:has_vector;not null;default:false" json:"-"`

	Ingredients []RecipeIngredient `gorm:"-" json:"ingredients"`
}

func (Recipe) TableName() string { return "recipes" }

// Ingredient is the deduplicated ingredient-name catalog (spec §6).
type Ingredient struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:300;uniqueIndex;not null" json:"name"`
	Category    string `gorm:"size:100" json:"category,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Ingredient) TableName() string { return "ingredients" }

// Measurement is the deduplicated unit catalog (spec §6).
type Measurement struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Abbreviation string   `gorm:"size:30" json:"abbreviation,omitempty"`
	UnitType     UnitType `gorm:"size:20" json:"unit_type,omitempty"`
}

func (Measurement) TableName() string { return "measurements" }

// RecipeIngredientRow is the junction row persisted by the store adapter:
// one per (recipe, ingredient) pair, at a given order index (spec §6).
type RecipeIngredientRow struct {
	ID            uint         `gorm:"primaryKey" json:"-"`
	RecipeID      uint         `gorm:"not null;uniqueIndex:idx_recipe_ingredient_order,priority:1" json:"-"`
	IngredientID  uint         `gorm:"not null;uniqueIndex:idx_recipe_ingredient_order,priority:2" json:"-"`
	MeasurementID *uint        `json:"-"`
	Amount        string       `gorm:"size:200" json:"amount,omitempty"`
	Notes         string       `gorm:"size:500" json:"notes,omitempty"`
	OrderIndex    int          `gorm:"not null;uniqueIndex:idx_recipe_ingredient_order,priority:3" json:"order_index"`
	Ingredient    *Ingredient  `json:"-"`
	Measurement   *Measurement `json:"-"`
}

func (RecipeIngredientRow) TableName() string { return "recipe_ingredients" }
