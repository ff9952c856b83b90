package store

import (
	"gorm.io/gorm"

	"github.com/pill/recipes-etl/internal/domain"
)

// AutoMigrate creates or updates the recipe tables, mirroring the model
// set storetest.DB migrates for tests. Exported so cmd/recipectl and
// cmd/recipeworker can migrate a real deployment the same way.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Recipe{},
		&domain.Ingredient{},
		&domain.Measurement{},
		&domain.RecipeIngredientRow{},
	)
}
