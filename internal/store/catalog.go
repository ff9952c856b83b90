package store

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pill/recipes-etl/internal/domain"
)

// writeIngredientRows upserts the ingredient/measurement catalog entries a
// recipe references and writes its junction rows, all within the caller's
// transaction (spec §4.5: "a single recipe insert spans the catalog
// upserts and junction rows in one transaction").
func writeIngredientRows(txn *gorm.DB, r *domain.Recipe) error {
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Item) == "" {
			continue
		}
		ingredientID, err := upsertIngredient(txn, ing.Item)
		if err != nil {
			return err
		}
		var measurementID *uint
		if strings.TrimSpace(ing.Unit) != "" {
			id, err := upsertMeasurement(txn, ing.Unit)
			if err != nil {
				return err
			}
			measurementID = &id
		}
		row := domain.RecipeIngredientRow{
			RecipeID:      r.ID,
			IngredientID:  ingredientID,
			MeasurementID: measurementID,
			Amount:        ing.Amount,
			Notes:         ing.Notes,
			OrderIndex:    ing.OrderIndex,
		}
		if row.OrderIndex == 0 {
			row.OrderIndex = i
		}
		if err := txn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "ingredient_id"}, {Name: "order_index"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "notes", "measurement_id"}),
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func upsertIngredient(txn *gorm.DB, name string) (uint, error) {
	name = strings.TrimSpace(name)
	rec := domain.Ingredient{Name: name}
	err := txn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rec).Error
	if err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		if err := txn.Where("name = ?", name).First(&rec).Error; err != nil {
			return 0, err
		}
	}
	return rec.ID, nil
}

func upsertMeasurement(txn *gorm.DB, name string) (uint, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	rec := domain.Measurement{Name: name}
	err := txn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rec).Error
	if err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		if err := txn.Where("name = ?", name).First(&rec).Error; err != nil {
			return 0, err
		}
	}
	return rec.ID, nil
}

// hydrateIngredients populates r.Ingredients from the junction/catalog
// tables, reversing writeIngredientRows for reads (domain.Recipe.Ingredients
// carries `gorm:"-"` precisely because this hydration is explicit).
func hydrateIngredients(txn *gorm.DB, r *domain.Recipe) error {
	var rows []domain.RecipeIngredientRow
	if err := txn.
		Preload("Ingredient").
		Preload("Measurement").
		Where("recipe_id = ?", r.ID).
		Order("order_index ASC").
		Find(&rows).Error; err != nil {
		return err
	}
	r.Ingredients = make([]domain.RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		item := ""
		if row.Ingredient != nil {
			item = row.Ingredient.Name
		}
		unit := ""
		if row.Measurement != nil {
			unit = row.Measurement.Name
		}
		r.Ingredients = append(r.Ingredients, domain.RecipeIngredient{
			Item:       item,
			Amount:     row.Amount,
			Unit:       unit,
			Notes:      row.Notes,
			OrderIndex: row.OrderIndex,
		})
	}
	return nil
}
