// Package importer loads USDA FoodData Central branded foods into the foods
// table.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutriplan/backend/internal/models"
)

const (
	DefaultBatchSize = 1000
	rootKey          = "BrandedFoods"
)

type labelValue struct {
	Value *float64 `json:"value"`
}

type labelNutrients struct {
	Calories      *labelValue `json:"calories"`
	Protein       *labelValue `json:"protein"`
	Carbohydrates *labelValue `json:"carbohydrates"`
	Fat           *labelValue `json:"fat"`
	Fiber         *labelValue `json:"fiber"`
	Sugars        *labelValue `json:"sugars"`
	Sodium        *labelValue `json:"sodium"`
}

// BrandedFood is one element of the BrandedFoods array.
type BrandedFood struct {
	FdcID               int64          `json:"fdcId"`
	Description         string         `json:"description"`
	BrandOwner          string         `json:"brandOwner"`
	GtinUpc             string         `json:"gtinUpc"`
	Ingredients         string         `json:"ingredients"`
	BrandedFoodCategory string         `json:"brandedFoodCategory"`
	ServingSize         *float64       `json:"servingSize"`
	ServingSizeUnit     string         `json:"servingSizeUnit"`
	LabelNutrients      labelNutrients `json:"labelNutrients"`
}

// Options controls an import run.
type Options struct {
	BatchSize int
	// Limit stops after this many parsed foods. Zero means no limit.
	Limit int
}

// Result summarizes an import run.
type Result struct {
	Parsed   int
	Inserted int
	Skipped  int
}

// Importer streams a USDA export and inserts foods in batches. Existing
// fdc_ids are left untouched.
type Importer struct {
	db    *gorm.DB
	title cases.Caser
}

func New(db *gorm.DB) *Importer {
	return &Importer{db: db, title: cases.Title(language.English)}
}

// Import reads r, which must hold a JSON object with a BrandedFoods array.
func (im *Importer) Import(r io.Reader, opts Options) (Result, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	dec := json.NewDecoder(r)
	if err := seekArray(dec, rootKey); err != nil {
		return Result{}, err
	}

	var res Result
	batch := make([]models.Food, 0, opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := im.insert(batch)
		if err != nil {
			return err
		}
		res.Inserted += inserted
		res.Skipped += len(batch) - inserted
		batch = batch[:0]
		return nil
	}

	for dec.More() {
		if opts.Limit > 0 && res.Parsed >= opts.Limit {
			break
		}
		var item BrandedFood
		if err := dec.Decode(&item); err != nil {
			return res, fmt.Errorf("failed to decode food: %w", err)
		}
		food, ok := im.Convert(item)
		if !ok {
			res.Skipped++
			continue
		}
		res.Parsed++
		batch = append(batch, food)

		if len(batch) >= opts.BatchSize {
			if err := flush(); err != nil {
				return res, err
			}
			if res.Inserted > 0 && res.Inserted%10000 < opts.BatchSize {
				log.Printf("Progress: %d imported, %d skipped", res.Inserted, res.Skipped)
			}
		}
	}

	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}

func (im *Importer) insert(batch []models.Food) (int, error) {
	tx := im.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fdc_id"}},
		DoNothing: true,
	}).CreateInBatches(&batch, len(batch))
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to insert foods: %w", tx.Error)
	}
	return int(tx.RowsAffected), nil
}

// Convert maps a USDA item to a Food. Items without a calorie label value
// are rejected.
func (im *Importer) Convert(item BrandedFood) (models.Food, bool) {
	ln := item.LabelNutrients
	if item.FdcID == 0 || ln.Calories == nil || ln.Calories.Value == nil || *ln.Calories.Value == 0 {
		return models.Food{}, false
	}

	return models.Food{
		FdcID:           item.FdcID,
		Description:     truncate(im.description(item.Description), 500),
		BrandOwner:      truncate(item.BrandOwner, 200),
		Barcode:         truncate(item.GtinUpc, 50),
		Ingredients:     item.Ingredients,
		Category:        truncate(item.BrandedFoodCategory, 200),
		ServingSize:     item.ServingSize,
		ServingSizeUnit: truncate(item.ServingSizeUnit, 20),
		Calories:        ln.Calories.Value,
		Protein:         value(ln.Protein),
		Carbs:           value(ln.Carbohydrates),
		Fats:            value(ln.Fat),
		Fiber:           value(ln.Fiber),
		Sugars:          value(ln.Sugars),
		Sodium:          value(ln.Sodium),
	}, true
}

// description title-cases the all-caps names most USDA records carry.
func (im *Importer) description(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && s == strings.ToUpper(s) {
		return im.title.String(s)
	}
	return s
}

func value(v *labelValue) *float64 {
	if v == nil {
		return nil
	}
	return v.Value
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// seekArray advances dec past the opening bracket of the array stored under
// key in the top-level object.
func seekArray(dec *json.Decoder, key string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("export must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read export: %w", err)
		}
		if name, _ := tok.(string); name == key {
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}
			if d, ok := tok.(json.Delim); !ok || d != '[' {
				return fmt.Errorf("%s must be an array", key)
			}
			return nil
		}
		// Skip the value of any other key.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return fmt.Errorf("failed to read export: %w", err)
		}
	}
	return fmt.Errorf("export has no %s array", key)
}
