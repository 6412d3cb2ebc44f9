package badge

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// seedFile is the YAML shape of a starter achievement catalog.
type seedFile struct {
	Categories []struct {
		Name         string `yaml:"name"`
		Description  string `yaml:"description"`
		Icon         string `yaml:"icon"`
		Color        string `yaml:"color"`
		DisplayStyle string `yaml:"display_style"`
	} `yaml:"categories"`
	Series []struct {
		Name         string `yaml:"name"`
		Description  string `yaml:"description"`
		Category     string `yaml:"category"`
		Icon         string `yaml:"icon"`
		IsSequential bool   `yaml:"is_sequential"`
		BonusPoints  int    `yaml:"bonus_points"`
	} `yaml:"series"`
	Achievements []struct {
		Name                string   `yaml:"name"`
		Description         string   `yaml:"description"`
		Category            string   `yaml:"category"`
		Series              string   `yaml:"series"`
		Tier                int      `yaml:"tier"`
		Points              int      `yaml:"points"`
		Icon                string   `yaml:"icon"`
		Difficulty          string   `yaml:"difficulty"`
		Rarity              string   `yaml:"rarity"`
		CriteriaType        string   `yaml:"criteria_type"`
		Criteria            string   `yaml:"criteria"`
		CriteriaDescription string   `yaml:"criteria_description"`
		Prerequisites       []string `yaml:"prerequisites"`
		Hidden              bool     `yaml:"hidden"`
		Featured            bool     `yaml:"featured"`
	} `yaml:"achievements"`
}

// SeedCatalog installs an achievement catalog from a YAML file, replacing
// any definitions of the same name. Prerequisites are resolved by name
// within the file. Runs in one transaction.
func SeedCatalog(ctx context.Context, db *gorm.DB, path string, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]*AchievementCategory, len(seed.Categories))
		for _, c := range seed.Categories {
			category := AchievementCategory{
				Name:         c.Name,
				Description:  c.Description,
				Icon:         c.Icon,
				Color:        c.Color,
				DisplayStyle: c.DisplayStyle,
			}
			err := tx.Where(AchievementCategory{Name: c.Name}).
				Assign(category).
				FirstOrCreate(&category).Error
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
			categories[c.Name] = &category
		}

		series := make(map[string]*AchievementSeries, len(seed.Series))
		for _, s := range seed.Series {
			category, ok := categories[s.Category]
			if !ok {
				return fmt.Errorf("series %q references unknown category %q", s.Name, s.Category)
			}
			record := AchievementSeries{
				CategoryID:   category.ID,
				Name:         s.Name,
				Description:  s.Description,
				Icon:         s.Icon,
				IsSequential: s.IsSequential,
				BonusPoints:  s.BonusPoints,
			}
			err := tx.Where(AchievementSeries{Name: s.Name, CategoryID: category.ID}).
				Assign(record).
				FirstOrCreate(&record).Error
			if err != nil {
				return fmt.Errorf("seed series %q: %w", s.Name, err)
			}
			series[s.Name] = &record
		}

		created := make(map[string]*Achievement, len(seed.Achievements))
		for _, a := range seed.Achievements {
			category, ok := categories[a.Category]
			if !ok {
				return fmt.Errorf("achievement %q references unknown category %q", a.Name, a.Category)
			}
			record := Achievement{
				Name:                a.Name,
				Description:         a.Description,
				CategoryID:          category.ID,
				Tier:                a.Tier,
				Points:              a.Points,
				Icon:                a.Icon,
				Difficulty:          a.Difficulty,
				Rarity:              a.Rarity,
				CriteriaType:        a.CriteriaType,
				CriteriaDescription: a.CriteriaDescription,
				IsPublic:            true,
				Hidden:              a.Hidden,
				Featured:            a.Featured,
			}
			if a.Series != "" {
				s, ok := series[a.Series]
				if !ok {
					return fmt.Errorf("achievement %q references unknown series %q", a.Name, a.Series)
				}
				record.SeriesID = &s.ID
			}
			if a.Criteria != "" {
				record.CriteriaValue = datatypes.JSON(a.Criteria)
			}

			err := tx.Where(Achievement{Name: a.Name, CategoryID: category.ID}).
				Assign(record).
				FirstOrCreate(&record).Error
			if err != nil {
				return fmt.Errorf("seed achievement %q: %w", a.Name, err)
			}

			// Reject unparsable criteria at seed time instead of letting the
			// engine skip the definition on every run.
			if record.CriteriaType != CriteriaManual {
				if _, err := ParseCriteria(&record); err != nil {
					return fmt.Errorf("achievement %q: %w", a.Name, err)
				}
			}

			created[a.Name] = &record
		}

		for _, a := range seed.Achievements {
			if len(a.Prerequisites) == 0 {
				continue
			}
			record := created[a.Name]
			prereqs := make([]*Achievement, 0, len(a.Prerequisites))
			for _, name := range a.Prerequisites {
				prereq, ok := created[name]
				if !ok {
					return fmt.Errorf("achievement %q references unknown prerequisite %q", a.Name, name)
				}
				prereqs = append(prereqs, prereq)
			}
			if err := tx.Model(record).Association("Prerequisites").Replace(prereqs); err != nil {
				return fmt.Errorf("link prerequisites of %q: %w", a.Name, err)
			}
		}

		logger.Info("achievement catalog seeded",
			zap.Int("categories", len(categories)),
			zap.Int("series", len(series)),
			zap.Int("achievements", len(created)))
		return nil
	})
}
