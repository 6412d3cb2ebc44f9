package badge

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Catalog is a read-only snapshot of the achievement definitions visible to
// the engine, taken once per evaluation run so every player in a batch sees
// the same rules.
type Catalog struct {
	achievements []Achievement
}

// LoadCatalog snapshots all public achievement definitions with their
// prerequisite edges.
func LoadCatalog(ctx context.Context, db *gorm.DB) (*Catalog, error) {
	var achievements []Achievement
	err := db.WithContext(ctx).
		Preload("Prerequisites").
		Where("is_public = ?", true).
		Order("id").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return &Catalog{achievements: achievements}, nil
}

// All returns every definition in the snapshot.
func (c *Catalog) All() []Achievement {
	return c.achievements
}

// Auto returns the definitions the engine evaluates: everything except
// manual-only achievements, which are granted exclusively by coaches.
func (c *Catalog) Auto() []Achievement {
	return lo.Filter(c.achievements, func(a Achievement, _ int) bool {
		return a.CriteriaType != CriteriaManual
	})
}

// Get looks up a definition by ID.
func (c *Catalog) Get(id uint) (Achievement, bool) {
	return lo.Find(c.achievements, func(a Achievement) bool {
		return a.ID == id
	})
}

// Len reports the snapshot size.
func (c *Catalog) Len() int {
	return len(c.achievements)
}
