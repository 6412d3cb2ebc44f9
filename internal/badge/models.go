package badge

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// Criteria types
const (
	CriteriaManual         = "manual"
	CriteriaAutoTask       = "auto_task"
	CriteriaAutoAssessment = "auto_assessment"
)

// Criteria kinds inside auto_task / auto_assessment payloads
const (
	KindCompletionCount = "completion_count"
	KindConsecutiveDays = "consecutive_days"
	KindScore           = "score"
)

// AchievementCategory groups achievements for display.
type AchievementCategory struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name         string `gorm:"uniqueIndex"`
	Description  string `gorm:"type:text"`
	Icon         string
	Color        string
	DisplayStyle string `gorm:"default:'grid'"`
}

// AchievementSeries is an ordered progression of achievements within a
// category, with bonus points for completing the whole series.
type AchievementSeries struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	CategoryID   uint `gorm:"index"`
	Name         string
	Description  string `gorm:"type:text"`
	Icon         string
	IsSequential bool `gorm:"default:false"`
	BonusPoints  int  `gorm:"default:0"`
}

// Achievement is a rule describing how a badge is earned. Definitions are
// edited by administrators out-of-band and treated as immutable during
// evaluation.
type Achievement struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name        string `gorm:"index"`
	Description string `gorm:"type:text"`
	CategoryID  uint   `gorm:"index"`
	SeriesID    *uint  `gorm:"index"`
	Tier        int    `gorm:"default:0"`
	Points      int    `gorm:"default:0"`
	Icon        string
	Difficulty  string
	Rarity      string

	CriteriaType        string         `gorm:"default:'manual';index"`
	CriteriaValue       datatypes.JSON `gorm:"type:json"`
	CriteriaDescription string         `gorm:"type:text"`

	// All prerequisites must be fully awarded before this achievement can
	// unlock. The graph is acyclic by admin convention.
	Prerequisites []*Achievement `gorm:"many2many:achievement_prerequisites"`

	IsPublic bool `gorm:"default:true;index"`
	Hidden   bool `gorm:"default:false"`
	Featured bool `gorm:"default:false"`
}

// PlayerAchievement binds an achievement to a player with progress state.
// At most one record exists per (player, achievement); progress never
// decreases and awarded_date is set exactly once, when progress reaches 100.
type PlayerAchievement struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	PlayerID      uint `gorm:"uniqueIndex:idx_player_achievement;index"`
	AchievementID uint `gorm:"uniqueIndex:idx_player_achievement;index"`
	Achievement   Achievement

	Progress    int          `gorm:"default:0"`
	AwardedDate sql.NullTime `gorm:"index"`
	// Null means the engine granted the award automatically.
	AwardedBy sql.NullString
	Notes     string `gorm:"type:text"`
}

// Awarded reports whether the achievement is fully unlocked.
func (pa *PlayerAchievement) Awarded() bool {
	return pa.Progress >= FullProgress
}

// TeamAchievement is a team-level honor, always coach-granted.
type TeamAchievement struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	TeamID          uint `gorm:"index"`
	Name            string
	Description     string `gorm:"type:text"`
	CompetitionName string
	AwardedDate     time.Time `gorm:"index"`
	AwardedBy       string
	Notes           string `gorm:"type:text"`
}

// FullProgress is the progress value of a completed award.
const FullProgress = 100
