package training

import (
	"database/sql"
	"time"
)

// Task periods
const (
	PeriodOnce    = "once"
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Task is a periodic training assignment handed out to teams.
type Task struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Title       string
	Description string `gorm:"type:text"`
	Period      string `gorm:"default:'once';index"`
	StartDate   time.Time
	EndDate     sql.NullTime
	CreatedBy   string
}

// TaskCompletion is one check-off of a task by a player on a given date.
// Only verified completions count toward achievement criteria.
type TaskCompletion struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	TaskID         uint      `gorm:"uniqueIndex:idx_task_player_date"`
	PlayerID       uint      `gorm:"uniqueIndex:idx_task_player_date;index"`
	CompletionDate time.Time `gorm:"uniqueIndex:idx_task_player_date"`
	Notes          string    `gorm:"type:text"`
	Verified       bool      `gorm:"default:false;index"`
	VerifiedBy     string
}

// Assessment is a scored evaluation session for one or more teams.
type Assessment struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name           string
	Description    string `gorm:"type:text"`
	AssessmentDate time.Time
	CreatedBy      string
}

// AssessmentItem is a single scored dimension within an assessment.
type AssessmentItem struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	AssessmentID uint `gorm:"index"`
	Name         string
	Description  string  `gorm:"type:text"`
	MaxScore     float64 `gorm:"default:100"`
	Order        int     `gorm:"default:0"`
}

// AssessmentScore is a player's score on one assessment item.
type AssessmentScore struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	AssessmentID     uint `gorm:"uniqueIndex:idx_assessment_item_player"`
	AssessmentItemID uint `gorm:"uniqueIndex:idx_assessment_item_player"`
	PlayerID         uint `gorm:"uniqueIndex:idx_assessment_item_player;index"`
	Score            float64
	Notes            string `gorm:"type:text"`
	RecordedBy       string
}
