package training

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrCompletionNotFound = errors.New("task completion not found")
)

// TrainingManager records task completions and assessment scores, and answers
// the fact queries the achievement engine evaluates against.
type TrainingManager struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTrainingManager(db *gorm.DB, logger *zap.Logger) (*TrainingManager, error) {
	err := db.AutoMigrate(
		&Task{},
		&TaskCompletion{},
		&Assessment{},
		&AssessmentItem{},
		&AssessmentScore{},
	)
	if err != nil {
		return nil, err
	}
	return &TrainingManager{db: db, logger: logger}, nil
}

// RecordCompletion checks off a task for a player on a date. Recording the
// same (task, player, date) twice returns the existing record unchanged.
func (m *TrainingManager) RecordCompletion(ctx context.Context, taskID, playerID uint, date time.Time, notes string) (*TaskCompletion, error) {
	var task Task
	if err := m.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	completion := TaskCompletion{
		TaskID:         taskID,
		PlayerID:       playerID,
		CompletionDate: dateOnly(date),
		Notes:          notes,
	}
	err := m.db.WithContext(ctx).
		Where("task_id = ? AND player_id = ? AND completion_date = ?", taskID, playerID, completion.CompletionDate).
		FirstOrCreate(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// VerifyCompletion marks a completion as verified so it counts toward
// achievement criteria.
func (m *TrainingManager) VerifyCompletion(ctx context.Context, completionID uint, verifiedBy string) error {
	result := m.db.WithContext(ctx).Model(&TaskCompletion{}).
		Where("id = ?", completionID).
		Updates(map[string]interface{}{"verified": true, "verified_by": verifiedBy})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompletionNotFound
	}
	m.logger.Info("task completion verified",
		zap.Uint("completion_id", completionID),
		zap.String("verified_by", verifiedBy))
	return nil
}

// RecordScore upserts a player's score on an assessment item.
func (m *TrainingManager) RecordScore(ctx context.Context, assessmentID, itemID, playerID uint, score float64, recordedBy string) (*AssessmentScore, error) {
	record := AssessmentScore{}
	err := m.db.WithContext(ctx).
		Where("assessment_id = ? AND assessment_item_id = ? AND player_id = ?", assessmentID, itemID, playerID).
		First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = AssessmentScore{
			AssessmentID:     assessmentID,
			AssessmentItemID: itemID,
			PlayerID:         playerID,
			Score:            score,
			RecordedBy:       recordedBy,
		}
		if err := m.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		record.Score = score
		record.RecordedBy = recordedBy
		if err := m.db.WithContext(ctx).Save(&record).Error; err != nil {
			return nil, err
		}
	}
	return &record, nil
}

// DistinctCompletedCount counts how many different tasks the player has at
// least one verified completion for.
func (m *TrainingManager) DistinctCompletedCount(ctx context.Context, playerID uint) (int, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(&TaskCompletion{}).
		Where("player_id = ? AND verified = ?", playerID, true).
		Distinct("task_id").
		Count(&count).Error
	return int(count), err
}

// CompletionDates returns the verified completion dates for (task, player),
// most recent first.
func (m *TrainingManager) CompletionDates(ctx context.Context, taskID, playerID uint) ([]time.Time, error) {
	var dates []time.Time
	err := m.db.WithContext(ctx).Model(&TaskCompletion{}).
		Where("task_id = ? AND player_id = ? AND verified = ?", taskID, playerID, true).
		Order("completion_date DESC").
		Pluck("completion_date", &dates).Error
	return dates, err
}

// TaskStreak computes the player's current streak on a single task.
func (m *TrainingManager) TaskStreak(ctx context.Context, taskID, playerID uint) (int, error) {
	var task Task
	if err := m.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, err
	}
	dates, err := m.CompletionDates(ctx, taskID, playerID)
	if err != nil {
		return 0, err
	}
	return Streak(task.Period, dates), nil
}

// MaxDailyStreak returns the longest current streak across all of the
// player's daily tasks. Streaks are compared, never summed.
func (m *TrainingManager) MaxDailyStreak(ctx context.Context, playerID uint) (int, error) {
	var taskIDs []uint
	err := m.db.WithContext(ctx).Model(&Task{}).
		Where("period = ?", PeriodDaily).
		Pluck("id", &taskIDs).Error
	if err != nil {
		return 0, err
	}

	maxStreak := 0
	for _, taskID := range taskIDs {
		streak, err := m.TaskStreak(ctx, taskID, playerID)
		if err != nil {
			return 0, err
		}
		if streak > maxStreak {
			maxStreak = streak
		}
	}
	return maxStreak, nil
}

// PlayerScores returns every assessment score recorded for the player.
func (m *TrainingManager) PlayerScores(ctx context.Context, playerID uint) ([]float64, error) {
	var scores []float64
	err := m.db.WithContext(ctx).Model(&AssessmentScore{}).
		Where("player_id = ?", playerID).
		Pluck("score", &scores).Error
	return scores, err
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
