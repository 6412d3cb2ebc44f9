package badge

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyAwarded     = errors.New("achievement already awarded to player")
	ErrAwardNotFound      = errors.New("award record not found")
	ErrProgressOutOfRange = errors.New("progress must be between 0 and 100")
)

// Ledger is the persisted record of which player holds which achievement.
// Completed awards are append-only; in-progress records only ever move
// forward. All writes go through conditional updates so concurrent
// evaluations cannot regress progress or overwrite an award date.
type Ledger struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLedger(db *gorm.DB, logger *zap.Logger) (*Ledger, error) {
	err := db.AutoMigrate(
		&AchievementCategory{},
		&AchievementSeries{},
		&Achievement{},
		&PlayerAchievement{},
		&TeamAchievement{},
	)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db, logger: logger}, nil
}

// Get returns the award record for (player, achievement), or nil when none
// exists yet.
func (l *Ledger) Get(ctx context.Context, playerID, achievementID uint) (*PlayerAchievement, error) {
	var record PlayerAchievement
	err := l.db.WithContext(ctx).
		Where("player_id = ? AND achievement_id = ?", playerID, achievementID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert raises the stored progress for (player, achievement) to progress,
// creating the record if needed. Lower values are a no-op. When progress
// reaches 100 the award date is set once and never touched again; an empty
// awardedBy records an automatic award. Returns the stored record and
// whether this call changed it.
func (l *Ledger) Upsert(ctx context.Context, playerID, achievementID uint, progress int, awardedBy string) (*PlayerAchievement, bool, error) {
	if progress < 0 || progress > FullProgress {
		return nil, false, ErrProgressOutOfRange
	}

	// A lost race on create or update is resolved by re-reading and keeping
	// the max of both progress values.
	for attempt := 0; attempt < 3; attempt++ {
		existing, err := l.Get(ctx, playerID, achievementID)
		if err != nil {
			return nil, false, err
		}

		if existing == nil {
			record := PlayerAchievement{
				PlayerID:      playerID,
				AchievementID: achievementID,
				Progress:      progress,
			}
			if progress == FullProgress {
				record.AwardedDate = sql.NullTime{Time: today(), Valid: true}
				record.AwardedBy = nullString(awardedBy)
			}
			err := l.db.WithContext(ctx).Create(&record).Error
			if err != nil {
				// Unique index hit: someone else created it first.
				continue
			}
			return &record, true, nil
		}

		if existing.Progress >= progress {
			return existing, false, nil
		}

		updates := map[string]interface{}{"progress": progress}
		if progress == FullProgress && !existing.AwardedDate.Valid {
			updates["awarded_date"] = today()
			updates["awarded_by"] = nullString(awardedBy)
		}
		result := l.db.WithContext(ctx).Model(&PlayerAchievement{}).
			Where("id = ? AND progress < ?", existing.ID, progress).
			Updates(updates)
		if result.Error != nil {
			return nil, false, result.Error
		}
		if result.RowsAffected == 0 {
			// Concurrent writer got there with an equal or higher value.
			continue
		}
		record, err := l.Get(ctx, playerID, achievementID)
		return record, true, err
	}

	record, err := l.Get(ctx, playerID, achievementID)
	return record, false, err
}

// Award marks the achievement fully unlocked for the player, automatically.
// Idempotent: awarding an already-complete record changes nothing.
func (l *Ledger) Award(ctx context.Context, playerID, achievementID uint) (*PlayerAchievement, bool, error) {
	return l.Upsert(ctx, playerID, achievementID, FullProgress, "")
}

// ManualAward is the coach-granted write path. It bypasses criteria
// evaluation entirely but still honors the uniqueness invariant: a player
// who already holds the achievement gets ErrAlreadyAwarded.
func (l *Ledger) ManualAward(ctx context.Context, playerID, achievementID uint, awardedBy string) (*PlayerAchievement, error) {
	existing, err := l.Get(ctx, playerID, achievementID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Awarded() {
		return existing, ErrAlreadyAwarded
	}

	record, _, err := l.Upsert(ctx, playerID, achievementID, FullProgress, awardedBy)
	if err != nil {
		return nil, err
	}
	l.logger.Info("achievement manually awarded",
		zap.Uint("player_id", playerID),
		zap.Uint("achievement_id", achievementID),
		zap.String("awarded_by", awardedBy))
	return record, nil
}

// Revoke deletes an award record. Reserved for explicit admin action; the
// engine never removes records.
func (l *Ledger) Revoke(ctx context.Context, playerID, achievementID uint) error {
	result := l.db.WithContext(ctx).
		Where("player_id = ? AND achievement_id = ?", playerID, achievementID).
		Delete(&PlayerAchievement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAwardNotFound
	}
	return nil
}

// RecentAwards returns completed awards from the last N days, newest first.
func (l *Ledger) RecentAwards(ctx context.Context, days int) ([]PlayerAchievement, error) {
	cutoff := today().AddDate(0, 0, -days)
	var records []PlayerAchievement
	err := l.db.WithContext(ctx).
		Preload("Achievement").
		Where("awarded_date >= ?", cutoff).
		Order("awarded_date DESC").
		Find(&records).Error
	return records, err
}

// LeaderboardEntry is one row of the achievement points leaderboard.
type LeaderboardEntry struct {
	PlayerID    uint
	TotalPoints int
}

// Leaderboard ranks players by summed points over fully awarded
// achievements, highest first.
func (l *Ledger) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := l.db.WithContext(ctx).Model(&PlayerAchievement{}).
		Select("player_achievements.player_id AS player_id, SUM(achievements.points) AS total_points").
		Joins("JOIN achievements ON achievements.id = player_achievements.achievement_id").
		Where("player_achievements.progress = ?", FullProgress).
		Group("player_achievements.player_id").
		Having("SUM(achievements.points) > 0").
		Order("total_points DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// AwardTeamAchievement records a team-level honor.
func (l *Ledger) AwardTeamAchievement(ctx context.Context, teamID uint, name, competition, awardedBy string) (*TeamAchievement, error) {
	record := TeamAchievement{
		TeamID:          teamID,
		Name:            name,
		CompetitionName: competition,
		AwardedDate:     today(),
		AwardedBy:       awardedBy,
	}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
