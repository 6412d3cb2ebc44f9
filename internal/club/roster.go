package club

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrPlayerNotFound = errors.New("player not found")

// RosterManager answers roster queries for the rest of the system.
type RosterManager struct {
	db *gorm.DB
}

func NewRosterManager(db *gorm.DB) (*RosterManager, error) {
	err := db.AutoMigrate(
		&School{},
		&EnrollmentYear{},
		&Coach{},
		&Parent{},
		&Player{},
		&Team{},
		&TeamResult{},
	)
	if err != nil {
		return nil, err
	}
	return &RosterManager{db: db}, nil
}

// PlayerIDs returns the IDs of every registered player.
func (m *RosterManager) PlayerIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := m.db.WithContext(ctx).Model(&Player{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetPlayer fetches a player with school and enrollment year preloaded.
func (m *RosterManager) GetPlayer(ctx context.Context, id uint) (*Player, error) {
	var player Player
	err := m.db.WithContext(ctx).
		Preload("School").
		Preload("EnrollmentYear").
		First(&player, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// TeamPlayers returns the members of a team.
func (m *RosterManager) TeamPlayers(ctx context.Context, teamID uint) ([]Player, error) {
	var team Team
	err := m.db.WithContext(ctx).Preload("Players").First(&team, teamID).Error
	if err != nil {
		return nil, err
	}
	return team.Players, nil
}

// ActiveTeams returns all teams that have not been disbanded.
func (m *RosterManager) ActiveTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := m.db.WithContext(ctx).
		Where("status = ?", TeamStatusActive).
		Order("name").
		Find(&teams).Error
	return teams, err
}
