package club

import "time"

// School is the school a player attends.
type School struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name string `gorm:"uniqueIndex"`
}

// EnrollmentYear groups players by the year they joined the club.
type EnrollmentYear struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Year int `gorm:"uniqueIndex"`
}

// Coach holds coach contact and profile data.
type Coach struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name         string
	Phone        string
	Speciality   string
	Introduction string `gorm:"type:text"`
	IsActive     bool   `gorm:"default:true"`
}

// Parent is a guardian linked to one or more players.
type Parent struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name  string
	Phone string `gorm:"uniqueIndex"`
}

// Player is a club member whose task and assessment history drives
// achievement evaluation.
type Player struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name             string `gorm:"index"`
	SchoolID         uint   `gorm:"index"`
	School           School
	EnrollmentYearID uint `gorm:"index"`
	EnrollmentYear   EnrollmentYear
	Notes            string   `gorm:"type:text"`
	Parents          []Parent `gorm:"many2many:player_parents"`
}

// Grade returns the player's current grade based on the enrollment year.
func (p *Player) Grade(now time.Time) int {
	if p.EnrollmentYear.Year == 0 {
		return 0
	}
	return now.Year() - p.EnrollmentYear.Year + 1
}

// Team statuses
const (
	TeamStatusActive    = "active"
	TeamStatusDisbanded = "disbanded"
)

// Team groups players under a head coach.
type Team struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Name        string `gorm:"index"`
	Status      string `gorm:"default:'active';index"`
	HeadCoachID uint   `gorm:"index"`
	HeadCoach   Coach
	Coaches     []Coach  `gorm:"many2many:team_coaches"`
	Players     []Player `gorm:"many2many:team_players"`
}

// TeamResult records a team's placement in a competition.
type TeamResult struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	TeamID          uint `gorm:"index"`
	CompetitionName string
	CompetitionDate time.Time `gorm:"index"`
	Result          string
	Notes           string `gorm:"type:text"`
}
