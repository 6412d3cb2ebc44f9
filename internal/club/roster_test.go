package club

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qinzej/dugout/internal/testutil"
)

func newTestRoster(t *testing.T) *RosterManager {
	roster, err := NewRosterManager(testutil.OpenTestDB(t))
	require.NoError(t, err, "failed to create roster manager")
	return roster
}

func TestPlayerIDs(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	ids, err := roster.PlayerIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, name := range []string{"Wei", "Jun", "Ming"} {
		require.NoError(t, roster.db.Create(&Player{Name: name}).Error)
	}

	ids, err = roster.PlayerIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids, "IDs come back in registration order")
}

func TestGetPlayerPreloadsRelations(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	school := School{Name: "Sunshine Elementary"}
	require.NoError(t, roster.db.Create(&school).Error)
	year := EnrollmentYear{Year: 2024}
	require.NoError(t, roster.db.Create(&year).Error)
	player := Player{Name: "Wei", SchoolID: school.ID, EnrollmentYearID: year.ID}
	require.NoError(t, roster.db.Create(&player).Error)

	got, err := roster.GetPlayer(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunshine Elementary", got.School.Name)
	assert.Equal(t, 2024, got.EnrollmentYear.Year)
	assert.Equal(t, 3, got.Grade(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))

	_, err = roster.GetPlayer(ctx, 9999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestActiveTeams(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	require.NoError(t, roster.db.Create(&Team{Name: "Tigers", Status: TeamStatusActive}).Error)
	require.NoError(t, roster.db.Create(&Team{Name: "Old Lions", Status: TeamStatusDisbanded}).Error)

	teams, err := roster.ActiveTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1, "disbanded teams are hidden")
	assert.Equal(t, "Tigers", teams[0].Name)
}

func TestTeamPlayers(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	team := Team{Name: "Tigers", Players: []Player{{Name: "Wei"}, {Name: "Jun"}}}
	require.NoError(t, roster.db.Create(&team).Error)

	players, err := roster.TeamPlayers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}
