// Package testutil provides shared test fixtures.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/user"
)

// NewConfig returns a config suitable for tests; no env lookups.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "CSRoma",
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Fees:   core.FeesConfig{DueSoonWindowDays: 30},
		Events: core.EventsConfig{MaxOccurrences: 366},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateTeam persists a season -> activity -> team chain and returns the team.
func CreateTeam(t *testing.T, repo club.Repository, name string) club.Team {
	t.Helper()

	now := time.Now().UTC()
	season, err := repo.CreateSeason(club.Season{
		ID:        uuid.New(),
		Name:      "Stagione " + name,
		StartDate: now,
		EndDate:   now.AddDate(1, 0, 0),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	activity, err := repo.CreateActivity(club.Activity{
		ID:        uuid.New(),
		SeasonID:  season.ID,
		Name:      "Attività " + name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	team, err := repo.CreateTeam(club.Team{
		ID:         uuid.New(),
		ActivityID: activity.ID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	return team
}

// AddMember enrolls a profile in a team.
func AddMember(t *testing.T, repo club.Repository, teamID, profileID uuid.UUID) {
	t.Helper()

	if _, err := repo.AddTeamMember(club.TeamMember{
		TeamID:    teamID,
		ProfileID: profileID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}
}
