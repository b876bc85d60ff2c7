package club

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/user"
)

var (
	// errors
	ErrSeasonNotFound   = errors.New("stagione non trovata")
	ErrActivityNotFound = errors.New("attività non trovata")
	ErrGymNotFound      = errors.New("palestra non trovata")
	ErrTeamNotFound     = errors.New("squadra non trovata")
	ErrNoActiveSeason   = errors.New("nessuna stagione attiva")
)

type (
	TeamFilter struct {
		ActivityID uuid.UUID `query:"activity_id"`
		SeasonID   uuid.UUID `query:"season_id"`
		GymID      uuid.UUID `query:"gym_id"`
	}

	Repository interface {
		CreateSeason(season Season) (Season, error)
		QuerySeasons() ([]Season, error)
		GetSeasonByID(id uuid.UUID) (Season, error)
		// GetActiveSeason returns ErrNoActiveSeason when no season is flagged active.
		GetActiveSeason() (Season, error)
		UpdateSeason(season Season) (Season, error)
		DeleteSeasonsByID(ids ...uuid.UUID) error

		CreateActivity(activity Activity) (Activity, error)
		QueryActivities(seasonID uuid.UUID) ([]Activity, error)
		GetActivityByID(id uuid.UUID) (Activity, error)
		UpdateActivity(activity Activity) (Activity, error)
		DeleteActivitiesByID(ids ...uuid.UUID) error

		CreateGym(gym Gym) (Gym, error)
		QueryGyms() ([]Gym, error)
		GetGymByID(id uuid.UUID) (Gym, error)
		UpdateGym(gym Gym) (Gym, error)
		DeleteGymsByID(ids ...uuid.UUID) error

		CreateTeam(team Team) (Team, error)
		QueryTeams(filter TeamFilter) ([]Team, error)
		GetTeamByID(id uuid.UUID) (Team, error)
		UpdateTeam(team Team) (Team, error)
		DeleteTeamsByID(ids ...uuid.UUID) error

		// AddTeamMember is a no-op returning false when the pair already exists.
		AddTeamMember(member TeamMember) (bool, error)
		RemoveTeamMembers(teamID uuid.UUID, profileIDs ...uuid.UUID) (int, error)
		QueryTeamMembers(teamID uuid.UUID) ([]TeamMember, error)
		QueryTeamMemberProfiles(teamID uuid.UUID) ([]user.User, error)
		// SetJerseyNumber returns false when the athlete is not a member of the team.
		SetJerseyNumber(teamID, profileID uuid.UUID, jersey null.Int) (bool, error)

		AddTeamCoach(coach TeamCoach) (bool, error)
		RemoveTeamCoaches(teamID uuid.UUID, coachIDs ...uuid.UUID) (int, error)
		QueryTeamCoaches(teamID uuid.UUID) ([]TeamCoach, error)

		// CountProfiles reports how many of the given profile ids exist.
		CountProfiles(profileIDs ...uuid.UUID) (int, error)
		// UpdateMedicalCertExpiry touches the given profiles and reports how many were updated.
		UpdateMedicalCertExpiry(expiry null.Time, profileIDs ...uuid.UUID) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Seasons

func (svc *Service) CreateSeason(ns NewSeason) (Season, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSeason(Season{
		ID:        uuid.New(),
		Name:      ns.Name,
		StartDate: core.Date(ns.StartDate),
		EndDate:   core.Date(ns.EndDate),
		IsActive:  ns.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QuerySeasons() ([]Season, error)          { return svc.repo.QuerySeasons() }
func (svc *Service) GetSeason(id uuid.UUID) (Season, error)   { return svc.repo.GetSeasonByID(id) }
func (svc *Service) ActiveSeason() (Season, error)            { return svc.repo.GetActiveSeason() }
func (svc *Service) DeleteSeasons(ids ...uuid.UUID) error     { return svc.repo.DeleteSeasonsByID(ids...) }

func (svc *Service) UpdateSeason(season Season) (Season, error) {
	season.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSeason(season)
}

// Activities

func (svc *Service) CreateActivity(na NewActivity) (Activity, error) {
	if _, err := svc.repo.GetSeasonByID(na.SeasonID); err != nil {
		return Activity{}, err
	}
	now := time.Now().UTC()
	activity := Activity{
		ID:        uuid.New(),
		SeasonID:  na.SeasonID,
		Name:      na.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if na.Description != "" {
		activity.Description.SetValid(na.Description)
	}
	return svc.repo.CreateActivity(activity)
}

func (svc *Service) QueryActivities(seasonID uuid.UUID) ([]Activity, error) {
	return svc.repo.QueryActivities(seasonID)
}
func (svc *Service) GetActivity(id uuid.UUID) (Activity, error) { return svc.repo.GetActivityByID(id) }
func (svc *Service) DeleteActivities(ids ...uuid.UUID) error {
	return svc.repo.DeleteActivitiesByID(ids...)
}

// Gyms

func (svc *Service) CreateGym(ng NewGym) (Gym, error) {
	now := time.Now().UTC()
	gym := Gym{
		ID:        uuid.New(),
		Name:      ng.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ng.Address != "" {
		gym.Address.SetValid(ng.Address)
	}
	return svc.repo.CreateGym(gym)
}

func (svc *Service) QueryGyms() ([]Gym, error)        { return svc.repo.QueryGyms() }
func (svc *Service) GetGym(id uuid.UUID) (Gym, error) { return svc.repo.GetGymByID(id) }
func (svc *Service) DeleteGyms(ids ...uuid.UUID) error {
	return svc.repo.DeleteGymsByID(ids...)
}

// Teams

func (svc *Service) CreateTeam(nt NewTeam) (Team, error) {
	if _, err := svc.repo.GetActivityByID(nt.ActivityID); err != nil {
		return Team{}, err
	}
	if nt.GymID != uuid.Nil {
		if _, err := svc.repo.GetGymByID(nt.GymID); err != nil {
			return Team{}, err
		}
	}
	now := time.Now().UTC()
	team := Team{
		ID:         uuid.New(),
		ActivityID: nt.ActivityID,
		GymID:      nt.GymID,
		Name:       nt.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if nt.Category != "" {
		team.Category.SetValid(nt.Category)
	}
	return svc.repo.CreateTeam(team)
}

func (svc *Service) QueryTeams(filter TeamFilter) ([]Team, error) { return svc.repo.QueryTeams(filter) }
func (svc *Service) GetTeam(id uuid.UUID) (Team, error)           { return svc.repo.GetTeamByID(id) }
func (svc *Service) DeleteTeams(ids ...uuid.UUID) error           { return svc.repo.DeleteTeamsByID(ids...) }

func (svc *Service) UpdateTeam(team Team) (Team, error) {
	team.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeam(team)
}

func (svc *Service) TeamMembers(teamID uuid.UUID) ([]TeamMember, error) {
	return svc.repo.QueryTeamMembers(teamID)
}

func (svc *Service) TeamMemberProfiles(teamID uuid.UUID) ([]user.User, error) {
	return svc.repo.QueryTeamMemberProfiles(teamID)
}

func (svc *Service) AddCoach(teamID, coachID uuid.UUID) error {
	if _, err := svc.repo.GetTeamByID(teamID); err != nil {
		return err
	}
	_, err := svc.repo.AddTeamCoach(TeamCoach{TeamID: teamID, CoachID: coachID, CreatedAt: time.Now().UTC()})
	return err
}

func (svc *Service) RemoveCoaches(teamID uuid.UUID, coachIDs ...uuid.UUID) error {
	_, err := svc.repo.RemoveTeamCoaches(teamID, coachIDs...)
	return err
}

func (svc *Service) TeamCoaches(teamID uuid.UUID) ([]TeamCoach, error) {
	return svc.repo.QueryTeamCoaches(teamID)
}

// BulkAthletes applies (or, with DryRun, previews) a bulk athlete operation.
// The dry run reports the exact affected count a live run would, with zero writes.
func (svc *Service) BulkAthletes(req BulkAthletesRequest) (BulkResult, error) {
	switch req.Operation {
	case BulkOpAssign:
		return svc.bulkAssign(req)
	case BulkOpRemove:
		return svc.bulkRemove(req)
	case BulkOpUpdateJersey:
		return svc.bulkJersey(req)
	case BulkOpUpdateMedical:
		return svc.bulkMedical(req)
	}
	return BulkResult{}, core.NewValidationError(nil, core.FieldError{Field: "operation", Error: "valore non consentito"})
}

func (svc *Service) bulkAssign(req BulkAthletesRequest) (BulkResult, error) {
	if _, err := svc.repo.GetTeamByID(req.TeamID); err != nil {
		return BulkResult{}, err
	}
	members, err := svc.repo.QueryTeamMembers(req.TeamID)
	if err != nil {
		return BulkResult{}, err
	}
	existing := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		existing[m.ProfileID] = true
	}

	var affected int
	now := time.Now().UTC()
	for _, pid := range req.ProfileIDs {
		if existing[pid] {
			continue
		}
		affected++
		if req.DryRun {
			continue
		}
		added, err := svc.repo.AddTeamMember(TeamMember{TeamID: req.TeamID, ProfileID: pid, CreatedAt: now})
		if err != nil {
			return BulkResult{}, err
		}
		if !added { // raced with a concurrent assignment
			affected--
		}
	}
	return svc.result(req, affected, "atleti assegnati alla squadra"), nil
}

func (svc *Service) bulkRemove(req BulkAthletesRequest) (BulkResult, error) {
	members, err := svc.repo.QueryTeamMembers(req.TeamID)
	if err != nil {
		return BulkResult{}, err
	}
	existing := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		existing[m.ProfileID] = true
	}

	var affected int
	for _, pid := range req.ProfileIDs {
		if existing[pid] {
			affected++
		}
	}
	if !req.DryRun && affected > 0 {
		if affected, err = svc.repo.RemoveTeamMembers(req.TeamID, req.ProfileIDs...); err != nil {
			return BulkResult{}, err
		}
	}
	return svc.result(req, affected, "atleti rimossi dalla squadra"), nil
}

func (svc *Service) bulkJersey(req BulkAthletesRequest) (BulkResult, error) {
	members, err := svc.repo.QueryTeamMembers(req.TeamID)
	if err != nil {
		return BulkResult{}, err
	}
	existing := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		existing[m.ProfileID] = true
	}

	var affected int
	for _, pid := range req.ProfileIDs {
		num, ok := req.JerseyNumbers[pid.String()]
		if !ok || !existing[pid] {
			continue
		}
		affected++
		if req.DryRun {
			continue
		}
		if _, err := svc.repo.SetJerseyNumber(req.TeamID, pid, null.IntFrom(num)); err != nil {
			return BulkResult{}, err
		}
	}
	return svc.result(req, affected, "numeri di maglia aggiornati"), nil
}

func (svc *Service) bulkMedical(req BulkAthletesRequest) (BulkResult, error) {
	if req.DryRun {
		affected, err := svc.repo.CountProfiles(req.ProfileIDs...)
		if err != nil {
			return BulkResult{}, err
		}
		return svc.result(req, affected, "scadenze certificati aggiornate"), nil
	}
	affected, err := svc.repo.UpdateMedicalCertExpiry(req.MedicalCertExpiry, req.ProfileIDs...)
	if err != nil {
		return BulkResult{}, err
	}
	return svc.result(req, affected, "scadenze certificati aggiornate"), nil
}

func (svc *Service) result(req BulkAthletesRequest, affected int, what string) BulkResult {
	msg := fmt.Sprintf("%d %s", affected, what)
	if req.DryRun {
		msg = "[anteprima] " + msg
	}
	return BulkResult{Affected: affected, DryRun: req.DryRun, Message: msg}
}
