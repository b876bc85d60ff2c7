package dummydb

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/user"
)

// clubRepository also serves the member/profile/season lookups the fee,
// message and balance services need.
type clubRepository struct {
	db *DB
}

var _ club.Repository = (*clubRepository)(nil) // interface compliance check

func NewClubRepository(db *DB) *clubRepository {
	return &clubRepository{db: db}
}

// Seasons

func (repo *clubRepository) CreateSeason(season club.Season) (club.Season, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	repo.db.club.seasons[season.ID] = &season
	return season, nil
}

func (repo *clubRepository) QuerySeasons() ([]club.Season, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	seasons := make([]club.Season, 0, len(repo.db.club.seasons))
	for _, s := range repo.db.club.seasons {
		seasons = append(seasons, *s)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].StartDate.After(seasons[j].StartDate) })
	return seasons, nil
}

func (repo *clubRepository) GetSeasonByID(id uuid.UUID) (club.Season, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	if s, ok := repo.db.club.seasons[id]; ok {
		return *s, nil
	}
	return club.Season{}, club.ErrSeasonNotFound
}

func (repo *clubRepository) GetActiveSeason() (club.Season, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	for _, s := range repo.db.club.seasons {
		if s.IsActive {
			return *s, nil
		}
	}
	return club.Season{}, club.ErrNoActiveSeason
}

func (repo *clubRepository) UpdateSeason(season club.Season) (club.Season, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	if _, ok := repo.db.club.seasons[season.ID]; !ok {
		return club.Season{}, club.ErrSeasonNotFound
	}
	repo.db.club.seasons[season.ID] = &season
	return season, nil
}

func (repo *clubRepository) DeleteSeasonsByID(ids ...uuid.UUID) error {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	for _, id := range ids {
		delete(repo.db.club.seasons, id)
	}
	return nil
}

// Activities

func (repo *clubRepository) CreateActivity(activity club.Activity) (club.Activity, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	repo.db.club.activities[activity.ID] = &activity
	return activity, nil
}

func (repo *clubRepository) QueryActivities(seasonID uuid.UUID) ([]club.Activity, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	activities := make([]club.Activity, 0, len(repo.db.club.activities))
	for _, a := range repo.db.club.activities {
		if seasonID != uuid.Nil && a.SeasonID != seasonID {
			continue
		}
		activities = append(activities, *a)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].Name < activities[j].Name })
	return activities, nil
}

func (repo *clubRepository) GetActivityByID(id uuid.UUID) (club.Activity, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	if a, ok := repo.db.club.activities[id]; ok {
		return *a, nil
	}
	return club.Activity{}, club.ErrActivityNotFound
}

func (repo *clubRepository) UpdateActivity(activity club.Activity) (club.Activity, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	if _, ok := repo.db.club.activities[activity.ID]; !ok {
		return club.Activity{}, club.ErrActivityNotFound
	}
	repo.db.club.activities[activity.ID] = &activity
	return activity, nil
}

func (repo *clubRepository) DeleteActivitiesByID(ids ...uuid.UUID) error {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	for _, id := range ids {
		delete(repo.db.club.activities, id)
	}
	return nil
}

// Gyms

func (repo *clubRepository) CreateGym(gym club.Gym) (club.Gym, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	repo.db.club.gyms[gym.ID] = &gym
	return gym, nil
}

func (repo *clubRepository) QueryGyms() ([]club.Gym, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	gyms := make([]club.Gym, 0, len(repo.db.club.gyms))
	for _, g := range repo.db.club.gyms {
		gyms = append(gyms, *g)
	}
	sort.Slice(gyms, func(i, j int) bool { return gyms[i].Name < gyms[j].Name })
	return gyms, nil
}

func (repo *clubRepository) GetGymByID(id uuid.UUID) (club.Gym, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	if g, ok := repo.db.club.gyms[id]; ok {
		return *g, nil
	}
	return club.Gym{}, club.ErrGymNotFound
}

func (repo *clubRepository) UpdateGym(gym club.Gym) (club.Gym, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	if _, ok := repo.db.club.gyms[gym.ID]; !ok {
		return club.Gym{}, club.ErrGymNotFound
	}
	repo.db.club.gyms[gym.ID] = &gym
	return gym, nil
}

func (repo *clubRepository) DeleteGymsByID(ids ...uuid.UUID) error {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	for _, id := range ids {
		delete(repo.db.club.gyms, id)
	}
	return nil
}

// Teams

func (repo *clubRepository) CreateTeam(team club.Team) (club.Team, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	repo.db.club.teams[team.ID] = &team
	return team, nil
}

func (repo *clubRepository) QueryTeams(filter club.TeamFilter) ([]club.Team, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	teams := make([]club.Team, 0, len(repo.db.club.teams))
	for _, t := range repo.db.club.teams {
		if filter.ActivityID != uuid.Nil && t.ActivityID != filter.ActivityID {
			continue
		}
		if filter.GymID != uuid.Nil && t.GymID != filter.GymID {
			continue
		}
		if filter.SeasonID != uuid.Nil {
			activity, ok := repo.db.club.activities[t.ActivityID]
			if !ok || activity.SeasonID != filter.SeasonID {
				continue
			}
		}
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (repo *clubRepository) GetTeamByID(id uuid.UUID) (club.Team, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	if t, ok := repo.db.club.teams[id]; ok {
		return *t, nil
	}
	return club.Team{}, club.ErrTeamNotFound
}

func (repo *clubRepository) UpdateTeam(team club.Team) (club.Team, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	if _, ok := repo.db.club.teams[team.ID]; !ok {
		return club.Team{}, club.ErrTeamNotFound
	}
	repo.db.club.teams[team.ID] = &team
	return team, nil
}

func (repo *clubRepository) DeleteTeamsByID(ids ...uuid.UUID) error {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()
	for _, id := range ids {
		delete(repo.db.club.teams, id)
	}
	return nil
}

// Team members

func (repo *clubRepository) AddTeamMember(member club.TeamMember) (bool, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	key := pairKey{member.TeamID, member.ProfileID}
	if _, ok := repo.db.club.members[key]; ok {
		return false, nil
	}
	repo.db.club.members[key] = &member
	return true, nil
}

func (repo *clubRepository) RemoveTeamMembers(teamID uuid.UUID, profileIDs ...uuid.UUID) (int, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	var removed int
	for _, pid := range profileIDs {
		key := pairKey{teamID, pid}
		if _, ok := repo.db.club.members[key]; ok {
			delete(repo.db.club.members, key)
			removed++
		}
	}
	return removed, nil
}

func (repo *clubRepository) QueryTeamMembers(teamID uuid.UUID) ([]club.TeamMember, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	var members []club.TeamMember
	for _, m := range repo.db.club.members {
		if m.TeamID == teamID {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].CreatedAt.Before(members[j].CreatedAt) })
	return members, nil
}

func (repo *clubRepository) QueryTeamMemberProfiles(teamID uuid.UUID) ([]user.User, error) {
	members, err := repo.QueryTeamMembers(teamID)
	if err != nil {
		return nil, err
	}

	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	var users []user.User
	for _, m := range members {
		if usr, ok := repo.db.user.table[m.ProfileID]; ok {
			users = append(users, *usr)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (repo *clubRepository) SetJerseyNumber(teamID, profileID uuid.UUID, jersey null.Int) (bool, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	member, ok := repo.db.club.members[pairKey{teamID, profileID}]
	if !ok {
		return false, nil
	}
	member.JerseyNumber = jersey
	return true, nil
}

// Team coaches

func (repo *clubRepository) AddTeamCoach(coach club.TeamCoach) (bool, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	key := pairKey{coach.TeamID, coach.CoachID}
	if _, ok := repo.db.club.coaches[key]; ok {
		return false, nil
	}
	repo.db.club.coaches[key] = &coach
	return true, nil
}

func (repo *clubRepository) RemoveTeamCoaches(teamID uuid.UUID, coachIDs ...uuid.UUID) (int, error) {
	repo.db.club.Lock()
	defer repo.db.club.Unlock()

	var removed int
	for _, cid := range coachIDs {
		key := pairKey{teamID, cid}
		if _, ok := repo.db.club.coaches[key]; ok {
			delete(repo.db.club.coaches, key)
			removed++
		}
	}
	return removed, nil
}

func (repo *clubRepository) QueryTeamCoaches(teamID uuid.UUID) ([]club.TeamCoach, error) {
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	var coaches []club.TeamCoach
	for _, c := range repo.db.club.coaches {
		if c.TeamID == teamID {
			coaches = append(coaches, *c)
		}
	}
	sort.Slice(coaches, func(i, j int) bool { return coaches[i].CreatedAt.Before(coaches[j].CreatedAt) })
	return coaches, nil
}

// Profiles

func (repo *clubRepository) CountProfiles(profileIDs ...uuid.UUID) (int, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	var count int
	for _, pid := range profileIDs {
		if _, ok := repo.db.user.table[pid]; ok {
			count++
		}
	}
	return count, nil
}

func (repo *clubRepository) UpdateMedicalCertExpiry(expiry null.Time, profileIDs ...uuid.UUID) (int, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	var updated int
	for _, pid := range profileIDs {
		if usr, ok := repo.db.user.table[pid]; ok {
			usr.MedicalCertExpiry = expiry
			usr.UpdatedAt = time.Now().UTC()
			updated++
		}
	}
	return updated, nil
}
