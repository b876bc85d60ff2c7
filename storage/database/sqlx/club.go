package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/user"
)

type clubRepository struct {
	db *sqlx.DB
}

var _ club.Repository = (*clubRepository)(nil) // interface compliance check

func NewClubRepository(db *sqlx.DB) *clubRepository {
	return &clubRepository{db: db}
}

// Seasons

func (repo *clubRepository) CreateSeason(season club.Season) (club.Season, error) {
	q := `INSERT INTO seasons (id, name, start_date, end_date, is_active, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := repo.db.Exec(q,
		season.ID, season.Name, season.StartDate, season.EndDate, season.IsActive,
		season.CreatedAt, season.UpdatedAt,
	)
	return season, err
}

func (repo *clubRepository) QuerySeasons() ([]club.Season, error) {
	var seasons []club.Season
	err := repo.db.Select(&seasons, `SELECT * FROM seasons ORDER BY start_date DESC`)
	return seasons, err
}

func (repo *clubRepository) GetSeasonByID(id uuid.UUID) (club.Season, error) {
	var season club.Season
	err := repo.db.Get(&season, `SELECT * FROM seasons WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return club.Season{}, club.ErrSeasonNotFound
	}
	return season, err
}

func (repo *clubRepository) GetActiveSeason() (club.Season, error) {
	var season club.Season
	err := repo.db.Get(&season, `SELECT * FROM seasons WHERE is_active ORDER BY start_date DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return club.Season{}, club.ErrNoActiveSeason
	}
	return season, err
}

func (repo *clubRepository) UpdateSeason(season club.Season) (club.Season, error) {
	q := `UPDATE seasons SET name = $2, start_date = $3, end_date = $4, is_active = $5, updated_at = $6
	      WHERE id = $1`
	res, err := repo.db.Exec(q, season.ID, season.Name, season.StartDate, season.EndDate, season.IsActive, season.UpdatedAt)
	if err != nil {
		return club.Season{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return club.Season{}, club.ErrSeasonNotFound
	}
	return season, nil
}

func (repo *clubRepository) DeleteSeasonsByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM seasons WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// Activities

func (repo *clubRepository) CreateActivity(activity club.Activity) (club.Activity, error) {
	q := `INSERT INTO activities (id, season_id, name, description, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := repo.db.Exec(q,
		activity.ID, activity.SeasonID, activity.Name, activity.Description,
		activity.CreatedAt, activity.UpdatedAt,
	)
	return activity, err
}

func (repo *clubRepository) QueryActivities(seasonID uuid.UUID) ([]club.Activity, error) {
	q := `SELECT * FROM activities`
	args := []interface{}{}
	if seasonID != uuid.Nil {
		q += ` WHERE season_id = $1`
		args = append(args, seasonID)
	}
	q += ` ORDER BY name`

	var activities []club.Activity
	err := repo.db.Select(&activities, q, args...)
	return activities, err
}

func (repo *clubRepository) GetActivityByID(id uuid.UUID) (club.Activity, error) {
	var activity club.Activity
	err := repo.db.Get(&activity, `SELECT * FROM activities WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return club.Activity{}, club.ErrActivityNotFound
	}
	return activity, err
}

func (repo *clubRepository) UpdateActivity(activity club.Activity) (club.Activity, error) {
	q := `UPDATE activities SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.Exec(q, activity.ID, activity.Name, activity.Description, activity.UpdatedAt)
	if err != nil {
		return club.Activity{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return club.Activity{}, club.ErrActivityNotFound
	}
	return activity, nil
}

func (repo *clubRepository) DeleteActivitiesByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM activities WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// Gyms

func (repo *clubRepository) CreateGym(gym club.Gym) (club.Gym, error) {
	q := `INSERT INTO gyms (id, name, address, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`
	_, err := repo.db.Exec(q, gym.ID, gym.Name, gym.Address, gym.CreatedAt, gym.UpdatedAt)
	return gym, err
}

func (repo *clubRepository) QueryGyms() ([]club.Gym, error) {
	var gyms []club.Gym
	err := repo.db.Select(&gyms, `SELECT * FROM gyms ORDER BY name`)
	return gyms, err
}

func (repo *clubRepository) GetGymByID(id uuid.UUID) (club.Gym, error) {
	var gym club.Gym
	err := repo.db.Get(&gym, `SELECT * FROM gyms WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return club.Gym{}, club.ErrGymNotFound
	}
	return gym, err
}

func (repo *clubRepository) UpdateGym(gym club.Gym) (club.Gym, error) {
	q := `UPDATE gyms SET name = $2, address = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.Exec(q, gym.ID, gym.Name, gym.Address, gym.UpdatedAt)
	if err != nil {
		return club.Gym{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return club.Gym{}, club.ErrGymNotFound
	}
	return gym, nil
}

func (repo *clubRepository) DeleteGymsByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM gyms WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// Teams

func (repo *clubRepository) CreateTeam(team club.Team) (club.Team, error) {
	q := `INSERT INTO teams (id, activity_id, gym_id, name, category, created_at, updated_at)
	      VALUES ($1,$2,NULLIF($3, '00000000-0000-0000-0000-000000000000'::uuid),$4,$5,$6,$7)`
	_, err := repo.db.Exec(q,
		team.ID, team.ActivityID, team.GymID, team.Name, team.Category,
		team.CreatedAt, team.UpdatedAt,
	)
	return team, err
}

const teamColumns = `id, activity_id, COALESCE(gym_id, '00000000-0000-0000-0000-000000000000'::uuid) AS gym_id,
	name, category, created_at, updated_at`

func (repo *clubRepository) QueryTeams(filter club.TeamFilter) ([]club.Team, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActivityID != uuid.Nil {
		where = append(where, "activity_id = "+arg(filter.ActivityID))
	}
	if filter.GymID != uuid.Nil {
		where = append(where, "gym_id = "+arg(filter.GymID))
	}
	if filter.SeasonID != uuid.Nil {
		where = append(where, "activity_id IN (SELECT id FROM activities WHERE season_id = "+arg(filter.SeasonID)+")")
	}

	q := `SELECT ` + teamColumns + ` FROM teams`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY name"

	var teams []club.Team
	err := repo.db.Select(&teams, q, args...)
	return teams, err
}

func (repo *clubRepository) GetTeamByID(id uuid.UUID) (club.Team, error) {
	var team club.Team
	err := repo.db.Get(&team, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return club.Team{}, club.ErrTeamNotFound
	}
	return team, err
}

func (repo *clubRepository) UpdateTeam(team club.Team) (club.Team, error) {
	q := `UPDATE teams SET activity_id = $2,
	        gym_id = NULLIF($3, '00000000-0000-0000-0000-000000000000'::uuid),
	        name = $4, category = $5, updated_at = $6
	      WHERE id = $1`
	res, err := repo.db.Exec(q, team.ID, team.ActivityID, team.GymID, team.Name, team.Category, team.UpdatedAt)
	if err != nil {
		return club.Team{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return club.Team{}, club.ErrTeamNotFound
	}
	return team, nil
}

func (repo *clubRepository) DeleteTeamsByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM teams WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// Team members

func (repo *clubRepository) AddTeamMember(member club.TeamMember) (bool, error) {
	q := `INSERT INTO team_members (team_id, profile_id, jersey_number, created_at)
	      VALUES ($1,$2,$3,$4)
	      ON CONFLICT (team_id, profile_id) DO NOTHING`
	res, err := repo.db.Exec(q, member.TeamID, member.ProfileID, member.JerseyNumber, member.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (repo *clubRepository) RemoveTeamMembers(teamID uuid.UUID, profileIDs ...uuid.UUID) (int, error) {
	q := `DELETE FROM team_members WHERE team_id = $1 AND profile_id = ANY($2)`
	res, err := repo.db.Exec(q, teamID, pq.Array(profileIDs))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (repo *clubRepository) QueryTeamMembers(teamID uuid.UUID) ([]club.TeamMember, error) {
	var members []club.TeamMember
	err := repo.db.Select(&members, `SELECT * FROM team_members WHERE team_id = $1 ORDER BY created_at`, teamID)
	return members, err
}

func (repo *clubRepository) QueryTeamMemberProfiles(teamID uuid.UUID) ([]user.User, error) {
	q := `SELECT p.id, p.name, p.username, p.email, p.phone, p.birth_date, p.medical_cert_expiry,
	        p.is_active, p.roles, p.password_hash, p.created_at, p.updated_at, p.last_login
	      FROM profiles p
	      JOIN team_members tm ON tm.profile_id = p.id
	      WHERE tm.team_id = $1
	      ORDER BY p.name`
	var users []user.User
	err := repo.db.Select(&users, q, teamID)
	return users, err
}

func (repo *clubRepository) SetJerseyNumber(teamID, profileID uuid.UUID, jersey null.Int) (bool, error) {
	q := `UPDATE team_members SET jersey_number = $3 WHERE team_id = $1 AND profile_id = $2`
	res, err := repo.db.Exec(q, teamID, profileID, jersey)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Team coaches

func (repo *clubRepository) AddTeamCoach(coach club.TeamCoach) (bool, error) {
	q := `INSERT INTO team_coaches (team_id, coach_id, created_at)
	      VALUES ($1,$2,$3)
	      ON CONFLICT (team_id, coach_id) DO NOTHING`
	res, err := repo.db.Exec(q, coach.TeamID, coach.CoachID, coach.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (repo *clubRepository) RemoveTeamCoaches(teamID uuid.UUID, coachIDs ...uuid.UUID) (int, error) {
	q := `DELETE FROM team_coaches WHERE team_id = $1 AND coach_id = ANY($2)`
	res, err := repo.db.Exec(q, teamID, pq.Array(coachIDs))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (repo *clubRepository) QueryTeamCoaches(teamID uuid.UUID) ([]club.TeamCoach, error) {
	var coaches []club.TeamCoach
	err := repo.db.Select(&coaches, `SELECT * FROM team_coaches WHERE team_id = $1 ORDER BY created_at`, teamID)
	return coaches, err
}

// Profiles

func (repo *clubRepository) CountProfiles(profileIDs ...uuid.UUID) (int, error) {
	var count int
	err := repo.db.Get(&count, `SELECT COUNT(*) FROM profiles WHERE id = ANY($1)`, pq.Array(profileIDs))
	return count, err
}

func (repo *clubRepository) UpdateMedicalCertExpiry(expiry null.Time, profileIDs ...uuid.UUID) (int, error) {
	q := `UPDATE profiles SET medical_cert_expiry = $1, updated_at = NOW() WHERE id = ANY($2)`
	res, err := repo.db.Exec(q, expiry, pq.Array(profileIDs))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
