package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/testxbusiness/csromawebapp/core/event"
)

const nilUUID = `'00000000-0000-0000-0000-000000000000'::uuid`

const eventColumns = `id, title, description,
	COALESCE(gym_id, ` + nilUUID + `) AS gym_id,
	start_date, end_date, event_type, recurrence_frequency, recurrence_interval,
	recurrence_end_date, COALESCE(parent_event_id, ` + nilUUID + `) AS parent_event_id,
	created_at, updated_at`

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(evt event.Event) (event.Event, error) {
	q := `INSERT INTO events (id, title, description, gym_id, start_date, end_date, event_type,
	        recurrence_frequency, recurrence_interval, recurrence_end_date, parent_event_id,
	        created_at, updated_at)
	      VALUES ($1,$2,$3,NULLIF($4, ` + nilUUID + `),$5,$6,$7,$8,$9,$10,NULLIF($11, ` + nilUUID + `),$12,$13)`
	_, err := repo.db.Exec(q,
		evt.ID, evt.Title, evt.Description, evt.GymID, evt.StartDate, evt.EndDate, evt.EventType,
		evt.RecurrenceFrequency, evt.RecurrenceInterval, evt.RecurrenceEndDate, evt.ParentEventID,
		evt.CreatedAt, evt.UpdatedAt,
	)
	return evt, err
}

func (repo *eventRepository) QueryEvents(filter event.QueryFilter) ([]event.Event, int, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TeamID != uuid.Nil {
		where = append(where, "id IN (SELECT event_id FROM event_teams WHERE team_id = "+arg(filter.TeamID)+")")
	}
	if filter.GymID != uuid.Nil {
		where = append(where, "gym_id = "+arg(filter.GymID))
	}
	if filter.EventType != "" {
		where = append(where, "event_type = "+arg(filter.EventType))
	}
	if !filter.From.IsZero() {
		where = append(where, "start_date >= "+arg(filter.From.UTC()))
	}
	if !filter.To.IsZero() {
		where = append(where, "start_date <= "+arg(filter.To.UTC()))
	}

	var cond string
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := repo.db.Get(&total, `SELECT COUNT(*) FROM events`+cond, args...); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + eventColumns + ` FROM events` + cond +
		` ORDER BY start_date LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	var events []event.Event
	err := repo.db.Select(&events, q, args...)
	return events, total, err
}

func (repo *eventRepository) GetEventByID(id uuid.UUID) (event.Event, error) {
	var evt event.Event
	err := repo.db.Get(&evt, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return event.Event{}, event.ErrNotFound
	}
	return evt, err
}

func (repo *eventRepository) UpdateEvent(evt event.Event) (event.Event, error) {
	q := `UPDATE events SET title = $2, description = $3,
	        gym_id = NULLIF($4, ` + nilUUID + `),
	        start_date = $5, end_date = $6, updated_at = $7
	      WHERE id = $1`
	res, err := repo.db.Exec(q, evt.ID, evt.Title, evt.Description, evt.GymID, evt.StartDate, evt.EndDate, evt.UpdatedAt)
	if err != nil {
		return event.Event{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return evt, nil
}

func (repo *eventRepository) DeleteEventsByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM events WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

func (repo *eventRepository) LinkSeries(parentID uuid.UUID, ids ...uuid.UUID) error {
	q := `UPDATE events SET parent_event_id = $1 WHERE id = ANY($2)`
	_, err := repo.db.Exec(q, parentID, pq.Array(ids))
	return err
}

func (repo *eventRepository) QuerySeriesIDs(parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := repo.db.Select(&ids, `SELECT id FROM events WHERE parent_event_id = $1 ORDER BY start_date`, parentID)
	return ids, err
}

func (repo *eventRepository) SetEventTeams(eventID uuid.UUID, teamIDs ...uuid.UUID) error {
	if _, err := repo.db.Exec(`DELETE FROM event_teams WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	if len(teamIDs) == 0 {
		return nil
	}
	q := `INSERT INTO event_teams (event_id, team_id)
	      SELECT $1, unnest($2::uuid[])
	      ON CONFLICT DO NOTHING`
	_, err := repo.db.Exec(q, eventID, pq.Array(teamIDs))
	return err
}

func (repo *eventRepository) QueryEventTeams(eventIDs ...uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	rows, err := repo.db.Query(`SELECT event_id, team_id FROM event_teams WHERE event_id = ANY($1)`, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	teams := make(map[uuid.UUID][]uuid.UUID, len(eventIDs))
	for rows.Next() {
		var eventID, teamID uuid.UUID
		if err = rows.Scan(&eventID, &teamID); err != nil {
			return nil, err
		}
		teams[eventID] = append(teams[eventID], teamID)
	}
	return teams, rows.Err()
}
