package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) CreateEvent(evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(filter event.QueryFilter) ([]event.Event, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var events []event.Event
	for _, evt := range repo.db.events {
		if filter.GymID != uuid.Nil && evt.GymID != filter.GymID {
			continue
		}
		if filter.EventType != "" && evt.EventType != filter.EventType {
			continue
		}
		if !filter.From.IsZero() && evt.StartDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && evt.StartDate.After(filter.To) {
			continue
		}
		if filter.TeamID != uuid.Nil && !containsUUID(repo.db.teams[evt.ID], filter.TeamID) {
			continue
		}
		events = append(events, *evt)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })

	total := len(events)
	if filter.Offset >= total {
		return nil, total, nil
	}
	events = events[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(events) {
		events = events[:filter.Limit]
	}
	return events, total, nil
}

func (repo *eventRepository) GetEventByID(id uuid.UUID) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.events[evt.ID]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	// recurrence columns are immutable on update
	evt.RecurrenceFrequency = orig.RecurrenceFrequency
	evt.RecurrenceInterval = orig.RecurrenceInterval
	evt.RecurrenceEndDate = orig.RecurrenceEndDate
	evt.ParentEventID = orig.ParentEventID
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) DeleteEventsByID(ids ...uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.events, id)
		delete(repo.db.teams, id)
	}
	return nil
}

func (repo *eventRepository) LinkSeries(parentID uuid.UUID, ids ...uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if evt, ok := repo.db.events[id]; ok {
			evt.ParentEventID = parentID
		}
	}
	return nil
}

func (repo *eventRepository) QuerySeriesIDs(parentID uuid.UUID) ([]uuid.UUID, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var series []event.Event
	for _, evt := range repo.db.events {
		if evt.ParentEventID == parentID {
			series = append(series, *evt)
		}
	}
	sort.Slice(series, func(i, j int) bool { return series[i].StartDate.Before(series[j].StartDate) })

	ids := make([]uuid.UUID, 0, len(series))
	for _, evt := range series {
		ids = append(ids, evt.ID)
	}
	return ids, nil
}

func (repo *eventRepository) SetEventTeams(eventID uuid.UUID, teamIDs ...uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if len(teamIDs) == 0 {
		delete(repo.db.teams, eventID)
		return nil
	}
	repo.db.teams[eventID] = append([]uuid.UUID(nil), teamIDs...)
	return nil
}

func (repo *eventRepository) QueryEventTeams(eventIDs ...uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teams := make(map[uuid.UUID][]uuid.UUID, len(eventIDs))
	for _, id := range eventIDs {
		if tids, ok := repo.db.teams[id]; ok {
			teams[id] = append([]uuid.UUID(nil), tids...)
		}
	}
	return teams, nil
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
