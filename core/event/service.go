package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
)

var (
	// errors
	ErrNotFound = errors.New("evento non trovato")
)

// Delete scopes.
const (
	ScopeSingle = "single"
	ScopeSeries = "series"
)

type (
	Repository interface {
		CreateEvent(evt Event) (Event, error)
		// QueryEvents returns one page plus the unpaginated total.
		QueryEvents(filter QueryFilter) ([]Event, int, error)
		GetEventByID(id uuid.UUID) (Event, error)
		UpdateEvent(evt Event) (Event, error)
		DeleteEventsByID(ids ...uuid.UUID) error
		// LinkSeries stamps parent_event_id on every given occurrence.
		LinkSeries(parentID uuid.UUID, ids ...uuid.UUID) error
		// QuerySeriesIDs lists every occurrence sharing the given parent id.
		QuerySeriesIDs(parentID uuid.UUID) ([]uuid.UUID, error)
		// SetEventTeams replaces the event's team associations.
		SetEventTeams(eventID uuid.UUID, teamIDs ...uuid.UUID) error
		// QueryEventTeams batch-loads team ids for a set of events.
		QueryEventTeams(eventIDs ...uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	}

	Service struct {
		conf *core.Config
		repo Repository
	}
)

func NewService(conf *core.Config, repo Repository) *Service {
	return &Service{conf: conf, repo: repo}
}

// Create persists the event. A recurring event is expanded into independent
// rows, inserted one by one, then linked through the first inserted
// occurrence's id; each occurrence carries the team associations.
func (svc *Service) Create(ne NewEvent) ([]Event, error) {
	occurrences := []Occurrence{{Start: ne.StartDate, End: ne.EndDate}}
	if ne.EventType == TypeRecurring {
		var until time.Time
		if ne.RecurrenceEndDate.Valid {
			until = ne.RecurrenceEndDate.Time
		}
		var err error
		occurrences, err = ExpandRecurrence(ne.StartDate, ne.EndDate, *ne.RecurrenceRule, until, svc.conf.Events.MaxOccurrences)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	created := make([]Event, 0, len(occurrences))
	ids := make([]uuid.UUID, 0, len(occurrences))
	for _, occ := range occurrences {
		evt := Event{
			ID:        uuid.New(),
			Title:     ne.Title,
			GymID:     ne.GymID,
			StartDate: occ.Start,
			EndDate:   occ.End,
			EventType: ne.EventType,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if ne.Description != "" {
			evt.Description.SetValid(ne.Description)
		}
		if ne.EventType == TypeRecurring {
			evt.RecurrenceFrequency = null.StringFrom(ne.RecurrenceRule.Frequency)
			evt.RecurrenceInterval = null.IntFrom(ne.RecurrenceRule.Interval)
			evt.RecurrenceEndDate = ne.RecurrenceEndDate
		}

		evt, err := svc.repo.CreateEvent(evt)
		if err != nil {
			// occurrences inserted so far stay committed
			return created, errors.Wrap(err, "creating event occurrence")
		}
		if len(ne.TeamIDs) > 0 {
			if err = svc.repo.SetEventTeams(evt.ID, ne.TeamIDs...); err != nil {
				return created, errors.Wrap(err, "associating teams")
			}
			evt.TeamIDs = ne.TeamIDs
		}
		created = append(created, evt)
		ids = append(ids, evt.ID)
	}

	// retroactively link the series through the first inserted occurrence
	if ne.EventType == TypeRecurring && len(ids) > 0 {
		parentID := ids[0]
		if err := svc.repo.LinkSeries(parentID, ids...); err != nil {
			return created, errors.Wrap(err, "linking series")
		}
		for i := range created {
			created[i].ParentEventID = parentID
		}
	}
	return created, nil
}

// Query returns one page of events, batch-enriched with their team ids.
func (svc *Service) Query(filter QueryFilter) (Page, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	events, total, err := svc.repo.QueryEvents(filter)
	if err != nil {
		return Page{}, err
	}

	if len(events) > 0 {
		ids := make([]uuid.UUID, 0, len(events))
		for _, evt := range events {
			ids = append(ids, evt.ID)
		}
		teams, err := svc.repo.QueryEventTeams(ids...)
		if err != nil {
			return Page{}, errors.Wrap(err, "loading event teams")
		}
		for i := range events {
			if tids, ok := teams[events[i].ID]; ok {
				events[i].TeamIDs = tids
			} else {
				events[i].TeamIDs = []uuid.UUID{}
			}
		}
	} else {
		events = []Event{}
	}

	return Page{Events: events, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (svc *Service) GetByID(id uuid.UUID) (Event, error) {
	return svc.repo.GetEventByID(id)
}

// Update modifies a single occurrence; recurrence columns are immutable here.
func (svc *Service) Update(id uuid.UUID, ue UpdateEvent) (Event, error) {
	evt, err := svc.repo.GetEventByID(id)
	if err != nil {
		return Event{}, err
	}
	if ue.Title != "" {
		evt.Title = ue.Title
	}
	if ue.Description != nil {
		if *ue.Description == "" {
			evt.Description = null.String{}
		} else {
			evt.Description = null.StringFrom(*ue.Description)
		}
	}
	if ue.GymID != nil {
		evt.GymID = *ue.GymID
	}
	if ue.StartDate != nil {
		evt.StartDate = *ue.StartDate
	}
	if ue.EndDate != nil {
		evt.EndDate = *ue.EndDate
	}
	evt.UpdatedAt = time.Now().UTC()

	evt, err = svc.repo.UpdateEvent(evt)
	if err != nil {
		return Event{}, err
	}
	if ue.TeamIDs != nil {
		if err = svc.repo.SetEventTeams(evt.ID, ue.TeamIDs...); err != nil {
			return Event{}, errors.Wrap(err, "associating teams")
		}
		evt.TeamIDs = ue.TeamIDs
	}
	return evt, nil
}

// Delete removes one occurrence, or the whole series with ScopeSeries.
func (svc *Service) Delete(id uuid.UUID, scope string) error {
	evt, err := svc.repo.GetEventByID(id)
	if err != nil {
		return err
	}
	if scope != ScopeSeries {
		return svc.repo.DeleteEventsByID(id)
	}

	rootID := evt.ParentEventID
	if rootID == uuid.Nil {
		rootID = evt.ID
	}
	ids, err := svc.repo.QuerySeriesIDs(rootID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		ids = []uuid.UUID{evt.ID}
	}
	return svc.repo.DeleteEventsByID(ids...)
}
