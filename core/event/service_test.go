package event_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/event"
	dummydb "github.com/testxbusiness/csromawebapp/storage/database/dummy"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

func newEventService(t *testing.T) *event.Service {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	return event.NewService(testutil.NewConfig(), dummydb.NewEventRepository(db))
}

func Test_eventService_Create(t *testing.T) {
	t.Run("one-time", func(t *testing.T) {
		svc := newEventService(t)
		start := date(2024, 5, 10)

		created, err := svc.Create(event.NewEvent{
			Title:     "Torneo primaverile",
			StartDate: start,
			EndDate:   start.Add(3 * time.Hour),
			EventType: event.TypeOneTime,
		})
		if err != nil {
			t.Fatalf("Create(): %v", err)
		}
		if len(created) != 1 {
			t.Fatalf("len(created) = %v; want 1", len(created))
		}
		if created[0].ParentEventID != uuid.Nil {
			t.Errorf("one-time event has parent %v; want none", created[0].ParentEventID)
		}
	})

	t.Run("recurring expands and links the series", func(t *testing.T) {
		svc := newEventService(t)
		start := date(2024, 1, 1)

		created, err := svc.Create(event.NewEvent{
			Title:             "Allenamento",
			StartDate:         start,
			EndDate:           start.Add(2 * time.Hour),
			EventType:         event.TypeRecurring,
			RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqWeekly, Interval: 1},
			RecurrenceEndDate: null.TimeFrom(date(2024, 1, 15)),
		})
		if err != nil {
			t.Fatalf("Create(): %v", err)
		}
		if len(created) != 3 {
			t.Fatalf("len(created) = %v; want 3", len(created))
		}
		parentID := created[0].ID
		for i, evt := range created {
			if evt.ParentEventID != parentID {
				t.Errorf("occurrence %d parent = %v; want %v", i, evt.ParentEventID, parentID)
			}
		}

		// every occurrence is an independent row
		page, err := svc.Query(event.QueryFilter{})
		if err != nil {
			t.Fatalf("Query(): %v", err)
		}
		if page.Total != 3 {
			t.Errorf("Total = %v; want 3", page.Total)
		}
	})

	t.Run("recurring without end date yields a single occurrence", func(t *testing.T) {
		svc := newEventService(t)
		start := date(2024, 1, 1)

		created, err := svc.Create(event.NewEvent{
			Title:          "Riunione",
			StartDate:      start,
			EndDate:        start.Add(time.Hour),
			EventType:      event.TypeRecurring,
			RecurrenceRule: &event.RecurrenceRule{Frequency: event.FreqDaily, Interval: 1},
		})
		if err != nil {
			t.Fatalf("Create(): %v", err)
		}
		if len(created) != 1 {
			t.Errorf("len(created) = %v; want 1", len(created))
		}
	})

	t.Run("expansion past the cap is rejected", func(t *testing.T) {
		svc := newEventService(t)
		start := date(2024, 1, 1)

		_, err := svc.Create(event.NewEvent{
			Title:             "Allenamento quotidiano",
			StartDate:         start,
			EndDate:           start.Add(time.Hour),
			EventType:         event.TypeRecurring,
			RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqDaily, Interval: 1},
			RecurrenceEndDate: null.TimeFrom(start.AddDate(3, 0, 0)),
		})
		if errors.Cause(err) != event.ErrTooManyOccurrences {
			t.Errorf("Create() error = %v; want ErrTooManyOccurrences", err)
		}

		// nothing was persisted
		page, err := svc.Query(event.QueryFilter{})
		if err != nil {
			t.Fatalf("Query(): %v", err)
		}
		if page.Total != 0 {
			t.Errorf("Total = %v; want 0", page.Total)
		}
	})
}

func Test_eventService_Delete(t *testing.T) {
	svc := newEventService(t)
	start := date(2024, 1, 1)

	created, err := svc.Create(event.NewEvent{
		Title:             "Allenamento",
		StartDate:         start,
		EndDate:           start.Add(2 * time.Hour),
		EventType:         event.TypeRecurring,
		RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqWeekly, Interval: 1},
		RecurrenceEndDate: null.TimeFrom(date(2024, 1, 22)),
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("len(created) = %v; want 4", len(created))
	}

	// single scope removes one occurrence only
	if err = svc.Delete(created[1].ID, event.ScopeSingle); err != nil {
		t.Fatalf("Delete(single): %v", err)
	}
	page, _ := svc.Query(event.QueryFilter{})
	if page.Total != 3 {
		t.Errorf("Total after single delete = %v; want 3", page.Total)
	}

	// series scope removes the rest, addressed through any occurrence
	if err = svc.Delete(created[2].ID, event.ScopeSeries); err != nil {
		t.Fatalf("Delete(series): %v", err)
	}
	page, _ = svc.Query(event.QueryFilter{})
	if page.Total != 0 {
		t.Errorf("Total after series delete = %v; want 0", page.Total)
	}

	if err = svc.Delete(uuid.New(), event.ScopeSingle); errors.Cause(err) != event.ErrNotFound {
		t.Errorf("Delete() error = %v; want ErrNotFound", err)
	}
}
