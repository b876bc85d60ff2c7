package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/event"
)

func Test_eventApi_create(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		body     event.NewEvent
		wantCode int
		wantLen  int
	}{
		{
			name: "one-time",
			body: event.NewEvent{
				Title:     "Partita amichevole",
				StartDate: start,
				EndDate:   start.Add(2 * time.Hour),
				EventType: event.TypeOneTime,
			},
			wantCode: http.StatusCreated,
			wantLen:  1,
		},
		{
			name: "recurring weekly",
			body: event.NewEvent{
				Title:             "Allenamento",
				StartDate:         start,
				EndDate:           start.Add(90 * time.Minute),
				EventType:         event.TypeRecurring,
				RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqWeekly, Interval: 1},
				RecurrenceEndDate: null.TimeFrom(start.AddDate(0, 0, 14)),
			},
			wantCode: http.StatusCreated,
			wantLen:  3,
		},
		{
			name: "recurring without rule",
			body: event.NewEvent{
				Title:     "Allenamento",
				StartDate: start,
				EndDate:   start.Add(time.Hour),
				EventType: event.TypeRecurring,
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "end before start",
			body: event.NewEvent{
				Title:     "Riunione",
				StartDate: start,
				EndDate:   start.Add(-time.Hour),
				EventType: event.TypeOneTime,
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "too many occurrences",
			body: event.NewEvent{
				Title:             "Allenamento",
				StartDate:         start,
				EndDate:           start.Add(time.Hour),
				EventType:         event.TypeRecurring,
				RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqDaily, Interval: 1},
				RecurrenceEndDate: null.TimeFrom(start.AddDate(2, 0, 0)),
			},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/admin/events", token, tt.body)
			ta.do(req, rec)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				return
			}
			var created []event.Event
			decode(t, rec, &created)
			if len(created) != tt.wantLen {
				t.Fatalf("len(created) = %v; want %v", len(created), tt.wantLen)
			}
			if tt.wantLen > 1 {
				for _, occ := range created {
					if occ.ParentEventID != created[0].ID {
						t.Errorf("occurrence %v parent = %v; want %v", occ.ID, occ.ParentEventID, created[0].ID)
					}
				}
			}
		})
	}
}

func Test_eventApi_query(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	body := event.NewEvent{
		Title:             "Allenamento",
		StartDate:         start,
		EndDate:           start.Add(time.Hour),
		EventType:         event.TypeRecurring,
		RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqWeekly, Interval: 1},
		RecurrenceEndDate: null.TimeFrom(start.AddDate(0, 0, 21)),
	}
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/events", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/events?limit=2", token)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("query code = %v; body %s", rec.Code, rec.Body.String())
	}
	var page event.Page
	decode(t, rec, &page)
	if page.Total != 4 {
		t.Errorf("total = %v; want 4", page.Total)
	}
	if len(page.Events) != 2 {
		t.Errorf("len(events) = %v; want limit 2", len(page.Events))
	}
}

func Test_eventApi_retrieve_notFound(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))

	req, rec := newAuthRequest(http.MethodGet, "/v1/admin/events/"+uuid.NewString(), token)
	ta.do(req, rec)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusNotFound)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/events/not-a-uuid", token)
	ta.do(req, rec)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id code = %v; want %v", rec.Code, http.StatusBadRequest)
	}
}

func Test_eventApi_update(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/events", token, event.NewEvent{
		Title:     "Riunione tecnica",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		EventType: event.TypeOneTime,
	})
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}
	var created []event.Event
	decode(t, rec, &created)

	req, rec = newAuthRequest(http.MethodPut, "/v1/admin/events/"+created[0].ID.String(), token,
		event.UpdateEvent{Title: "Riunione dirigenti"})
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v; body %s", rec.Code, rec.Body.String())
	}
	var updated event.Event
	decode(t, rec, &updated)
	if updated.Title != "Riunione dirigenti" {
		t.Errorf("title = %q; want %q", updated.Title, "Riunione dirigenti")
	}
}

func Test_eventApi_destroy_scopes(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/events", token, event.NewEvent{
		Title:             "Allenamento",
		StartDate:         start,
		EndDate:           start.Add(time.Hour),
		EventType:         event.TypeRecurring,
		RecurrenceRule:    &event.RecurrenceRule{Frequency: event.FreqWeekly, Interval: 1},
		RecurrenceEndDate: null.TimeFrom(start.AddDate(0, 0, 21)),
	})
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}
	var created []event.Event
	decode(t, rec, &created)
	if len(created) != 4 {
		t.Fatalf("len(created) = %v; want 4", len(created))
	}

	// single occurrence
	req, rec = newAuthRequest(http.MethodDelete, "/v1/admin/events/"+created[1].ID.String(), token)
	ta.do(req, rec)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/events", token)
	ta.do(req, rec)
	var page event.Page
	decode(t, rec, &page)
	if page.Total != 3 {
		t.Fatalf("total after single delete = %v; want 3", page.Total)
	}

	// whole series, addressed through a non-parent occurrence
	req, rec = newAuthRequest(http.MethodDelete, "/v1/admin/events/"+created[2].ID.String()+"?scope=series", token)
	ta.do(req, rec)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("series delete code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/events", token)
	ta.do(req, rec)
	decode(t, rec, &page)
	if page.Total != 0 {
		t.Errorf("total after series delete = %v; want 0", page.Total)
	}
}
