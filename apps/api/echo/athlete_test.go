package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core/club"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

func Test_athleteApi_bulk_dryRunParity(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 12")
	athlete := ta.createAthlete(t)

	body := club.BulkAthletesRequest{
		Operation:  club.BulkOpAssign,
		TeamID:     team.ID,
		ProfileIDs: []uuid.UUID{athlete.ID},
		DryRun:     true,
	}
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/athletes/bulk", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("dry run code = %v; body %s", rec.Code, rec.Body.String())
	}
	var preview club.BulkResult
	decode(t, rec, &preview)
	if !preview.DryRun || preview.Affected != 1 {
		t.Fatalf("preview = %+v; want dry_run with 1 affected", preview)
	}

	// nothing was written
	members, err := ta.clubRepo.QueryTeamMembers(team.ID)
	if err != nil {
		t.Fatalf("QueryTeamMembers(): %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("members after dry run = %v; want 0", len(members))
	}

	body.DryRun = false
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/athletes/bulk", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("live code = %v; body %s", rec.Code, rec.Body.String())
	}
	var live club.BulkResult
	decode(t, rec, &live)
	if live.DryRun || live.Affected != preview.Affected {
		t.Errorf("live = %+v; want same affected count as the preview", live)
	}

	if members, _ = ta.clubRepo.QueryTeamMembers(team.ID); len(members) != 1 {
		t.Errorf("members after live run = %v; want 1", len(members))
	}
}

func Test_athleteApi_bulk_validation(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))

	tests := []struct {
		name string
		body club.BulkAthletesRequest
	}{
		{name: "unknown operation", body: club.BulkAthletesRequest{
			Operation: "promote", ProfileIDs: []uuid.UUID{uuid.New()},
		}},
		{name: "assign without team", body: club.BulkAthletesRequest{
			Operation: club.BulkOpAssign, ProfileIDs: []uuid.UUID{uuid.New()},
		}},
		{name: "no profiles", body: club.BulkAthletesRequest{
			Operation: club.BulkOpRemove, TeamID: uuid.New(),
		}},
		{name: "medical without expiry", body: club.BulkAthletesRequest{
			Operation: club.BulkOpUpdateMedical, ProfileIDs: []uuid.UUID{uuid.New()},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/admin/athletes/bulk", token, tt.body)
			ta.do(req, rec)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}
