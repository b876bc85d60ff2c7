package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	echoapi "github.com/testxbusiness/csromawebapp/apps/api/echo"
	"github.com/testxbusiness/csromawebapp/core/fee"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

func (ta *testApp) createFeeWithTemplates(t *testing.T, token string, teamID uuid.UUID) uuid.UUID {
	t.Helper()

	due := time.Now().UTC().AddDate(0, 1, 0)
	body := fee.NewMembershipFee{
		TeamID:        teamID,
		Name:          "Quota annuale",
		EnrollmentFee: 100,
		InsuranceFee:  50,
		MonthlyFee:    80,
		MonthsCount:   9,
		Installments: []fee.NewPredefinedInstallment{
			{InstallmentNumber: 1, DueDate: due, Amount: 435},
			{InstallmentNumber: 2, DueDate: due.AddDate(0, 3, 0), Amount: 435},
		},
	}
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/membership-fees", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create fee code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp echoapi.FeeResponse
	decode(t, rec, &resp)
	if !resp.Success || resp.FeeID == uuid.Nil {
		t.Fatalf("create fee response = %+v", resp)
	}
	return resp.FeeID
}

func Test_feeApi_create_derivesTotal(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	token := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")

	feeID := ta.createFeeWithTemplates(t, token, team.ID)

	req, rec := newAuthRequest(http.MethodGet, "/v1/admin/membership-fees/"+feeID.String(), token)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var got fee.MembershipFee
	decode(t, rec, &got)
	if got.TotalAmount != 870 { // 100 + 50 + 80*9
		t.Errorf("total = %v; want 870", got.TotalAmount)
	}
	if got.InstallmentsCount != 2 {
		t.Errorf("installments count = %v; want 2", got.InstallmentsCount)
	}
}

func Test_feeApi_patch_generateInstallments(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	token := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")

	athlete := ta.createAthlete(t)
	testutil.AddMember(t, ta.clubRepo, team.ID, athlete.ID)
	feeID := ta.createFeeWithTemplates(t, token, team.ID)

	body := echoapi.FeeActionRequest{Action: "generate_installments", FeeID: feeID}
	req, rec := newAuthRequest(http.MethodPatch, "/v1/admin/membership-fees", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/membership-fees/"+feeID.String()+"/installments", token)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var insts []fee.FeeInstallment
	decode(t, rec, &insts)
	if len(insts) != 2 { // 1 member x 2 templates
		t.Errorf("len(installments) = %v; want 2", len(insts))
	}
}

func Test_feeApi_patch_errors(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	token := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")

	// fee without predefined installments
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/membership-fees", token, fee.NewMembershipFee{
		TeamID: team.ID,
		Name:   "Quota senza rate",
	})
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create fee code = %v; body %s", rec.Code, rec.Body.String())
	}
	var created echoapi.FeeResponse
	decode(t, rec, &created)

	tests := []struct {
		name     string
		body     echoapi.FeeActionRequest
		wantCode int
	}{
		{
			name:     "generate without templates",
			body:     echoapi.FeeActionRequest{Action: "generate_installments", FeeID: created.FeeID},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "generate without fee id",
			body:     echoapi.FeeActionRequest{Action: "generate_installments"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "generate on unknown fee",
			body:     echoapi.FeeActionRequest{Action: "generate_installments", FeeID: uuid.New()},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown action",
			body:     echoapi.FeeActionRequest{Action: "explode"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bulk update without ids",
			body:     echoapi.FeeActionRequest{Action: "bulk_update_installments", Status: "paid"},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bulk update with bad status",
			body: echoapi.FeeActionRequest{
				Action:         "bulk_update_installments",
				InstallmentIDs: []uuid.UUID{uuid.New()},
				Status:         "mostly_paid",
			},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, "/v1/admin/membership-fees", token, tt.body)
			ta.do(req, rec)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func Test_feeApi_patch_bulkUpdateAndRecalculate(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	token := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")
	athlete := ta.createAthlete(t)
	testutil.AddMember(t, ta.clubRepo, team.ID, athlete.ID)
	feeID := ta.createFeeWithTemplates(t, token, team.ID)

	if _, err := ta.feeSvc.GenerateInstallments(feeID); err != nil {
		t.Fatalf("GenerateInstallments(): %v", err)
	}
	insts, err := ta.feeSvc.Installments(feeID)
	if err != nil {
		t.Fatalf("Installments(): %v", err)
	}

	body := echoapi.FeeActionRequest{
		Action:         "bulk_update_installments",
		InstallmentIDs: []uuid.UUID{insts[0].ID},
		Status:         fee.StatusPaid,
	}
	req, rec := newAuthRequest(http.MethodPatch, "/v1/admin/membership-fees", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk update code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodPatch, "/v1/admin/membership-fees", token,
		echoapi.FeeActionRequest{Action: "recalculate_installment_statuses"})
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("recalculate code = %v; body %s", rec.Code, rec.Body.String())
	}

	// the paid row survived the sweep
	insts, _ = ta.feeSvc.Installments(feeID)
	var paid int
	for _, inst := range insts {
		if inst.Status == fee.StatusPaid {
			paid++
		}
	}
	if paid != 1 {
		t.Errorf("paid rows after sweep = %v; want 1", paid)
	}
}

func Test_feeApi_patch_assignFee(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	token := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")
	athlete := ta.createAthlete(t)
	feeID := ta.createFeeWithTemplates(t, token, team.ID)

	body := echoapi.FeeActionRequest{
		Action:     "assign_fee",
		FeeID:      feeID,
		ProfileIDs: []uuid.UUID{athlete.ID},
	}
	req, rec := newAuthRequest(http.MethodPatch, "/v1/admin/membership-fees", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign code = %v; body %s", rec.Code, rec.Body.String())
	}

	insts, err := ta.feeSvc.InstallmentsByProfile(athlete.ID)
	if err != nil {
		t.Fatalf("InstallmentsByProfile(): %v", err)
	}
	if len(insts) != 2 {
		t.Errorf("len(installments) = %v; want 2", len(insts))
	}
}
