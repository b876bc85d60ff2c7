package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/fee"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

func Test_balanceApi_summary(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")
	athlete := ta.createAthlete(t)
	testutil.AddMember(t, ta.clubRepo, team.ID, athlete.ID)

	activity, err := ta.clubRepo.GetActivityByID(team.ActivityID)
	if err != nil {
		t.Fatalf("GetActivityByID(): %v", err)
	}
	seasonID := activity.SeasonID

	feeID := ta.createFeeWithTemplates(t, token, team.ID)
	if _, err = ta.feeSvc.GenerateInstallments(feeID); err != nil {
		t.Fatalf("GenerateInstallments(): %v", err)
	}
	insts, err := ta.feeSvc.Installments(feeID)
	if err != nil {
		t.Fatalf("Installments(): %v", err)
	}
	if _, err = ta.feeSvc.BulkUpdateStatus(fee.BulkStatusUpdate{
		InstallmentIDs: []uuid.UUID{insts[0].ID},
		Status:         fee.StatusPaid,
	}); err != nil {
		t.Fatalf("BulkUpdateStatus(): %v", err)
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/expenses", token, balance.NewExpense{
		SeasonID:    seasonID,
		Description: "Affitto palestra",
		Amount:      300,
		Date:        time.Now().UTC(),
		Paid:        true,
	})
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/balance?season_id="+seasonID.String(), token)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary code = %v; body %s", rec.Code, rec.Body.String())
	}
	var summary balance.Summary
	decode(t, rec, &summary)

	if summary.SeasonID != seasonID {
		t.Errorf("season = %v; want %v", summary.SeasonID, seasonID)
	}
	if summary.Income.Actual != 435 {
		t.Errorf("income actual = %v; want 435", summary.Income.Actual)
	}
	if summary.Income.Forecast != 870 { // 2 installments x 435
		t.Errorf("income forecast = %v; want 870", summary.Income.Forecast)
	}
	if summary.Expenses.Actual != 300 {
		t.Errorf("expenses actual = %v; want 300", summary.Expenses.Actual)
	}
	if summary.Net != 135 { // 435 - 300
		t.Errorf("net = %v; want 135", summary.Net)
	}
}

func Test_balanceApi_summary_noActiveSeason(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))

	req, rec := newAuthRequest(http.MethodGet, "/v1/admin/balance", token)
	ta.do(req, rec)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func Test_balanceApi_expenses(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 16")
	activity, err := ta.clubRepo.GetActivityByID(team.ActivityID)
	if err != nil {
		t.Fatalf("GetActivityByID(): %v", err)
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/expenses", token, balance.NewExpense{
		SeasonID:    activity.SeasonID,
		Description: "Materiale tecnico",
		Amount:      90,
		Date:        time.Now().UTC(),
	})
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}
	var exp balance.Expense
	decode(t, rec, &exp)

	// missing required fields
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/expenses", token, balance.NewExpense{})
	ta.do(req, rec)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid create code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/expenses", token)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("query code = %v; body %s", rec.Code, rec.Body.String())
	}
	var expenses []balance.Expense
	decode(t, rec, &expenses)
	if len(expenses) != 1 {
		t.Fatalf("len(expenses) = %v; want 1", len(expenses))
	}

	req, rec = newAuthRequest(http.MethodDelete, "/v1/admin/expenses?id="+exp.ID.String(), token)
	ta.do(req, rec)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/expenses", token)
	ta.do(req, rec)
	decode(t, rec, &expenses)
	if len(expenses) != 0 {
		t.Errorf("len(expenses) after delete = %v; want 0", len(expenses))
	}
}
