package balance_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/fee"
	dummydb "github.com/testxbusiness/csromawebapp/storage/database/dummy"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

type balanceFixture struct {
	svc      *balance.Service
	feeRepo  fee.Repository
	clubRepo club.Repository
	team     club.Team
	season   uuid.UUID
}

func newBalanceFixture(t *testing.T) balanceFixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	clubRepo := dummydb.NewClubRepository(db)
	feeRepo := dummydb.NewFeeRepository(db)

	team := testutil.CreateTeam(t, clubRepo, "Under 18")
	activity, err := clubRepo.GetActivityByID(team.ActivityID)
	if err != nil {
		t.Fatalf("GetActivityByID(): %v", err)
	}

	return balanceFixture{
		svc:      balance.NewService(dummydb.NewBalanceRepository(db), clubRepo),
		feeRepo:  feeRepo,
		clubRepo: clubRepo,
		team:     team,
		season:   activity.SeasonID,
	}
}

func (f balanceFixture) addInstallment(t *testing.T, amount float64, status string) {
	t.Helper()

	now := time.Now().UTC()
	mf, err := f.feeRepo.CreateFee(fee.MembershipFee{
		ID:        uuid.New(),
		TeamID:    f.team.ID,
		Name:      "Quota",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateFee(): %v", err)
	}
	if _, err = f.feeRepo.UpsertInstallment(fee.FeeInstallment{
		ID:                uuid.New(),
		MembershipFeeID:   mf.ID,
		ProfileID:         uuid.New(),
		InstallmentNumber: 1,
		DueDate:           now,
		Amount:            amount,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}); err != nil {
		t.Fatalf("UpsertInstallment(): %v", err)
	}
}

func (f balanceFixture) addExpense(t *testing.T, amount float64, paid bool) {
	t.Helper()

	if _, err := f.svc.CreateExpense(balance.NewExpense{
		SeasonID:    f.season,
		Description: "Affitto palestra",
		Amount:      amount,
		Date:        time.Now().UTC(),
		Paid:        paid,
	}); err != nil {
		t.Fatalf("CreateExpense(): %v", err)
	}
}

func Test_balanceService_Summarize(t *testing.T) {
	f := newBalanceFixture(t)

	f.addInstallment(t, 100, fee.StatusPaid)
	f.addInstallment(t, 150, fee.StatusPaid)
	f.addInstallment(t, 200, fee.StatusOverdue)
	f.addExpense(t, 120, true)
	f.addExpense(t, 80, false)

	summary, err := f.svc.Summarize(balance.Filter{SeasonID: f.season})
	if err != nil {
		t.Fatalf("Summarize(): %v", err)
	}

	if summary.Income.Actual != 250 {
		t.Errorf("income actual = %v; want 250", summary.Income.Actual)
	}
	if summary.Income.Forecast != 450 {
		t.Errorf("income forecast = %v; want 450", summary.Income.Forecast)
	}
	if summary.Income.Outstanding != 200 {
		t.Errorf("income outstanding = %v; want 200", summary.Income.Outstanding)
	}
	if summary.Expenses.Actual != 120 {
		t.Errorf("expenses actual = %v; want 120", summary.Expenses.Actual)
	}
	if summary.Expenses.Forecast != 200 {
		t.Errorf("expenses forecast = %v; want 200", summary.Expenses.Forecast)
	}
	if summary.Net != 130 { // 250 paid income - 120 paid expenses
		t.Errorf("net = %v; want 130", summary.Net)
	}
}

func Test_balanceService_Summarize_coachFilter(t *testing.T) {
	f := newBalanceFixture(t)

	coachID := uuid.New()
	if _, err := f.clubRepo.AddTeamCoach(club.TeamCoach{
		TeamID:    f.team.ID,
		CoachID:   coachID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("AddTeamCoach(): %v", err)
	}
	f.addInstallment(t, 100, fee.StatusPaid)
	f.addExpense(t, 40, true) // no coach dimension, excluded by the coach filter

	// the team's coach sees the team's installment income
	summary, err := f.svc.Summarize(balance.Filter{SeasonID: f.season, CoachID: coachID})
	if err != nil {
		t.Fatalf("Summarize(): %v", err)
	}
	if summary.Income.Actual != 100 {
		t.Errorf("income actual = %v; want 100", summary.Income.Actual)
	}
	if summary.Expenses.Actual != 0 {
		t.Errorf("expenses actual = %v; want 0", summary.Expenses.Actual)
	}

	// an unrelated coach sees neither side
	summary, err = f.svc.Summarize(balance.Filter{SeasonID: f.season, CoachID: uuid.New()})
	if err != nil {
		t.Fatalf("Summarize(): %v", err)
	}
	if summary.Income.Actual != 0 || summary.Income.Forecast != 0 {
		t.Errorf("income = %+v; want zero for a coach with no team", summary.Income)
	}
}

func Test_balanceService_Summarize_defaultsToActiveSeason(t *testing.T) {
	f := newBalanceFixture(t)
	f.addInstallment(t, 100, fee.StatusPaid)

	summary, err := f.svc.Summarize(balance.Filter{})
	if err != nil {
		t.Fatalf("Summarize(): %v", err)
	}
	if summary.SeasonID != f.season {
		t.Errorf("season = %v; want active season %v", summary.SeasonID, f.season)
	}
	if summary.Income.Actual != 100 {
		t.Errorf("income actual = %v; want 100", summary.Income.Actual)
	}
}

func Test_balanceService_Summarize_noActiveSeason(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	clubRepo := dummydb.NewClubRepository(db)
	svc := balance.NewService(dummydb.NewBalanceRepository(db), clubRepo)

	if _, err = svc.Summarize(balance.Filter{}); errors.Cause(err) != club.ErrNoActiveSeason {
		t.Errorf("Summarize() error = %v; want ErrNoActiveSeason", err)
	}
}
