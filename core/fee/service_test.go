package fee_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/fee"
	dummydb "github.com/testxbusiness/csromawebapp/storage/database/dummy"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

func Test_ComputeTotal(t *testing.T) {
	tests := []struct {
		name string
		fee  fee.MembershipFee
		want float64
	}{
		{name: "zero", fee: fee.MembershipFee{}, want: 0},
		{
			name: "enrollment + insurance + monthly x months",
			fee:  fee.MembershipFee{EnrollmentFee: 100, InsuranceFee: 50, MonthlyFee: 80, MonthsCount: 9},
			want: 870,
		},
		{
			name: "no months",
			fee:  fee.MembershipFee{EnrollmentFee: 100, InsuranceFee: 50, MonthlyFee: 80},
			want: 150,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fee.ComputeTotal()
			if tt.fee.TotalAmount != tt.want {
				t.Errorf("ComputeTotal() = %v; want %v", tt.fee.TotalAmount, tt.want)
			}
		})
	}
}

func Test_DeriveStatus(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{name: "due yesterday", due: today.AddDate(0, 0, -1), want: fee.StatusOverdue},
		{name: "due long ago", due: today.AddDate(-1, 0, 0), want: fee.StatusOverdue},
		{name: "due today", due: today, want: fee.StatusDueSoon},
		{name: "due within window", due: today.AddDate(0, 0, 15), want: fee.StatusDueSoon},
		{name: "due on window edge", due: today.AddDate(0, 0, 30), want: fee.StatusDueSoon},
		{name: "due past window", due: today.AddDate(0, 0, 31), want: fee.StatusNotDue},
		{name: "due next year", due: today.AddDate(1, 0, 0), want: fee.StatusNotDue},
		{name: "time of day ignored", due: today.Add(23 * time.Hour), want: fee.StatusDueSoon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fee.DeriveStatus(tt.due, today, 30); got != tt.want {
				t.Errorf("DeriveStatus() = %v; want %v", got, tt.want)
			}
		})
	}
}

type feeFixture struct {
	svc      *fee.Service
	repo     fee.Repository
	team     uuid.UUID
	athlete1 uuid.UUID
	athlete2 uuid.UUID
}

func newFeeFixture(t *testing.T) feeFixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	clubRepo := dummydb.NewClubRepository(db)
	feeRepo := dummydb.NewFeeRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	team := testutil.CreateTeam(t, clubRepo, "Under 16")
	a1 := testutil.CreateUser(t, usrRepo, "Anna", "anna01", "anna@test.it", "", nil, true)
	a2 := testutil.CreateUser(t, usrRepo, "Bruno", "bruno01", "bruno@test.it", "", nil, true)
	testutil.AddMember(t, clubRepo, team.ID, a1.ID)
	testutil.AddMember(t, clubRepo, team.ID, a2.ID)

	return feeFixture{
		svc:      fee.NewService(testutil.NewConfig(), feeRepo, clubRepo),
		repo:     feeRepo,
		team:     team.ID,
		athlete1: a1.ID,
		athlete2: a2.ID,
	}
}

func (f feeFixture) createFee(t *testing.T, installments ...fee.NewPredefinedInstallment) fee.MembershipFee {
	t.Helper()

	created, err := f.svc.Create(fee.NewMembershipFee{
		TeamID:        f.team,
		Name:          "Quota annuale",
		EnrollmentFee: 100,
		InsuranceFee:  50,
		MonthlyFee:    80,
		MonthsCount:   9,
		Installments:  installments,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	return created
}

func Test_feeService_GenerateInstallments(t *testing.T) {
	today := time.Now().UTC()

	t.Run("no predefined installments", func(t *testing.T) {
		f := newFeeFixture(t)
		created := f.createFee(t)

		if _, err := f.svc.GenerateInstallments(created.ID); errors.Cause(err) != fee.ErrNoPredefinedInstallments {
			t.Errorf("GenerateInstallments() error = %v; want ErrNoPredefinedInstallments", err)
		}
	})

	t.Run("members x templates", func(t *testing.T) {
		f := newFeeFixture(t)
		created := f.createFee(t,
			fee.NewPredefinedInstallment{InstallmentNumber: 1, DueDate: today.AddDate(0, 0, -10), Amount: 200},
			fee.NewPredefinedInstallment{InstallmentNumber: 2, DueDate: today.AddDate(0, 2, 0), Amount: 335},
		)

		n, err := f.svc.GenerateInstallments(created.ID)
		if err != nil {
			t.Fatalf("GenerateInstallments(): %v", err)
		}
		if n != 4 { // 2 members x 2 templates
			t.Errorf("GenerateInstallments() = %v; want 4", n)
		}

		insts, err := f.svc.Installments(created.ID)
		if err != nil {
			t.Fatalf("Installments(): %v", err)
		}
		if len(insts) != 4 {
			t.Fatalf("len(installments) = %v; want 4", len(insts))
		}
		for _, inst := range insts {
			want := fee.StatusOverdue
			if inst.InstallmentNumber == 2 {
				want = fee.StatusNotDue
			}
			if inst.Status != want {
				t.Errorf("installment %d status = %v; want %v", inst.InstallmentNumber, inst.Status, want)
			}
		}
	})

	t.Run("rerun refreshes instead of duplicating", func(t *testing.T) {
		f := newFeeFixture(t)
		created := f.createFee(t,
			fee.NewPredefinedInstallment{InstallmentNumber: 1, DueDate: today.AddDate(0, 1, 0), Amount: 200},
		)

		if _, err := f.svc.GenerateInstallments(created.ID); err != nil {
			t.Fatalf("GenerateInstallments(): %v", err)
		}
		n, err := f.svc.GenerateInstallments(created.ID)
		if err != nil {
			t.Fatalf("GenerateInstallments() rerun: %v", err)
		}
		if n != 0 {
			t.Errorf("rerun created = %v; want 0", n)
		}
		insts, _ := f.svc.Installments(created.ID)
		if len(insts) != 2 {
			t.Errorf("len(installments) = %v; want 2", len(insts))
		}
	})

	t.Run("paid rows are never touched", func(t *testing.T) {
		f := newFeeFixture(t)
		created := f.createFee(t,
			fee.NewPredefinedInstallment{InstallmentNumber: 1, DueDate: today.AddDate(0, 1, 0), Amount: 200},
		)

		if _, err := f.svc.GenerateInstallments(created.ID); err != nil {
			t.Fatalf("GenerateInstallments(): %v", err)
		}
		insts, _ := f.svc.Installments(created.ID)
		paid := insts[0]
		if _, err := f.svc.BulkUpdateStatus(fee.BulkStatusUpdate{
			InstallmentIDs: []uuid.UUID{paid.ID},
			Status:         fee.StatusPaid,
		}); err != nil {
			t.Fatalf("BulkUpdateStatus(): %v", err)
		}

		if _, err := f.svc.GenerateInstallments(created.ID); err != nil {
			t.Fatalf("GenerateInstallments() rerun: %v", err)
		}
		insts, _ = f.svc.Installments(created.ID)
		for _, inst := range insts {
			if inst.ID == paid.ID && inst.Status != fee.StatusPaid {
				t.Errorf("paid installment status = %v; want %v", inst.Status, fee.StatusPaid)
			}
		}
	})
}

func Test_feeService_RecalculateStatuses(t *testing.T) {
	today := time.Now().UTC()
	f := newFeeFixture(t)
	created := f.createFee(t,
		fee.NewPredefinedInstallment{InstallmentNumber: 1, DueDate: today.AddDate(0, 0, -5), Amount: 100},
		fee.NewPredefinedInstallment{InstallmentNumber: 2, DueDate: today.AddDate(0, 0, 10), Amount: 100},
		fee.NewPredefinedInstallment{InstallmentNumber: 3, DueDate: today.AddDate(0, 6, 0), Amount: 100},
	)
	if _, err := f.svc.GenerateInstallments(created.ID); err != nil {
		t.Fatalf("GenerateInstallments(): %v", err)
	}

	// skew every row so the sweep has work to do, and pay one
	insts, _ := f.svc.Installments(created.ID)
	var paidID uuid.UUID
	ids := make([]uuid.UUID, 0, len(insts))
	for _, inst := range insts {
		ids = append(ids, inst.ID)
	}
	if _, err := f.svc.BulkUpdateStatus(fee.BulkStatusUpdate{InstallmentIDs: ids, Status: fee.StatusNotDue}); err != nil {
		t.Fatalf("BulkUpdateStatus(): %v", err)
	}
	paidID = insts[0].ID
	if _, err := f.svc.BulkUpdateStatus(fee.BulkStatusUpdate{InstallmentIDs: []uuid.UUID{paidID}, Status: fee.StatusPaid}); err != nil {
		t.Fatalf("BulkUpdateStatus(): %v", err)
	}

	changed, err := f.svc.RecalculateStatuses()
	if err != nil {
		t.Fatalf("RecalculateStatuses(): %v", err)
	}
	if changed == 0 {
		t.Error("RecalculateStatuses() changed nothing; want > 0")
	}

	insts, _ = f.svc.Installments(created.ID)
	for _, inst := range insts {
		if inst.ID == paidID {
			if inst.Status != fee.StatusPaid {
				t.Errorf("paid installment status = %v; want %v", inst.Status, fee.StatusPaid)
			}
			continue
		}
		if want := fee.DeriveStatus(inst.DueDate, today, 30); inst.Status != want {
			t.Errorf("installment %d status = %v; want %v", inst.InstallmentNumber, inst.Status, want)
		}
	}

	// a second run with no elapsed time is a no-op
	changed, err = f.svc.RecalculateStatuses()
	if err != nil {
		t.Fatalf("RecalculateStatuses() rerun: %v", err)
	}
	if changed != 0 {
		t.Errorf("RecalculateStatuses() rerun changed = %v; want 0", changed)
	}
}

func Test_feeService_BulkUpdateStatus(t *testing.T) {
	f := newFeeFixture(t)
	created := f.createFee(t,
		fee.NewPredefinedInstallment{InstallmentNumber: 1, DueDate: time.Now().UTC(), Amount: 100},
	)
	if _, err := f.svc.GenerateInstallments(created.ID); err != nil {
		t.Fatalf("GenerateInstallments(): %v", err)
	}
	insts, _ := f.svc.Installments(created.ID)

	n, err := f.svc.BulkUpdateStatus(fee.BulkStatusUpdate{
		InstallmentIDs: []uuid.UUID{insts[0].ID},
		Status:         fee.StatusPaid,
	})
	if err != nil {
		t.Fatalf("BulkUpdateStatus(): %v", err)
	}
	if n != 1 {
		t.Errorf("BulkUpdateStatus() = %v; want 1", n)
	}
	insts, _ = f.svc.Installments(created.ID)
	var updated fee.FeeInstallment
	for _, inst := range insts {
		if inst.Status == fee.StatusPaid {
			updated = inst
		}
	}
	if !updated.PaidAt.Valid {
		t.Error("paid installment has no paid_at")
	}

	if _, err = f.svc.BulkUpdateStatus(fee.BulkStatusUpdate{
		InstallmentIDs: []uuid.UUID{uuid.New()},
		Status:         fee.StatusPaid,
	}); errors.Cause(err) != fee.ErrInstallmentNotFound {
		t.Errorf("BulkUpdateStatus() error = %v; want ErrInstallmentNotFound", err)
	}
}
