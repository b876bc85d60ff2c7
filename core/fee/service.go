package fee

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/club"
)

var (
	// errors
	ErrNotFound                  = errors.New("quota non trovata")
	ErrInstallmentNotFound       = errors.New("rata non trovata")
	ErrNoPredefinedInstallments  = errors.New("nessuna rata predefinita per questa quota")
)

type (
	Repository interface {
		CreateFee(fee MembershipFee) (MembershipFee, error)
		QueryFees(teamID uuid.UUID) ([]MembershipFee, error)
		GetFeeByID(id uuid.UUID) (MembershipFee, error)
		UpdateFee(fee MembershipFee) (MembershipFee, error)
		// DeleteFeesByID also removes the fee's predefined installments
		// and every generated installment.
		DeleteFeesByID(ids ...uuid.UUID) error

		CreatePredefinedInstallments(insts ...PredefinedInstallment) error
		QueryPredefinedInstallments(feeID uuid.UUID) ([]PredefinedInstallment, error)

		// UpsertInstallment keys on (profile_id, membership_fee_id, installment_number).
		// An existing unpaid row gets its due date, amount and status refreshed;
		// a paid row is left untouched. Reports whether a new row was inserted.
		UpsertInstallment(inst FeeInstallment) (bool, error)
		QueryInstallments(feeID uuid.UUID) ([]FeeInstallment, error)
		QueryInstallmentsByProfile(profileID uuid.UUID) ([]FeeInstallment, error)
		DeleteInstallments(feeID, profileID uuid.UUID) error
		// UpdateInstallmentStatus sets status (and paid_at) on the given rows,
		// reporting how many exist.
		UpdateInstallmentStatus(ids []uuid.UUID, status string, paidAt null.Time) (int, error)
		// RecalculateStatuses applies the three disjoint bulk updates
		// (overdue / due_soon / not_due), each excluding rows already in the
		// target status and rows in paid or partially_paid status.
		// Reports the number of changed rows.
		RecalculateStatuses(today, horizon time.Time) (int, error)
	}

	// MemberLister yields a team's current member list; satisfied by the club repository.
	MemberLister interface {
		QueryTeamMembers(teamID uuid.UUID) ([]club.TeamMember, error)
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		members MemberLister
	}
)

func NewService(conf *core.Config, repo Repository, members MemberLister) *Service {
	return &Service{conf: conf, repo: repo, members: members}
}

// Create persists the fee and its predefined installments. The two steps are
// sequential: a failure on the second leaves the fee committed without
// installments (same as the flows this replaces).
func (svc *Service) Create(nf NewMembershipFee) (MembershipFee, error) {
	now := time.Now().UTC()
	fee := MembershipFee{
		ID:                uuid.New(),
		TeamID:            nf.TeamID,
		Name:              nf.Name,
		EnrollmentFee:     nf.EnrollmentFee,
		InsuranceFee:      nf.InsuranceFee,
		MonthlyFee:        nf.MonthlyFee,
		MonthsCount:       nf.MonthsCount,
		InstallmentsCount: len(nf.Installments),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	fee.ComputeTotal()

	fee, err := svc.repo.CreateFee(fee)
	if err != nil {
		return MembershipFee{}, err
	}

	if len(nf.Installments) > 0 {
		insts := make([]PredefinedInstallment, 0, len(nf.Installments))
		for _, ni := range nf.Installments {
			insts = append(insts, PredefinedInstallment{
				ID:                uuid.New(),
				MembershipFeeID:   fee.ID,
				InstallmentNumber: ni.InstallmentNumber,
				DueDate:           core.Date(ni.DueDate),
				Amount:            ni.Amount,
			})
		}
		if err = svc.repo.CreatePredefinedInstallments(insts...); err != nil {
			return MembershipFee{}, errors.Wrap(err, "creating predefined installments")
		}
	}
	return fee, nil
}

func (svc *Service) Query(teamID uuid.UUID) ([]MembershipFee, error) {
	return svc.repo.QueryFees(teamID)
}

func (svc *Service) GetByID(id uuid.UUID) (MembershipFee, error) {
	return svc.repo.GetFeeByID(id)
}

func (svc *Service) Update(id uuid.UUID, uf UpdateMembershipFee) (MembershipFee, error) {
	fee, err := svc.repo.GetFeeByID(id)
	if err != nil {
		return MembershipFee{}, err
	}
	if uf.Name != "" {
		fee.Name = uf.Name
	}
	if uf.EnrollmentFee != nil {
		fee.EnrollmentFee = *uf.EnrollmentFee
	}
	if uf.InsuranceFee != nil {
		fee.InsuranceFee = *uf.InsuranceFee
	}
	if uf.MonthlyFee != nil {
		fee.MonthlyFee = *uf.MonthlyFee
	}
	if uf.MonthsCount != nil {
		fee.MonthsCount = *uf.MonthsCount
	}
	fee.ComputeTotal()
	fee.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(fee)
}

func (svc *Service) Delete(ids ...uuid.UUID) error {
	return svc.repo.DeleteFeesByID(ids...)
}

func (svc *Service) PredefinedInstallments(feeID uuid.UUID) ([]PredefinedInstallment, error) {
	return svc.repo.QueryPredefinedInstallments(feeID)
}

func (svc *Service) Installments(feeID uuid.UUID) ([]FeeInstallment, error) {
	return svc.repo.QueryInstallments(feeID)
}

func (svc *Service) InstallmentsByProfile(profileID uuid.UUID) ([]FeeInstallment, error) {
	return svc.repo.QueryInstallmentsByProfile(profileID)
}

// GenerateInstallments creates one installment per (team member × predefined
// installment) pair, copying number, due date and amount from the template and
// deriving the status at generation time. Pairs already covered are refreshed,
// not duplicated; paid rows are never touched. Returns the number of new rows.
func (svc *Service) GenerateInstallments(feeID uuid.UUID) (int, error) {
	fee, err := svc.repo.GetFeeByID(feeID)
	if err != nil {
		return 0, err
	}
	templates, err := svc.repo.QueryPredefinedInstallments(fee.ID)
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		return 0, ErrNoPredefinedInstallments
	}
	members, err := svc.members.QueryTeamMembers(fee.TeamID)
	if err != nil {
		return 0, err
	}

	today := core.Today()
	now := time.Now().UTC()
	var created int
	for _, member := range members {
		for _, tmpl := range templates {
			inserted, err := svc.repo.UpsertInstallment(FeeInstallment{
				ID:                uuid.New(),
				MembershipFeeID:   fee.ID,
				ProfileID:         member.ProfileID,
				InstallmentNumber: tmpl.InstallmentNumber,
				DueDate:           tmpl.DueDate,
				Amount:            tmpl.Amount,
				Status:            DeriveStatus(tmpl.DueDate, today, svc.conf.Fees.DueSoonWindowDays),
				CreatedAt:         now,
				UpdatedAt:         now,
			})
			if err != nil {
				// no rollback: rows upserted so far stay committed
				return created, errors.Wrap(err, "upserting installment")
			}
			if inserted {
				created++
			}
		}
	}
	return created, nil
}

// AssignToProfiles (re)assigns a fee to the given profiles: existing rows for
// each (profile, fee) pair are removed, then fresh rows are generated from the
// templates. Used by the bulk assignment flow.
func (svc *Service) AssignToProfiles(feeID uuid.UUID, profileIDs ...uuid.UUID) (int, error) {
	fee, err := svc.repo.GetFeeByID(feeID)
	if err != nil {
		return 0, err
	}
	templates, err := svc.repo.QueryPredefinedInstallments(fee.ID)
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		return 0, ErrNoPredefinedInstallments
	}

	today := core.Today()
	now := time.Now().UTC()
	var created int
	for _, pid := range profileIDs {
		if err = svc.repo.DeleteInstallments(fee.ID, pid); err != nil {
			return created, errors.Wrap(err, "clearing previous installments")
		}
		for _, tmpl := range templates {
			if _, err = svc.repo.UpsertInstallment(FeeInstallment{
				ID:                uuid.New(),
				MembershipFeeID:   fee.ID,
				ProfileID:         pid,
				InstallmentNumber: tmpl.InstallmentNumber,
				DueDate:           tmpl.DueDate,
				Amount:            tmpl.Amount,
				Status:            DeriveStatus(tmpl.DueDate, today, svc.conf.Fees.DueSoonWindowDays),
				CreatedAt:         now,
				UpdatedAt:         now,
			}); err != nil {
				return created, errors.Wrap(err, "inserting installment")
			}
			created++
		}
	}
	return created, nil
}

// RecalculateStatuses runs the batch sweep. "Today" and the lookahead horizon
// are computed once; the repository applies the three disjoint updates.
// Running it twice with no elapsed time changes nothing on the second run.
func (svc *Service) RecalculateStatuses() (int, error) {
	today := core.Today()
	horizon := today.AddDate(0, 0, svc.conf.Fees.DueSoonWindowDays)
	return svc.repo.RecalculateStatuses(today, horizon)
}

// BulkUpdateStatus sets the status on a list of installments. Marking paid
// stamps paid_at; any other status clears it.
func (svc *Service) BulkUpdateStatus(bu BulkStatusUpdate) (int, error) {
	var paidAt null.Time
	if bu.Status == StatusPaid {
		paidAt = null.TimeFrom(time.Now().UTC())
	}
	n, err := svc.repo.UpdateInstallmentStatus(bu.InstallmentIDs, bu.Status, paidAt)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrInstallmentNotFound
	}
	return n, nil
}
