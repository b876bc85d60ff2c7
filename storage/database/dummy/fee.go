package dummydb

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/fee"
)

type feeRepository struct {
	db *feeTable
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db.fee}
}

func (repo *feeRepository) CreateFee(f fee.MembershipFee) (fee.MembershipFee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.fees[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) QueryFees(teamID uuid.UUID) ([]fee.MembershipFee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fees := make([]fee.MembershipFee, 0, len(repo.db.fees))
	for _, f := range repo.db.fees {
		if teamID != uuid.Nil && f.TeamID != teamID {
			continue
		}
		fees = append(fees, *f)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].CreatedAt.Before(fees[j].CreatedAt) })
	return fees, nil
}

func (repo *feeRepository) GetFeeByID(id uuid.UUID) (fee.MembershipFee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.fees[id]; ok {
		return *f, nil
	}
	return fee.MembershipFee{}, fee.ErrNotFound
}

func (repo *feeRepository) UpdateFee(f fee.MembershipFee) (fee.MembershipFee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.fees[f.ID]; !ok {
		return fee.MembershipFee{}, fee.ErrNotFound
	}
	repo.db.fees[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) DeleteFeesByID(ids ...uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.fees, id)
		for pid, p := range repo.db.predefined {
			if p.MembershipFeeID == id {
				delete(repo.db.predefined, pid)
			}
		}
		for iid, inst := range repo.db.installments {
			if inst.MembershipFeeID == id {
				delete(repo.db.installments, iid)
			}
		}
	}
	return nil
}

func (repo *feeRepository) CreatePredefinedInstallments(insts ...fee.PredefinedInstallment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range insts {
		inst := insts[i]
		repo.db.predefined[inst.ID] = &inst
	}
	return nil
}

func (repo *feeRepository) QueryPredefinedInstallments(feeID uuid.UUID) ([]fee.PredefinedInstallment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var insts []fee.PredefinedInstallment
	for _, p := range repo.db.predefined {
		if p.MembershipFeeID == feeID {
			insts = append(insts, *p)
		}
	}
	sort.Slice(insts, func(i, j int) bool { return insts[i].InstallmentNumber < insts[j].InstallmentNumber })
	return insts, nil
}

func (repo *feeRepository) UpsertInstallment(inst fee.FeeInstallment) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.installments {
		if existing.ProfileID != inst.ProfileID ||
			existing.MembershipFeeID != inst.MembershipFeeID ||
			existing.InstallmentNumber != inst.InstallmentNumber {
			continue
		}
		if existing.Status == fee.StatusPaid || existing.Status == fee.StatusPartiallyPaid {
			return false, nil
		}
		existing.DueDate = inst.DueDate
		existing.Amount = inst.Amount
		existing.Status = inst.Status
		existing.UpdatedAt = inst.UpdatedAt
		return false, nil
	}

	repo.db.installments[inst.ID] = &inst
	return true, nil
}

func (repo *feeRepository) QueryInstallments(feeID uuid.UUID) ([]fee.FeeInstallment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var insts []fee.FeeInstallment
	for _, inst := range repo.db.installments {
		if inst.MembershipFeeID == feeID {
			insts = append(insts, *inst)
		}
	}
	sortInstallments(insts)
	return insts, nil
}

func (repo *feeRepository) QueryInstallmentsByProfile(profileID uuid.UUID) ([]fee.FeeInstallment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var insts []fee.FeeInstallment
	for _, inst := range repo.db.installments {
		if inst.ProfileID == profileID {
			insts = append(insts, *inst)
		}
	}
	sortInstallments(insts)
	return insts, nil
}

func (repo *feeRepository) DeleteInstallments(feeID, profileID uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, inst := range repo.db.installments {
		if inst.MembershipFeeID == feeID && inst.ProfileID == profileID {
			delete(repo.db.installments, id)
		}
	}
	return nil
}

func (repo *feeRepository) UpdateInstallmentStatus(ids []uuid.UUID, status string, paidAt null.Time) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var updated int
	for _, id := range ids {
		inst, ok := repo.db.installments[id]
		if !ok {
			continue
		}
		inst.Status = status
		inst.PaidAt = paidAt
		inst.UpdatedAt = time.Now().UTC()
		updated++
	}
	return updated, nil
}

func (repo *feeRepository) RecalculateStatuses(today, horizon time.Time) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var changed int
	for _, inst := range repo.db.installments {
		if inst.Status == fee.StatusPaid || inst.Status == fee.StatusPartiallyPaid {
			continue
		}
		var status string
		switch {
		case inst.DueDate.Before(today):
			status = fee.StatusOverdue
		case !inst.DueDate.After(horizon):
			status = fee.StatusDueSoon
		default:
			status = fee.StatusNotDue
		}
		if inst.Status != status {
			inst.Status = status
			inst.UpdatedAt = time.Now().UTC()
			changed++
		}
	}
	return changed, nil
}

func sortInstallments(insts []fee.FeeInstallment) {
	sort.Slice(insts, func(i, j int) bool {
		if insts[i].ProfileID != insts[j].ProfileID {
			return insts[i].ProfileID.String() < insts[j].ProfileID.String()
		}
		return insts[i].InstallmentNumber < insts[j].InstallmentNumber
	})
}
