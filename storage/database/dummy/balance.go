package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/fee"
)

type balanceRepository struct {
	db *DB
}

var _ balance.Repository = (*balanceRepository)(nil) // interface compliance check

func NewBalanceRepository(db *DB) balance.Repository {
	return &balanceRepository{db: db}
}

func (repo *balanceRepository) CreateExpense(exp balance.Expense) (balance.Expense, error) {
	repo.db.balance.Lock()
	defer repo.db.balance.Unlock()
	repo.db.balance.expenses[exp.ID] = &exp
	return exp, nil
}

func (repo *balanceRepository) QueryExpenses(filter balance.Filter) ([]balance.Expense, error) {
	repo.db.balance.RLock()
	defer repo.db.balance.RUnlock()

	var expenses []balance.Expense
	for _, exp := range repo.db.balance.expenses {
		if matchesExpense(*exp, filter) {
			expenses = append(expenses, *exp)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	return expenses, nil
}

func (repo *balanceRepository) DeleteExpensesByID(ids ...uuid.UUID) error {
	repo.db.balance.Lock()
	defer repo.db.balance.Unlock()
	for _, id := range ids {
		delete(repo.db.balance.expenses, id)
	}
	return nil
}

func (repo *balanceRepository) SumInstallments(filter balance.Filter) (paid, total float64, err error) {
	repo.db.fee.RLock()
	defer repo.db.fee.RUnlock()
	repo.db.club.RLock()
	defer repo.db.club.RUnlock()

	for _, inst := range repo.db.fee.installments {
		if !repo.matchesInstallment(*inst, filter) {
			continue
		}
		total += inst.Amount
		if inst.Status == fee.StatusPaid {
			paid += inst.Amount
		}
	}
	return paid, total, nil
}

func (repo *balanceRepository) SumExpenses(filter balance.Filter) (paid, total float64, err error) {
	repo.db.balance.RLock()
	defer repo.db.balance.RUnlock()

	for _, exp := range repo.db.balance.expenses {
		if !matchesExpense(*exp, filter) {
			continue
		}
		total += exp.Amount
		if exp.Paid {
			paid += exp.Amount
		}
	}
	return paid, total, nil
}

// matchesInstallment resolves the installment's season dimension through its
// fee's team and activity. Callers hold the fee and club read locks.
func (repo *balanceRepository) matchesInstallment(inst fee.FeeInstallment, filter balance.Filter) bool {
	f, ok := repo.db.fee.fees[inst.MembershipFeeID]
	if !ok {
		return false
	}
	if filter.TeamID != uuid.Nil && f.TeamID != filter.TeamID {
		return false
	}
	if filter.CoachID != uuid.Nil {
		if _, ok := repo.db.club.coaches[pairKey{f.TeamID, filter.CoachID}]; !ok {
			return false
		}
	}

	team, ok := repo.db.club.teams[f.TeamID]
	if !ok {
		return false
	}
	if filter.GymID != uuid.Nil && team.GymID != filter.GymID {
		return false
	}
	if filter.ActivityID != uuid.Nil && team.ActivityID != filter.ActivityID {
		return false
	}
	if filter.SeasonID != uuid.Nil {
		activity, ok := repo.db.club.activities[team.ActivityID]
		if !ok || activity.SeasonID != filter.SeasonID {
			return false
		}
	}
	if !filter.From.IsZero() && inst.DueDate.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && inst.DueDate.After(filter.To) {
		return false
	}
	return true
}

func matchesExpense(exp balance.Expense, filter balance.Filter) bool {
	if filter.SeasonID != uuid.Nil && exp.SeasonID != filter.SeasonID {
		return false
	}
	if filter.ActivityID != uuid.Nil && exp.ActivityID != filter.ActivityID {
		return false
	}
	if filter.TeamID != uuid.Nil && exp.TeamID != filter.TeamID {
		return false
	}
	if filter.GymID != uuid.Nil && exp.GymID != filter.GymID {
		return false
	}
	if filter.CoachID != uuid.Nil && exp.CoachID != filter.CoachID {
		return false
	}
	if !filter.From.IsZero() && exp.Date.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && exp.Date.After(filter.To) {
		return false
	}
	return true
}
