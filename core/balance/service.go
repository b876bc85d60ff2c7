package balance

import (
	"time"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/club"
)

type (
	Repository interface {
		CreateExpense(exp Expense) (Expense, error)
		QueryExpenses(filter Filter) ([]Expense, error)
		DeleteExpensesByID(ids ...uuid.UUID) error
		// SumInstallments aggregates installment income matching the filter:
		// paid = sum of paid rows, total = sum of every row.
		SumInstallments(filter Filter) (paid, total float64, err error)
		// SumExpenses aggregates expenses matching the filter.
		SumExpenses(filter Filter) (paid, total float64, err error)
	}

	// SeasonResolver resolves the active season; satisfied by the club repository.
	SeasonResolver interface {
		GetActiveSeason() (club.Season, error)
	}

	Service struct {
		repo    Repository
		seasons SeasonResolver
	}
)

func NewService(repo Repository, seasons SeasonResolver) *Service {
	return &Service{repo: repo, seasons: seasons}
}

func (svc *Service) CreateExpense(ne NewExpense) (Expense, error) {
	now := time.Now().UTC()
	exp := Expense{
		ID:          uuid.New(),
		SeasonID:    ne.SeasonID,
		ActivityID:  ne.ActivityID,
		TeamID:      ne.TeamID,
		GymID:       ne.GymID,
		CoachID:     ne.CoachID,
		Description: ne.Description,
		Amount:      ne.Amount,
		Date:        core.Date(ne.Date),
		Paid:        ne.Paid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ne.Category != "" {
		exp.Category.SetValid(ne.Category)
	}
	return svc.repo.CreateExpense(exp)
}

func (svc *Service) QueryExpenses(filter Filter) ([]Expense, error) {
	return svc.repo.QueryExpenses(filter)
}

func (svc *Service) DeleteExpenses(ids ...uuid.UUID) error {
	return svc.repo.DeleteExpensesByID(ids...)
}

// Summarize aggregates actual/forecast/outstanding income and expenses for
// the filtered season slice. A zero SeasonID resolves to the active season.
func (svc *Service) Summarize(filter Filter) (Summary, error) {
	if filter.SeasonID == uuid.Nil {
		season, err := svc.seasons.GetActiveSeason()
		if err != nil {
			return Summary{}, err
		}
		filter.SeasonID = season.ID
	}

	incomePaid, incomeTotal, err := svc.repo.SumInstallments(filter)
	if err != nil {
		return Summary{}, err
	}
	expensePaid, expenseTotal, err := svc.repo.SumExpenses(filter)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		SeasonID: filter.SeasonID,
		Income: IncomeSummary{
			Actual:      incomePaid,
			Forecast:    incomeTotal,
			Outstanding: incomeTotal - incomePaid,
		},
		Expenses: ExpenseSummary{
			Actual:   expensePaid,
			Forecast: expenseTotal,
		},
		Net: incomePaid - expensePaid,
	}, nil
}
