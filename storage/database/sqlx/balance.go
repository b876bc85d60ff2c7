package sqlxrepos

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/testxbusiness/csromawebapp/core/balance"
)

const expenseColumns = `id, season_id,
	COALESCE(activity_id, ` + nilUUID + `) AS activity_id,
	COALESCE(team_id, ` + nilUUID + `) AS team_id,
	COALESCE(gym_id, ` + nilUUID + `) AS gym_id,
	COALESCE(coach_id, ` + nilUUID + `) AS coach_id,
	description, category, amount, date, paid, created_at, updated_at`

type balanceRepository struct {
	db *sqlx.DB
}

var _ balance.Repository = (*balanceRepository)(nil) // interface compliance check

func NewBalanceRepository(db *sqlx.DB) *balanceRepository {
	return &balanceRepository{db: db}
}

func (repo *balanceRepository) CreateExpense(exp balance.Expense) (balance.Expense, error) {
	q := `INSERT INTO expenses (id, season_id, activity_id, team_id, gym_id, coach_id,
	        description, category, amount, date, paid, created_at, updated_at)
	      VALUES ($1,$2,
	        NULLIF($3, ` + nilUUID + `), NULLIF($4, ` + nilUUID + `),
	        NULLIF($5, ` + nilUUID + `), NULLIF($6, ` + nilUUID + `),
	        $7,$8,$9,$10,$11,$12,$13)`
	_, err := repo.db.Exec(q,
		exp.ID, exp.SeasonID, exp.ActivityID, exp.TeamID, exp.GymID, exp.CoachID,
		exp.Description, exp.Category, exp.Amount, exp.Date, exp.Paid, exp.CreatedAt, exp.UpdatedAt,
	)
	return exp, err
}

func (repo *balanceRepository) QueryExpenses(filter balance.Filter) ([]balance.Expense, error) {
	cond, args := expenseConditions(filter)
	q := `SELECT ` + expenseColumns + ` FROM expenses` + cond + ` ORDER BY date DESC`

	var expenses []balance.Expense
	err := repo.db.Select(&expenses, q, args...)
	return expenses, err
}

func (repo *balanceRepository) DeleteExpensesByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM expenses WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// SumInstallments walks installments up through their fee's team and activity
// to reach the season dimension.
func (repo *balanceRepository) SumInstallments(filter balance.Filter) (paid, total float64, err error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SeasonID != uuid.Nil {
		where = append(where, "a.season_id = "+arg(filter.SeasonID))
	}
	if filter.ActivityID != uuid.Nil {
		where = append(where, "t.activity_id = "+arg(filter.ActivityID))
	}
	if filter.TeamID != uuid.Nil {
		where = append(where, "mf.team_id = "+arg(filter.TeamID))
	}
	if filter.GymID != uuid.Nil {
		where = append(where, "t.gym_id = "+arg(filter.GymID))
	}
	if filter.CoachID != uuid.Nil {
		where = append(where, "EXISTS (SELECT 1 FROM team_coaches tc WHERE tc.team_id = mf.team_id AND tc.coach_id = "+arg(filter.CoachID)+")")
	}
	if !filter.From.IsZero() {
		where = append(where, "fi.due_date >= "+arg(filter.From.UTC()))
	}
	if !filter.To.IsZero() {
		where = append(where, "fi.due_date <= "+arg(filter.To.UTC()))
	}

	q := `SELECT COALESCE(SUM(fi.amount) FILTER (WHERE fi.status = 'paid'), 0),
	             COALESCE(SUM(fi.amount), 0)
	      FROM fee_installments fi
	      JOIN membership_fees mf ON mf.id = fi.membership_fee_id
	      JOIN teams t ON t.id = mf.team_id
	      JOIN activities a ON a.id = t.activity_id`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	err = repo.db.QueryRow(q, args...).Scan(&paid, &total)
	return paid, total, err
}

func (repo *balanceRepository) SumExpenses(filter balance.Filter) (paid, total float64, err error) {
	cond, args := expenseConditions(filter)
	q := `SELECT COALESCE(SUM(amount) FILTER (WHERE paid), 0),
	             COALESCE(SUM(amount), 0)
	      FROM expenses` + cond

	err = repo.db.QueryRow(q, args...).Scan(&paid, &total)
	return paid, total, err
}

func expenseConditions(filter balance.Filter) (string, []interface{}) {
	where := make([]string, 0, 7)
	args := make([]interface{}, 0, 7)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SeasonID != uuid.Nil {
		where = append(where, "season_id = "+arg(filter.SeasonID))
	}
	if filter.ActivityID != uuid.Nil {
		where = append(where, "activity_id = "+arg(filter.ActivityID))
	}
	if filter.TeamID != uuid.Nil {
		where = append(where, "team_id = "+arg(filter.TeamID))
	}
	if filter.GymID != uuid.Nil {
		where = append(where, "gym_id = "+arg(filter.GymID))
	}
	if filter.CoachID != uuid.Nil {
		where = append(where, "coach_id = "+arg(filter.CoachID))
	}
	if !filter.From.IsZero() {
		where = append(where, "date >= "+arg(filter.From.UTC()))
	}
	if !filter.To.IsZero() {
		where = append(where, "date <= "+arg(filter.To.UTC()))
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}
