package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/fee"
)

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) *feeRepository {
	return &feeRepository{db: db}
}

func (repo *feeRepository) CreateFee(f fee.MembershipFee) (fee.MembershipFee, error) {
	q := `INSERT INTO membership_fees (id, team_id, name, enrollment_fee, insurance_fee, monthly_fee,
	        months_count, installments_count, total_amount, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := repo.db.Exec(q,
		f.ID, f.TeamID, f.Name, f.EnrollmentFee, f.InsuranceFee, f.MonthlyFee,
		f.MonthsCount, f.InstallmentsCount, f.TotalAmount, f.CreatedAt, f.UpdatedAt,
	)
	return f, err
}

func (repo *feeRepository) QueryFees(teamID uuid.UUID) ([]fee.MembershipFee, error) {
	q := `SELECT * FROM membership_fees`
	args := []interface{}{}
	if teamID != uuid.Nil {
		q += ` WHERE team_id = $1`
		args = append(args, teamID)
	}
	q += ` ORDER BY created_at`

	var fees []fee.MembershipFee
	err := repo.db.Select(&fees, q, args...)
	return fees, err
}

func (repo *feeRepository) GetFeeByID(id uuid.UUID) (fee.MembershipFee, error) {
	var f fee.MembershipFee
	err := repo.db.Get(&f, `SELECT * FROM membership_fees WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return fee.MembershipFee{}, fee.ErrNotFound
	}
	return f, err
}

func (repo *feeRepository) UpdateFee(f fee.MembershipFee) (fee.MembershipFee, error) {
	q := `UPDATE membership_fees SET name = $2, enrollment_fee = $3, insurance_fee = $4,
	        monthly_fee = $5, months_count = $6, installments_count = $7, total_amount = $8,
	        updated_at = $9
	      WHERE id = $1`
	res, err := repo.db.Exec(q,
		f.ID, f.Name, f.EnrollmentFee, f.InsuranceFee, f.MonthlyFee,
		f.MonthsCount, f.InstallmentsCount, f.TotalAmount, f.UpdatedAt,
	)
	if err != nil {
		return fee.MembershipFee{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fee.MembershipFee{}, fee.ErrNotFound
	}
	return f, nil
}

func (repo *feeRepository) DeleteFeesByID(ids ...uuid.UUID) error {
	// predefined and generated installments cascade via FK
	_, err := repo.db.Exec(`DELETE FROM membership_fees WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

func (repo *feeRepository) CreatePredefinedInstallments(insts ...fee.PredefinedInstallment) error {
	q := `INSERT INTO predefined_installments (id, membership_fee_id, installment_number, due_date, amount)
	      VALUES (:id, :membership_fee_id, :installment_number, :due_date, :amount)`
	_, err := repo.db.NamedExec(q, insts)
	return err
}

func (repo *feeRepository) QueryPredefinedInstallments(feeID uuid.UUID) ([]fee.PredefinedInstallment, error) {
	q := `SELECT * FROM predefined_installments WHERE membership_fee_id = $1 ORDER BY installment_number`
	var insts []fee.PredefinedInstallment
	err := repo.db.Select(&insts, q, feeID)
	return insts, err
}

func (repo *feeRepository) UpsertInstallment(inst fee.FeeInstallment) (bool, error) {
	q := `INSERT INTO fee_installments (id, membership_fee_id, profile_id, installment_number,
	        due_date, amount, status, paid_at, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	      ON CONFLICT (profile_id, membership_fee_id, installment_number) DO UPDATE
	        SET due_date = EXCLUDED.due_date,
	            amount = EXCLUDED.amount,
	            status = EXCLUDED.status,
	            updated_at = EXCLUDED.updated_at
	        WHERE fee_installments.status NOT IN ('paid', 'partially_paid')
	      RETURNING (xmax = 0) AS inserted`
	var inserted bool
	err := repo.db.Get(&inserted, q,
		inst.ID, inst.MembershipFeeID, inst.ProfileID, inst.InstallmentNumber,
		inst.DueDate, inst.Amount, inst.Status, inst.PaidAt, inst.CreatedAt, inst.UpdatedAt,
	)
	if err == sql.ErrNoRows { // conflicting row is paid, left untouched
		return false, nil
	}
	return inserted, err
}

func (repo *feeRepository) QueryInstallments(feeID uuid.UUID) ([]fee.FeeInstallment, error) {
	q := `SELECT * FROM fee_installments WHERE membership_fee_id = $1
	      ORDER BY profile_id, installment_number`
	var insts []fee.FeeInstallment
	err := repo.db.Select(&insts, q, feeID)
	return insts, err
}

func (repo *feeRepository) QueryInstallmentsByProfile(profileID uuid.UUID) ([]fee.FeeInstallment, error) {
	q := `SELECT * FROM fee_installments WHERE profile_id = $1
	      ORDER BY due_date, installment_number`
	var insts []fee.FeeInstallment
	err := repo.db.Select(&insts, q, profileID)
	return insts, err
}

func (repo *feeRepository) DeleteInstallments(feeID, profileID uuid.UUID) error {
	q := `DELETE FROM fee_installments WHERE membership_fee_id = $1 AND profile_id = $2`
	_, err := repo.db.Exec(q, feeID, profileID)
	return err
}

func (repo *feeRepository) UpdateInstallmentStatus(ids []uuid.UUID, status string, paidAt null.Time) (int, error) {
	q := `UPDATE fee_installments SET status = $2, paid_at = $3, updated_at = NOW()
	      WHERE id = ANY($1)`
	res, err := repo.db.Exec(q, pq.Array(ids), status, paidAt)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (repo *feeRepository) RecalculateStatuses(today, horizon time.Time) (int, error) {
	updates := []struct {
		status string
		where  string
		args   []interface{}
	}{
		{fee.StatusOverdue, `due_date < $2`, []interface{}{today}},
		{fee.StatusDueSoon, `due_date >= $2 AND due_date <= $3`, []interface{}{today, horizon}},
		{fee.StatusNotDue, `due_date > $2`, []interface{}{horizon}},
	}

	var changed int64
	for _, u := range updates {
		q := `UPDATE fee_installments SET status = $1, updated_at = NOW()
		      WHERE ` + u.where + `
		        AND status NOT IN ('paid', 'partially_paid')
		        AND status <> $1`
		res, err := repo.db.Exec(q, append([]interface{}{u.status}, u.args...)...)
		if err != nil {
			return int(changed), err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return int(changed), err
		}
		changed += n
	}
	return int(changed), nil
}
