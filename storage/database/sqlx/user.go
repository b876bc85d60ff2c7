package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/testxbusiness/csromawebapp/core/user"
)

const userColumns = `id, name, username, email, phone, birth_date, medical_cert_expiry,
	is_active, roles, password_hash, created_at, updated_at, last_login`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]uuid.UUID, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	q := `SELECT username, email FROM profiles
	      WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3))`
	rows, err := repo.db.Query(q, username, email, pq.Array(exclIDs))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var uname, mail string
		if err = rows.Scan(&uname, &mail); err != nil {
			return err
		}
		if username != "" && uname == username {
			return user.ErrUsernameExists
		}
		if mail == email {
			return user.ErrEmailExists
		}
	}
	return rows.Err()
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	q := `INSERT INTO profiles (` + userColumns + `)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := repo.db.Exec(q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.Phone, usr.BirthDate, usr.MedicalCertExpiry,
		usr.IsActive, usr.Roles, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	)
	return usr, err
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var users []user.User
	err := repo.db.Select(&users, `SELECT `+userColumns+` FROM profiles ORDER BY created_at`)
	return users, err
}

func (repo *userRepository) getUser(where string, args ...interface{}) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM profiles WHERE `+where, args...)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, err
}

func (repo *userRepository) GetUserByID(id uuid.UUID) (user.User, error) {
	return repo.getUser("id = $1", id)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getUser("username = $1", username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getUser("email = $1", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.getUser("username = $1 OR email = $1", username)
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		where = append(where, fmt.Sprintf("(LOWER(name) LIKE %[1]s OR LOWER(username) LIKE %[1]s OR LOWER(email) LIKE %[1]s)", p))
	}
	if len(filter.Roles) > 0 {
		prefixes := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			prefixes = append(prefixes, role+"%")
		}
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(roles) r WHERE r LIKE ANY(%s))", arg(pq.Array(prefixes))))
	}
	if filter.IsActive != nil {
		where = append(where, "is_active = "+arg(*filter.IsActive))
	}
	if !filter.CreatedFrom.IsZero() {
		where = append(where, "created_at >= "+arg(filter.CreatedFrom.UTC()))
	}
	if !filter.CreatedTo.IsZero() {
		where = append(where, "created_at <= "+arg(filter.CreatedTo.UTC()))
	}

	q := `SELECT ` + userColumns + ` FROM profiles`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at"

	var users []user.User
	err := repo.db.Select(&users, q, args...)
	return users, err
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	q := `UPDATE profiles SET
	        name = COALESCE(NULLIF($2, ''), name),
	        username = COALESCE(NULLIF($3, ''), username),
	        email = COALESCE(NULLIF($4, ''), email),
	        phone = COALESCE($5, phone),
	        birth_date = COALESCE($6, birth_date),
	        medical_cert_expiry = COALESCE($7, medical_cert_expiry),
	        roles = COALESCE($8, roles),
	        password_hash = COALESCE($9, password_hash),
	        is_active = COALESCE($10, is_active),
	        last_login = CASE WHEN $11::timestamptz IS NULL THEN last_login ELSE $11 END,
	        updated_at = NOW()
	      WHERE id = $1`

	var roles interface{}
	if usr.Roles != nil {
		roles = usr.Roles
	}
	var pwdHash interface{}
	if usr.PasswordHash != nil {
		pwdHash = usr.PasswordHash
	}
	var lastLogin interface{}
	if !usr.LastLogin.IsZero() {
		lastLogin = usr.LastLogin
	}

	res, err := repo.db.Exec(q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.Phone, usr.BirthDate, usr.MedicalCertExpiry,
		roles, pwdHash, isActive, lastLogin,
	)
	if err != nil {
		return user.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(usr.ID)
}

func (repo *userRepository) DeleteUsersByID(ids ...uuid.UUID) error {
	_, err := repo.db.Exec(`DELETE FROM profiles WHERE id = ANY($1)`, pq.Array(ids))
	return err
}
