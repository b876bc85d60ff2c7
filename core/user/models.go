package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/testxbusiness/csromawebapp/core"
)

// Roles
const (
	// Admin
	RoleAdmin      = "admin:"
	RoleAdminOwner = "admin:owner"

	// Coach
	RoleCoach = "coach:"

	// Athlete
	RoleAthlete = "athlete:"
)

var (
	AdminRoles   = []string{RoleAdmin, RoleAdminOwner}
	CoachRoles   = []string{RoleCoach}
	AthleteRoles = []string{RoleAthlete}
	AllRoles     = getAllRoles()

	rolePriorities = map[string]int{
		// Admins: 30 - 21
		RoleAdminOwner: 30,
		RoleAdmin:      21,

		// Coaches: 20 - 11
		RoleCoach: 11,

		// Athletes: 10 - 1
		RoleAthlete: 1,
	}

	Roles = []Role{
		{Name: "Atleta", Value: RoleAthlete},
		{Name: "Allenatore", Value: RoleCoach},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Admin Owner", Value: RoleAdminOwner},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 4)
	all = append(all, AdminRoles...)
	all = append(all, CoachRoles...)
	all = append(all, AthleteRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is a club profile: an admin, a coach or an athlete.
type User struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	Name              string         `json:"name" db:"name"`
	Username          string         `json:"username" db:"username"`
	Email             string         `json:"email" db:"email"`
	Phone             null.String    `json:"phone" db:"phone"`
	BirthDate         null.Time      `json:"birth_date" db:"birth_date"`
	MedicalCertExpiry null.Time      `json:"medical_cert_expiry" db:"medical_cert_expiry"`
	IsActive          bool           `json:"is_active" db:"is_active"`
	Roles             pq.StringArray `json:"roles" db:"roles"`
	PasswordHash      []byte         `json:"-" db:"password_hash"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"` // UTC
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"` // UTC
	LastLogin         time.Time      `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool   { return u.RoleStartsWith(RoleAdmin) }
func (u *User) IsCoach() bool   { return u.RoleStartsWith(RoleCoach) }
func (u *User) IsAthlete() bool { return u.RoleStartsWith(RoleAthlete) }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name              string    `json:"name" validate:"required"`
	Username          string    `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email             string    `json:"email" validate:"required,email"`
	Phone             string    `json:"phone"`
	BirthDate         null.Time `json:"birth_date"`
	MedicalCertExpiry null.Time `json:"medical_cert_expiry"`
	Password          string    `json:"password" validate:"required"`
	PasswordConfirm   string    `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles             []string  `json:"roles" validate:"omitempty,allroles"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name              string    `json:"name"`
	Username          string    `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email             string    `json:"email" validate:"omitempty,email"`
	Phone             string    `json:"phone"`
	BirthDate         null.Time `json:"birth_date"`
	MedicalCertExpiry null.Time `json:"medical_cert_expiry"`
	IsActive          *bool     `json:"is_active"`
	Roles             []string  `json:"roles" validate:"omitempty,allroles"`
	Password          string    `json:"password" validate:"omitempty"`
	PasswordConfirm   string    `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc *Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Username, uu.Email, origUsr)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []string  `query:"role"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
