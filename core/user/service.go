package user

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core"
)

var (
	// errors
	ErrNotFound       = errors.New("utente non trovato")
	ErrEmailExists    = errors.New("esiste già un utente con questa email")
	ErrUsernameExists = errors.New("esiste già un utente con questo username")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id uuid.UUID) (User, error)
		GetUserByUsername(username string) (User, error)
		GetUserByEmail(email string) (User, error)
		GetUserByUsernameOrEmail(username string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name, User.Username or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(user User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...uuid.UUID) error
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, mailSvc: mailSvc}
}

func (svc *Service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:                uuid.New(),
		Name:              nu.Name,
		Username:          nu.Username,
		Email:             nu.Email,
		BirthDate:         nu.BirthDate,
		MedicalCertExpiry: nu.MedicalCertExpiry,
		IsActive:          true,
		Roles:             nu.Roles,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if nu.Phone != "" {
		usr.Phone.SetValid(nu.Phone)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}

	// welcome email; best-effort
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Benvenuto in " + svc.conf.AppName,
		BodyStr: "Ciao " + usr.Name + ", il tuo account è stato creato.",
	})
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id uuid.UUID) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsername(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *Service) Update(id uuid.UUID, uu UpdateUser) (User, error) {
	usr := User{
		ID:                id,
		Name:              uu.Name,
		Username:          uu.Username,
		Email:             uu.Email,
		BirthDate:         uu.BirthDate,
		MedicalCertExpiry: uu.MedicalCertExpiry,
		Roles:             uu.Roles,
		UpdatedAt:         time.Now().UTC(),
	}
	if uu.Phone != "" {
		usr.Phone.SetValid(uu.Phone)
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

func (svc *Service) Delete(ids ...uuid.UUID) error {
	return svc.repo.DeleteUsersByID(ids...)
}
