package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/user"
)

// createAdmin updates or creates an admin account.
func (cli *commandLine) createAdmin(uname, email, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.New(),
			Name:      uname,
			Username:  uname,
			Email:     email,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		usr.Roles = user.AdminRoles
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}

	usr.Roles = user.AdminRoles
	usr.UpdatedAt = time.Now().UTC()
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	_, err = cli.usrRepo.UpdateUser(usr, &active)
	return err
}
