package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/user"
)

// addAdmin creates an admin account, or promotes an existing account that
// matches the username or email.
func (cli *commandLine) addAdmin(name, uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, user.NewUser{
			Name:            name,
			Username:        uname,
			Email:           email,
			Role:            user.RoleAdmin,
			Password:        pwd,
			PasswordConfirm: pwd,
		})
		return err
	}

	active := true
	_, err = cli.usrSvc.Update(ctx, usr.ID, user.UpdateUser{
		Name:            name,
		Role:            user.RoleAdmin,
		IsActive:        &active,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}
