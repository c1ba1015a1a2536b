package main

import (
	"context"
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

// addSuperAdmin creates a super_admin account directly, bypassing the signup
// authorization-code gate.
func (cli *commandLine) addSuperAdmin(name, email, college, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if err := cli.usrRepo.CheckEmailUniqueness(ctx, email); err != nil {
		return err
	}

	now := time.Now().UTC()
	usr := user.User{
		Name:      core.CleanString(name),
		Email:     email,
		College:   core.CleanString(college),
		Role:      user.RoleSuperAdmin,
		Badges:    user.BadgeList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.CreateUser(ctx, usr); err != nil {
		return err
	}
	logger.Printf("super admin %q created\n", email)
	return nil
}
