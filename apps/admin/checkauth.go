package main

import (
	"context"
	"fmt"
)

// checkAuth runs a credential pair through the configured strategy and
// reports which view the resulting session would get.
func (cli *commandLine) checkAuth(uname, pwd string) error {
	ctx := context.Background()

	ok, err := cli.sessions.Login(ctx, uname, pwd)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cli.out, "rejected: invalid credentials")
		return nil
	}

	s := cli.sessions.Current()
	fmt.Fprintf(cli.out, "verified: %s (role view: %s)\n", s.Username, cli.sessions.View())
	cli.sessions.Logout(ctx)
	return nil
}
