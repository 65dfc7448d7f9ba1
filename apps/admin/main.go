package main

import (
	"log"
	"os"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/session"
	"github.com/sakshiyadav/vidya/core/user"
	emailsvc "github.com/sakshiyadav/vidya/services/email"
	logsvc "github.com/sakshiyadav/vidya/services/logger"
	"github.com/sakshiyadav/vidya/storage/database"
	"github.com/sakshiyadav/vidya/storage/database/sqlxrepos"
)

var build = "develop"

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig(build)
	if err != nil {
		std.Fatalf("loading config: %+v", err)
	}
	logger := logsvc.NewStdLogger(std)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		std.Fatal(err)
	}
	defer db.Close()
	if err = database.Ping(db); err != nil {
		std.Fatal(err)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleService(conf), conf)

	verifier, err := auth.NewVerifier(conf, usrSvc,
		sqlxrepos.NewProfileRoles(db), sqlxrepos.NewAdminProcedures(db))
	if err != nil {
		std.Fatal(err)
	}

	// start CLI
	cli := commandLine{
		db:       db,
		usrSvc:   usrSvc,
		sessions: session.NewManager(verifier, logger),
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
