package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	echoapi "github.com/sakshiyadav/vidya/apps/api/echo"
	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/fee"
	"github.com/sakshiyadav/vidya/core/user"
	emailsvc "github.com/sakshiyadav/vidya/services/email"
	logsvc "github.com/sakshiyadav/vidya/services/logger"
	slipsvc "github.com/sakshiyadav/vidya/services/slip"
	"github.com/sakshiyadav/vidya/storage/database"
	inmemdb "github.com/sakshiyadav/vidya/storage/database/inmem"
	"github.com/sakshiyadav/vidya/storage/database/sqlxrepos"
)

// build is the git version of this app. It is set using build flags.
var build = "develop"

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig(build)
	if err != nil {
		log.Fatalf("loading config: %+v", err)
	}

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf)
	}

	// set up the stores and the auth strategy
	var (
		feeRepo fee.Repository
		usrSvc  *user.Service
		roles   auth.RoleResolver
		procs   auth.AdminProcedures
	)

	switch conf.Auth.Strategy {
	case core.AuthStrategyStatic:
		// local mock deployment: everything lives in memory
		db, err := inmemdb.Open()
		if err != nil {
			fatal(logger, "opening in-memory store", err)
		}
		if err = inmemdb.SeedFees(db); err != nil {
			fatal(logger, "seeding fee catalog", err)
		}
		feeRepo = inmemdb.NewFeeRepository(db)

	default:
		db, err := setUpDB(conf)
		if err != nil {
			fatal(logger, "setting up database", err)
		}
		defer closeDB(db, logger)

		feeRepo = sqlxrepos.NewFeeRepository(db)
		usrSvc = user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)
		roles = sqlxrepos.NewProfileRoles(db)
		procs = sqlxrepos.NewAdminProcedures(db)
	}

	verifier, err := auth.NewVerifier(conf, usrSvc, roles, procs)
	if err != nil {
		fatal(logger, "setting up auth strategy", err)
	}

	feeSvc := fee.NewService(feeRepo, logger)
	if err = feeSvc.Load(context.Background()); err != nil {
		// degrade: the catalog stays empty until the store comes back
		logger.Warn("fee catalog unavailable at startup", err)
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q : strategy %q", conf.Build, conf.Auth.Strategy))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:         conf,
		Logger:       logger,
		FeeSvc:       feeSvc,
		UserSvc:      usrSvc,
		Verifier:     verifier,
		SlipRenderer: slipsvc.NewPDFRenderer(),
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		fatal(logger, "server error", err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				fatal(logger, "could not force stop server", err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(db); err != nil {
		return nil, err
	}
	if err = database.Migrate(db, "up"); err != nil {
		return nil, err
	}
	return db, nil
}

func closeDB(db *sql.DB, logger core.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("closing database", err)
	}
}

func fatal(logger core.Logger, msg string, err error) {
	logger.Error(fmt.Sprintf("%s: %v", msg, err), err)
	os.Exit(1)
}
