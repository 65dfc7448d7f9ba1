package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/session"
	"github.com/sakshiyadav/vidya/core/user"
	logsvc "github.com/sakshiyadav/vidya/services/logger"
	inmemdb "github.com/sakshiyadav/vidya/storage/database/inmem"
)

var usrRepo user.Repository

type nopMailer struct{}

func (nopMailer) SendMessages(...*core.EmailMessage) {}

func testConf() *core.Config {
	return &core.Config{
		SecretKey:                 []byte("secret"),
		RecoveryTokenTimeoutDelta: 2 * time.Hour,
		Auth: core.AuthConfig{
			Strategy:       core.AuthStrategyStatic,
			StaticUsername: "sakshiyadav",
			StaticPassword: "syssakshiyada",
		},
	}
}

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)

	conf := testConf()
	usrSvc := user.NewService(usrRepo, nopMailer{}, conf)
	verifier := auth.NewStatic(conf.Auth.StaticUsername, conf.Auth.StaticPassword)

	var out bytes.Buffer
	return &commandLine{
		usrSvc:   usrSvc,
		sessions: session.NewManager(verifier, logsvc.NewStdLogger(log.New(io.Discard, "", 0))),
		out:      &out,
	}, &out
}

func createUser(t *testing.T, name, uname, email, pwd, role string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "fee", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)

	usr := createUser(t, "User", "aweuser", "awe@test.in", "mdrlolpwd", user.RoleViewer, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lolpwd"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lolnewpwd"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmaonewpwd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli, _ := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret!pwd"), nil }

	t.Run("creates a fresh admin", func(t *testing.T) {
		err := cli.run([]string{"admin", "addadmin", "-name", "Sakshi", "-username", "sakshiy", "-email", "sakshi@test.in"})
		if err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}

		usr, err := cli.usrSvc.GetByUsername(context.Background(), "sakshiy")
		if err != nil {
			t.Fatalf("GetByUsername() failed: %v", err)
		}
		if !usr.IsAdmin() {
			t.Error("expected an admin account")
		}
		if !usr.IsActive {
			t.Error("expected an active account")
		}
		if err := usr.CheckPassword("s3cret!pwd"); err != nil {
			t.Error("password was not set")
		}
	})

	t.Run("promotes an existing account", func(t *testing.T) {
		createUser(t, "Viewer", "vieweruser", "viewer@test.in", "oldpwdlol", user.RoleViewer, false)

		err := cli.run([]string{"admin", "addadmin", "-name", "Viewer", "-username", "vieweruser", "-email", "viewer@test.in"})
		if err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}

		usr, err := cli.usrSvc.GetByUsername(context.Background(), "vieweruser")
		if err != nil {
			t.Fatalf("GetByUsername() failed: %v", err)
		}
		if !usr.IsAdmin() {
			t.Error("expected the account to be promoted")
		}
		if !usr.IsActive {
			t.Error("expected the account to be reactivated")
		}
	})

	t.Run("missing flags", func(t *testing.T) {
		if err := cli.run([]string{"admin", "addadmin", "-name", "Sakshi"}); err != errHelp {
			t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
		}
	})
}

func Test_commandLine_checkAuth(t *testing.T) {
	cli, out := setup(t)

	t.Run("verified", func(t *testing.T) {
		out.Reset()
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("syssakshiyada"), nil }

		if err := cli.run([]string{"admin", "checkauth", "-username", "sakshiyadav"}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		if !strings.Contains(out.String(), "verified: sakshiyadav") {
			t.Errorf("unexpected output: %q", out.String())
		}
	})

	t.Run("rejected", func(t *testing.T) {
		out.Reset()
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("nope"), nil }

		if err := cli.run([]string{"admin", "checkauth", "-username", "sakshiyadav"}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		if !strings.Contains(out.String(), "rejected: invalid credentials") {
			t.Errorf("unexpected output: %q", out.String())
		}
	})
}
