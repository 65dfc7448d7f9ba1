package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/user"
)

// adminProcedures calls the legacy admin-credential procedures. Credential
// storage and hashing live entirely on the database side; this boundary only
// ever passes scalars.
type adminProcedures struct {
	db *sqlx.DB
}

var _ auth.AdminProcedures = (*adminProcedures)(nil)

func NewAdminProcedures(db *sql.DB) *adminProcedures {
	return &adminProcedures{db: sqlx.NewDb(db, "postgres")}
}

type procResult struct {
	IsValid   null.Bool   `db:"is_valid"`
	UserID    null.String `db:"user_id"`
	UserName  null.String `db:"user_name"`
	UserEmail null.String `db:"user_email"`
}

func (p procResult) identity() auth.Identity {
	return auth.Identity{
		ID:       p.UserID.String,
		Name:     p.UserName.String,
		Username: p.UserName.String,
		Email:    p.UserEmail.String,
		Role:     user.RoleAdmin,
	}
}

func (repo adminProcedures) call(ctx context.Context, proc string, args ...interface{}) (auth.Identity, bool, error) {
	var res procResult
	err := repo.db.GetContext(ctx, &res, `SELECT * FROM `+proc+`($1, $2)`, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			// unknown username; same outcome as a failed check
			return auth.Identity{}, false, nil
		}
		return auth.Identity{}, false, errors.Wrapf(err, "calling %s", proc)
	}
	if !res.IsValid.Bool {
		return auth.Identity{}, false, nil
	}
	return res.identity(), true, nil
}

func (repo adminProcedures) VerifyAdminLogin(ctx context.Context, username, password string) (auth.Identity, bool, error) {
	return repo.call(ctx, "verify_admin_login", username, password)
}

func (repo adminProcedures) VerifyAdminIdentity(ctx context.Context, username, email string) (auth.Identity, bool, error) {
	return repo.call(ctx, "verify_admin_identity", username, email)
}

func (repo adminProcedures) UpdateAdminPassword(ctx context.Context, username, email, newPassword string) error {
	var updated null.Bool
	err := repo.db.GetContext(ctx, &updated,
		`SELECT update_admin_password($1, $2, $3)`, username, email, newPassword)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "calling update_admin_password")
	}
	if err == sql.ErrNoRows || !updated.Bool {
		return auth.ErrCredentialRejected
	}
	return nil
}

// profileRoles resolves a user's role from the profile table.
type profileRoles struct {
	db *sqlx.DB
}

var _ auth.RoleResolver = (*profileRoles)(nil)

func NewProfileRoles(db *sql.DB) *profileRoles {
	return &profileRoles{db: sqlx.NewDb(db, "postgres")}
}

func (repo profileRoles) ResolveRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := repo.db.GetContext(ctx, &role, `SELECT role FROM profile WHERE user_id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", auth.ErrNoProfile
		}
		return "", errors.Wrap(err, "querying profile role")
	}
	return role, nil
}
