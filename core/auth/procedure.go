package auth

import (
	"context"

	"github.com/pkg/errors"
)

// Procedure verifies credentials through the remote admin procedures
// (verify_admin_login and friends). The procedures own credential storage;
// identity is re-verified server-side on every call, including the password
// update, so the recovery grant carries no local token.
type Procedure struct {
	procs AdminProcedures
}

var (
	_ Verifier  = (*Procedure)(nil)
	_ Recoverer = (*Procedure)(nil)
)

func NewProcedure(procs AdminProcedures) *Procedure {
	return &Procedure{procs: procs}
}

func (v *Procedure) Verify(ctx context.Context, identifier, secret string) (Identity, error) {
	ident, valid, err := v.procs.VerifyAdminLogin(ctx, identifier, secret)
	if err != nil {
		return Identity{}, errors.Wrap(err, "calling verify_admin_login")
	}
	if !valid {
		return Identity{}, ErrCredentialRejected
	}
	return ident, nil
}

func (v *Procedure) VerifyIdentity(ctx context.Context, username, email string) (RecoveryGrant, error) {
	ident, valid, err := v.procs.VerifyAdminIdentity(ctx, username, email)
	if err != nil {
		return RecoveryGrant{}, errors.Wrap(err, "calling verify_admin_identity")
	}
	if !valid {
		return RecoveryGrant{}, ErrCredentialRejected
	}
	return RecoveryGrant{UID: ident.ID}, nil
}

func (v *Procedure) UpdatePassword(ctx context.Context, username, email string, _ RecoveryGrant, newPassword string) error {
	if err := v.procs.UpdateAdminPassword(ctx, username, email, newPassword); err != nil {
		return errors.Wrap(err, "calling update_admin_password")
	}
	return nil
}
