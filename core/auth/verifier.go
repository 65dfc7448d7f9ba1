// Package auth provides the interchangeable credential verification
// strategies. Exactly one strategy is selected at configuration time and
// never mixed with another at runtime.
package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/user"
)

var (
	// ErrCredentialRejected means authentication failed for business reasons
	// (wrong pair, unknown account, unresolvable role). Anything else coming
	// out of a Verifier is an infrastructure failure and carries a distinct
	// user-visible message.
	ErrCredentialRejected = errors.New("invalid credentials")

	// ErrNoProfile means an account exists but has no profile row to map it
	// to a role. Treated as a failure to resolve role, not as an error.
	ErrNoProfile = errors.New("no profile found for user")

	// ErrRecoveryUnsupported is returned by strategies without a recovery flow.
	ErrRecoveryUnsupported = errors.New("password recovery is not supported")
)

// Identity is the verified principal returned by a successful credential check.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (id Identity) IsAdmin() bool { return id.Role == user.RoleAdmin }

// RecoveryGrant is issued on successful identity verification and authorizes
// the password-update step of the recovery flow.
type RecoveryGrant struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

type (
	Verifier interface {
		// Verify checks the identifier/secret pair. It returns
		// ErrCredentialRejected for bad credentials; any other error is an
		// infrastructure failure.
		Verify(ctx context.Context, identifier, secret string) (Identity, error)
	}

	// Recoverer is the optional two-step password recovery capability.
	Recoverer interface {
		VerifyIdentity(ctx context.Context, username, email string) (RecoveryGrant, error)
		UpdatePassword(ctx context.Context, username, email string, grant RecoveryGrant, newPassword string) error
	}

	// RoleResolver maps a verified identity to its role via the profile table.
	RoleResolver interface {
		ResolveRole(ctx context.Context, userID string) (string, error)
	}

	// AdminProcedures is the legacy admin-credential RPC boundary.
	AdminProcedures interface {
		VerifyAdminLogin(ctx context.Context, username, password string) (Identity, bool, error)
		VerifyAdminIdentity(ctx context.Context, username, email string) (Identity, bool, error)
		UpdateAdminPassword(ctx context.Context, username, email, newPassword string) error
	}
)

// NewVerifier builds the verifier selected by conf.Auth.Strategy.
func NewVerifier(conf *core.Config, usrSvc *user.Service, roles RoleResolver, procs AdminProcedures) (Verifier, error) {
	switch conf.Auth.Strategy {
	case core.AuthStrategyStatic:
		return NewStatic(conf.Auth.StaticUsername, conf.Auth.StaticPassword), nil
	case core.AuthStrategyProcedure:
		return NewProcedure(procs), nil
	case core.AuthStrategyProvider:
		return NewProvider(usrSvc, roles), nil
	}
	return nil, errors.Errorf("unknown auth strategy %q", conf.Auth.Strategy)
}
