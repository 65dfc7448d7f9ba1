package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core/user"
)

// Provider signs in against the identity store with email (or username) and
// password. The role is not part of the credential check: it is resolved by a
// second lookup keyed on the returned identity. An account without a profile
// row fails role resolution, which rejects the login without being an error.
type Provider struct {
	usrSvc *user.Service
	roles  RoleResolver
}

var (
	_ Verifier  = (*Provider)(nil)
	_ Recoverer = (*Provider)(nil)
)

func NewProvider(usrSvc *user.Service, roles RoleResolver) *Provider {
	return &Provider{usrSvc: usrSvc, roles: roles}
}

func (v *Provider) Verify(ctx context.Context, identifier, secret string) (Identity, error) {
	usr, err := v.usrSvc.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Identity{}, ErrCredentialRejected
		}
		return Identity{}, errors.Wrap(err, "finding user by username or email")
	}
	if err = usr.CheckPassword(secret); err != nil {
		return Identity{}, ErrCredentialRejected
	}
	if !usr.IsActive {
		return Identity{}, ErrCredentialRejected
	}

	role, err := v.roles.ResolveRole(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) == ErrNoProfile {
			return Identity{}, ErrCredentialRejected
		}
		return Identity{}, errors.Wrap(err, "resolving role")
	}

	if usr, err = v.usrSvc.SetLastLogin(ctx, usr); err != nil {
		return Identity{}, errors.Wrap(err, "setting lastLogin")
	}
	return Identity{
		ID:       usr.ID,
		Name:     usr.Name,
		Username: usr.Username,
		Email:    usr.Email,
		Role:     role,
	}, nil
}

func (v *Provider) VerifyIdentity(ctx context.Context, username, email string) (RecoveryGrant, error) {
	usr, token, err := v.usrSvc.VerifyIdentity(ctx, username, email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return RecoveryGrant{}, ErrCredentialRejected
		}
		return RecoveryGrant{}, errors.Wrap(err, "verifying identity")
	}
	return RecoveryGrant{UID: user.EncodeUID(usr), Token: token}, nil
}

func (v *Provider) UpdatePassword(ctx context.Context, _, _ string, grant RecoveryGrant, newPassword string) error {
	return v.usrSvc.ResetPassword(ctx, user.ResetUserPassword{
		UID:             grant.UID,
		Token:           grant.Token,
		Password:        newPassword,
		PasswordConfirm: newPassword,
	})
}
