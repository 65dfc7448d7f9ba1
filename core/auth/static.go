package auth

import (
	"context"
	"crypto/subtle"

	"github.com/sakshiyadav/vidya/core/user"
)

// Static grants admin to one literal username/password pair; everything else
// fails. Deterministic, no I/O. Used by the local mock deployment only.
type Static struct {
	username string
	password string
}

var _ Verifier = (*Static)(nil)

func NewStatic(username, password string) *Static {
	return &Static{username: username, password: password}
}

func (v *Static) Verify(_ context.Context, identifier, secret string) (Identity, error) {
	unameOK := subtle.ConstantTimeCompare([]byte(identifier), []byte(v.username)) == 1
	pwdOK := subtle.ConstantTimeCompare([]byte(secret), []byte(v.password)) == 1
	if !(unameOK && pwdOK) {
		return Identity{}, ErrCredentialRejected
	}
	return Identity{
		Username: v.username,
		Name:     v.username,
		Role:     user.RoleAdmin,
	}, nil
}
