package echoapi

import (
	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/session"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token   string          `json:"token"`
		Session session.Session `json:"session"`
	}

	VerifyIdentityRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	PasswordResetConfirmRequest struct {
		Username        string `json:"username" validate:"required"`
		Email           string `json:"email" validate:"required,email"`
		UID             string `json:"uid"`
		Token           string `json:"token"`
		Password        string `json:"password" validate:"required"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	ViewResponse struct {
		View    session.ViewMode `json:"view"`
		Session session.Session  `json:"session"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}

func (vr *VerifyIdentityRequest) Validate() error {
	vr.Username = core.CleanString(vr.Username, true /* lower */)
	vr.Email = core.CleanString(vr.Email, true /* lower */)
	return core.Validate.Struct(vr)
}

func (pr *PasswordResetConfirmRequest) Validate() error {
	pr.Username = core.CleanString(pr.Username, true /* lower */)
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}
