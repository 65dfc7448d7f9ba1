package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/session"
)

type authApi struct {
	verifier auth.Verifier
	conf     *core.Config
	logger   core.Logger
	deps     ServerDeps
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		verifier: deps.Verifier,
		conf:     deps.Conf,
		logger:   deps.Logger,
		deps:     deps,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/login` & the recovery endpoints
	ag.POST("/login", api.login)
	ag.POST("/verify-identity", api.verifyIdentity)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	authed := ag.Group("", jwt)
	authed.GET("/session", api.session)
	authed.POST("/token-refresh", api.refreshToken)
	authed.POST("/logout", api.logout)
}

func registerViewAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	g.GET("/view", resolveView, optionalJWT(jwt))
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ident, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.verifier)
	if err != nil {
		return err
	}

	token, err := GenerateToken(GetIdentityClaims(api.conf, ident))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Session: session.FromIdentity(ident),
	})
}

// session rehydrates the caller's session from their token. The admin view
// restores itself with this on reload instead of forcing a fresh login.
func (api *authApi) session(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextSession(ctx))
}

// logout is best-effort on the remote side; the caller always gets the
// anonymous session back.
func (api *authApi) logout(ctx echo.Context) error {
	if so, ok := api.verifier.(interface{ SignOut(ctx context.Context) error }); ok {
		if err := so.SignOut(ctx.Request().Context()); err != nil {
			api.logger.Warn("remote sign-out failed", err)
		}
	}
	return ctx.JSON(http.StatusOK, session.Anonymous())
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) verifyIdentity(ctx echo.Context) error {
	var data VerifyIdentityRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyIdentityRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	recoverer, ok := api.verifier.(auth.Recoverer)
	if !ok {
		return core.NewValidationError(auth.ErrRecoveryUnsupported)
	}

	grant, err := recoverer.VerifyIdentity(ctx.Request().Context(), data.Username, data.Email)
	if err != nil {
		if errors.Cause(err) == auth.ErrCredentialRejected {
			return core.NewValidationError(auth.ErrCredentialRejected)
		}
		return errors.Wrap(err, "verifying identity")
	}
	return ctx.JSON(http.StatusOK, grant)
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data PasswordResetConfirmRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetConfirmRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	recoverer, ok := api.verifier.(auth.Recoverer)
	if !ok {
		return core.NewValidationError(auth.ErrRecoveryUnsupported)
	}

	grant := auth.RecoveryGrant{UID: data.UID, Token: data.Token}
	if err := recoverer.UpdatePassword(ctx.Request().Context(), data.Username, data.Email, grant, data.Password); err != nil {
		if errors.Cause(err) == auth.ErrCredentialRejected {
			return core.NewValidationError(auth.ErrCredentialRejected)
		}
		return errors.Wrap(err, "updating password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

// resolveView decides which surface the caller gets. An anonymous or
// non-admin caller asking for the admin view silently degrades to the
// read-only one.
func resolveView(ctx echo.Context) error {
	s := contextSession(ctx)
	requested := session.ViewMode(ctx.QueryParam("mode"))
	return ctx.JSON(http.StatusOK, ViewResponse{
		View:    session.ResolveView(requested, s),
		Session: s,
	})
}
