package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
	"github.com/sakshiyadav/vidya/core/user"
)

// appJWTConfig is the default JWT auth middleware config. The signing key is
// set from the app config in NewServer.
var appJWTConfig = middleware.JWTConfig{
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "identityToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	IsAdmin      bool   `json:"is_admin,omitempty"` // -> ADMIN VIEW
}

func GetIdentityClaims(conf *core.Config, ident auth.Identity, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   ident.ID,
			Audience:  "Vidya",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         ident.Name,
		Username:     ident.Username,
		Email:        ident.Email,
		Role:         ident.Role,
		IsAdmin:      ident.IsAdmin(),
	}
}

// identityFromClaims reverses GetIdentityClaims for per-request session
// rehydration.
func identityFromClaims(claims Claims) auth.Identity {
	return auth.Identity{
		ID:       claims.Subject,
		Name:     claims.Name,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}
}

func authenticate(ctx context.Context, uname, pwd string, verifier auth.Verifier) (auth.Identity, error) {
	ident, err := verifier.Verify(ctx, uname, pwd)
	if err != nil {
		if errors.Cause(err) == auth.ErrCredentialRejected {
			return auth.Identity{}, core.NewValidationError(auth.ErrCredentialRejected)
		}
		return auth.Identity{}, errors.Wrap(err, "verifying credentials")
	}
	return ident, nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func refreshToken(ctx echo.Context, deps ServerDeps) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(deps.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	ident := identityFromClaims(claims)

	// store-backed identities must still exist and be active
	if deps.UserSvc != nil && claims.Subject != "" {
		usr, err := deps.UserSvc.GetByID(ctx.Request().Context(), claims.Subject)
		if err != nil {
			if errors.Cause(err) == user.ErrNotFound {
				return "", errUnauthorized
			}
			return "", errors.Wrap(err, "finding user by ID")
		}
		if !usr.IsActive {
			return "", errAccountDeactivated
		}
		ident.Name, ident.Username, ident.Email = usr.Name, usr.Username, usr.Email
	}

	newClaims := GetIdentityClaims(deps.Conf, ident, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
