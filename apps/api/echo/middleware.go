package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core/session"
)

// adminMiddleware rejects any caller whose token does not carry the admin
// claim. Fail closed: no claims at all also means no access.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// optionalJWT runs the JWT middleware only when an Authorization header is
// present, so anonymous callers still reach the handler.
func optionalJWT(jwt echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		authed := jwt(next)
		return func(ctx echo.Context) error {
			if ctx.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(ctx)
			}
			return authed(ctx)
		}
	}
}

// contextSession derives the caller's session from the request claims.
// Absent or unparsed claims yield the anonymous session.
func contextSession(ctx echo.Context) session.Session {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return session.Anonymous()
	}
	return session.FromIdentity(identityFromClaims(claims))
}
