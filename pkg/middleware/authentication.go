package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/labstack/echo/v4"
	"github.com/rotisserie/eris"

	utils "github.com/Oikion/mvp-sub017/pkg/context"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
)

const verifyTimeout = 5 * time.Second

// UserClaims are the token claims the API relies on. The organization comes from the
// org_id claim, falling back to the first realm role for older realms.
type UserClaims struct {
	Sub            string `json:"sub"`
	Email          string `json:"email"`
	OrganizationID string `json:"org_id"`
	RealmAccess    struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// Organization returns the organization the token belongs to, empty when it names none
func (c UserClaims) Organization() string {
	if c.OrganizationID != "" {
		return c.OrganizationID
	}
	if len(c.RealmAccess.Roles) > 0 {
		return c.RealmAccess.Roles[0]
	}
	return ""
}

// TokenVerifier checks a raw bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*UserClaims, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer and verifies tokens issued for clientID
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (TokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, eris.Wrapf(err, "oidc provider %s", issuer)
	}
	return &oidcVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (*UserClaims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	var claims UserClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, eris.Wrap(err, "cannot parse claims")
	}
	return &claims, nil
}

// Authentication requires a valid bearer token and stores its user and organization on the context
func Authentication(logger ectologger.Logger, verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracing.StartSpan(c.Request().Context(), "middleware.Authentication")
			defer span.End()

			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				logger.WithContext(ctx).Warn("request is missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer")
			}

			verifyCtx, cancel := context.WithTimeout(ctx, verifyTimeout)
			defer cancel()

			claims, err := verifier.Verify(verifyCtx, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				logger.WithContext(ctx).WithError(err).Warn("token is invalid")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			organization := claims.Organization()
			if organization == "" {
				logger.WithContext(ctx).WithField("sub", claims.Sub).Warn("token names no organization")
				return echo.NewHTTPError(http.StatusForbidden, "token names no organization")
			}

			ctx = utils.SetUserID(ctx, claims.Sub)
			ctx = utils.SetTenantID(ctx, organization)

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
