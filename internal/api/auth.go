package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// Authenticator adapts the identity provider's session tokens to principals
// and resolves their role server-side on every request. Roles are never read
// from the token or any other client-supplied state: the token only carries
// identity, the role comes from the role-assignment collection at call time.
type Authenticator struct {
	tokenAuth  *jwtauth.JWTAuth
	repository artifactcatalog.Repository
}

// NewAuthenticator creates an authenticator verifying HS256 session tokens
// signed with secret.
func NewAuthenticator(secret string, repo artifactcatalog.Repository) *Authenticator {
	return &Authenticator{
		tokenAuth:  jwtauth.New("HS256", []byte(secret), nil),
		repository: repo,
	}
}

// Verifier returns the middleware that extracts and verifies the session
// token. Verification failures are not rejected here; an absent or invalid
// token simply resolves to an anonymous principal downstream.
func (a *Authenticator) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(a.tokenAuth)
}

// Session returns the principal for the request's session token, or nil for
// anonymous requests. The role field is not populated; use Resolve.
func (a *Authenticator) Session(r *http.Request) *artifactcatalog.Principal {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return nil
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil
	}

	email, _ := claims["email"].(string)
	return &artifactcatalog.Principal{ID: userID, Email: email}
}

// Resolve returns the freshly resolved role and principal for the request.
// Anonymous requests and principals without an assignment both resolve to
// RoleNone with no error.
func (a *Authenticator) Resolve(r *http.Request) (artifactcatalog.Role, *artifactcatalog.Principal, error) {
	principal := a.Session(r)
	if principal == nil {
		return artifactcatalog.RoleNone, nil, nil
	}

	return artifactcatalog.ResolveRole(r.Context(), staticSession{principal}, a.repository)
}

// staticSession adapts an already-extracted principal to the SessionProvider
// contract so role resolution can stay in the core.
type staticSession struct {
	principal *artifactcatalog.Principal
}

func (s staticSession) GetSession(ctx context.Context) (*artifactcatalog.Principal, error) {
	return s.principal, nil
}

func (s staticSession) SignOut(ctx context.Context) error { return nil }
