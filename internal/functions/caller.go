package functions

import (
	"context"

	"kuisin/internal/app"
)

// Authenticator resolves bearer tokens to admins.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (app.Principal, error)
}

// Caller is the identity behind one invocation. The token is checked lazily so
// public actions never pay for it.
type Caller struct {
	token string
	auth  Authenticator

	checked   bool
	principal app.Principal
	err       error
}

func newCaller(auth Authenticator, token string) *Caller {
	return &Caller{auth: auth, token: token}
}

// Admin returns the authenticated admin or domain.ErrUnauthorized.
func (c *Caller) Admin(ctx context.Context) (app.Principal, error) {
	if !c.checked {
		c.principal, c.err = c.auth.Authenticate(ctx, c.token)
		c.checked = true
	}
	return c.principal, c.err
}
