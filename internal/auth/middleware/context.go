package auth

import "context"

// Identity is the explicit viewer context handed to the access gate and the
// player instead of ambient per-request lookups. A zero Identity is an
// anonymous viewer.
type Identity struct {
	Sub  string // learner id for learners, username for staff
	Name string
	Role string // "learner", "trainer", "admin"
}

func (id Identity) Anonymous() bool { return id.Sub == "" }
func (id Identity) Admin() bool     { return id.Role == "admin" }

type ctxKey struct{}

var ctxKeyIdentity = ctxKey{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) Identity {
	if v := ctx.Value(ctxKeyIdentity); v != nil {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
