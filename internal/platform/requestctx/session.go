// Package requestctx carries the authenticated session through request contexts.
package requestctx

import "context"

// Session is the verified caller identity. The core trusts these values;
// organization-kind and site-membership checks happen at the boundary that
// builds the session.
type Session struct {
	UserID     string
	OrgID      int64
	OrgKind    string
	ActiveSite int64
	Role       string
	Locale     string
}

type sessionContextKey struct{}

// WithSession stores a session in context.
func WithSession(ctx context.Context, session Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the session stored in context, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	session, ok := ctx.Value(sessionContextKey{}).(Session)
	return session, ok
}
