package requestctx

import (
	"context"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	session := Session{
		UserID:     "user-1",
		OrgID:      42,
		OrgKind:    "CEMENTERIO",
		ActiveSite: 7,
		Role:       "ADMIN",
		Locale:     "es-CL",
	}
	ctx := WithSession(context.Background(), session)
	got, ok := SessionFromContext(ctx)
	if !ok {
		t.Fatal("expected session in context")
	}
	if got != session {
		t.Fatalf("session = %+v, want %+v", got, session)
	}
}

func TestSessionFromContextMissing(t *testing.T) {
	t.Parallel()

	if _, ok := SessionFromContext(context.Background()); ok {
		t.Fatal("expected no session")
	}
	if _, ok := SessionFromContext(nil); ok {
		t.Fatal("expected no session for nil context")
	}
}
