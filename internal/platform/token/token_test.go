package token

import (
	"testing"
	"time"

	apperrors "github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/platform/requestctx"
)

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()

	m, err := NewManager("test-secret", "camposanto-test", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.now = func() time.Time { return now }
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	session := requestctx.Session{
		UserID:     "user-9",
		OrgID:      3,
		OrgKind:    "CEMENTERIO",
		ActiveSite: 12,
		Role:       "OPERATOR",
		Locale:     "es-CL",
	}
	signed, err := m.Issue(session)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != session {
		t.Fatalf("session = %+v, want %+v", got, session)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, issued)
	signed, err := m.Issue(requestctx.Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Verify(signed)
	if !apperrors.IsCode(err, apperrors.CodeSessionExpired) {
		t.Fatalf("error = %v, want SESSION_EXPIRED", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	signed, err := m.Issue(requestctx.Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, err := NewManager("different-secret", "camposanto-test", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	other.now = m.now
	if _, err := other.Verify(signed); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Now())
	if _, err := m.Verify("not-a-token"); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
	if _, err := m.Verify(""); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewManager("", "x", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
