package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeSpaceOccupied, "space 7 already occupied")
	if !stderrors.Is(err, New(CodeSpaceOccupied, "different message")) {
		t.Fatal("expected Is to match on code")
	}
	if stderrors.Is(err, New(CodeSpaceLocked, "space 7 already occupied")) {
		t.Fatal("expected Is to reject different code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := Wrap(CodeInternalError, "persist space", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if GetCode(wrapped) != CodeInternalError {
		t.Fatalf("code = %q, want %q", GetCode(wrapped), CodeInternalError)
	}
}

func TestGetCodeUnknownForPlainError(t *testing.T) {
	t.Parallel()

	if GetCode(stderrors.New("boom")) != CodeUnknown {
		t.Fatal("expected CodeUnknown for plain error")
	}
}

func TestHTTPStatusTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code Code
		want int
	}{
		{CodeSpaceNotFound, http.StatusNotFound},
		{CodeRequestNotFound, http.StatusNotFound},
		{CodeSpaceOccupied, http.StatusConflict},
		{CodeSpaceLocked, http.StatusConflict},
		{CodeDuplicateCode, http.StatusConflict},
		{CodeSiteMismatch, http.StatusBadRequest},
		{CodeInvalidStatus, http.StatusBadRequest},
		{CodeWrongOrgKind, http.StatusForbidden},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInternalError, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("%s status = %d, want %d", tc.code, got, tc.want)
		}
	}
}
