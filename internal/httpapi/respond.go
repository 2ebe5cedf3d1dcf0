package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	apperrors "github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/platform/errors/i18n"
	"github.com/camposanto/camposanto/internal/platform/requestctx"
)

// maxBodyBytes bounds request payloads; nothing the API accepts is large.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the provided status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// errorEnvelope is the wire shape of every error response.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps a domain error onto the HTTP taxonomy and renders its
// message in the caller's locale. Unknown errors collapse to a 500 without
// leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)

	var metadata map[string]string
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		metadata = domainErr.Metadata
	}

	catalog := i18n.GetCatalog(requestLocale(r))
	writeJSON(w, code.HTTPStatus(), errorEnvelope{
		Error:   string(code),
		Message: catalog.Format(string(code), metadata),
	})
}

// requestLocale picks the session locale when present, falling back to the
// Accept-Language header for unauthenticated routes.
func requestLocale(r *http.Request) string {
	if r == nil {
		return ""
	}
	if session, ok := requestctx.SessionFromContext(r.Context()); ok && session.Locale != "" {
		return session.Locale
	}
	return r.Header.Get("Accept-Language")
}

// decodeJSON reads the request body into target, rejecting unknown fields.
func decodeJSON(r *http.Request, target any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidBody, "decode request body", err)
	}
	return nil
}
