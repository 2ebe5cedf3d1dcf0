// Package i18n renders user-facing error messages per locale.
//
// Codes are duplicated here as plain strings to avoid an import cycle with
// the errors package.
package i18n

import (
	"bytes"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[string]string
}

var catalogs = map[string]*Catalog{
	"en-US": {locale: "en-US", messages: enUS},
	"es-CL": {locale: "es-CL", messages: esCL},
}

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse("en-US"),
	language.MustParse("es-CL"),
})

var matcherLocales = []string{"en-US", "es-CL"}

// GetCatalog returns the catalog best matching the requested locale,
// falling back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		return catalogs[BaseLocale]
	}
	if c, ok := catalogs[requested]; ok {
		return c
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return catalogs[BaseLocale]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return catalogs[BaseLocale]
	}
	return catalogs[matcherLocales[idx]]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for code with the given metadata.
// Falls back to the code itself when no template is registered.
func (c *Catalog) Format(code string, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
