package i18n

import "testing"

func TestGetCatalogExactMatch(t *testing.T) {
	t.Parallel()

	c := GetCatalog("es-CL")
	if c.Locale() != "es-CL" {
		t.Fatalf("locale = %q, want es-CL", c.Locale())
	}
}

func TestGetCatalogFallsBackToBase(t *testing.T) {
	t.Parallel()

	for _, locale := range []string{"", "fr-FR", "not a locale"} {
		c := GetCatalog(locale)
		if c.Locale() != BaseLocale {
			t.Fatalf("GetCatalog(%q) locale = %q, want %q", locale, c.Locale(), BaseLocale)
		}
	}
}

func TestGetCatalogMatchesLanguageOnly(t *testing.T) {
	t.Parallel()

	c := GetCatalog("es")
	if c.Locale() != "es-CL" {
		t.Fatalf("GetCatalog(es) locale = %q, want es-CL", c.Locale())
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	t.Parallel()

	msg := GetCatalog("en-US").Format("INVALID_STATUS", map[string]string{"status": "BROKEN"})
	if msg != "The space status BROKEN is not recognized." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestFormatFallsBackToCode(t *testing.T) {
	t.Parallel()

	if got := GetCatalog("en-US").Format("NOT_A_CODE", nil); got != "NOT_A_CODE" {
		t.Fatalf("fallback = %q, want code itself", got)
	}
}

func TestCatalogParity(t *testing.T) {
	t.Parallel()

	for code := range enUS {
		if _, ok := esCL[code]; !ok {
			t.Fatalf("es-CL catalog missing code %s", code)
		}
	}
	for code := range esCL {
		if _, ok := enUS[code]; !ok {
			t.Fatalf("en-US catalog missing code %s", code)
		}
	}
}
