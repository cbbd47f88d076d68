// Package i18n localizes potool's own interface strings.
//
// It wraps gotext: T() translates a message, N() picks a plural form.
// Catalogs are embedded under locales/{lang}/LC_MESSAGES/potool.po and
// loaded once by Init(), which auto-detects the user's locale from the
// usual gettext environment variables.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "potool"

var locale *gotext.Locale

// Init loads the embedded catalog for lang. An empty lang auto-detects
// from LANGUAGE, LC_ALL, LC_MESSAGES, LANG in gettext priority order.
// Call once at startup before any T or N.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	locale = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// T translates msgid, returning it unchanged when no translation exists.
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// N translates with plural forms, selecting the form for n according to
// the target language's plural formula.
func N(singular, plural string, n int) string {
	if locale == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return locale.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext priority: LANGUAGE > LC_ALL >
// LC_MESSAGES > LANG. "C" and "POSIX" mean no translation.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// Strip the encoding suffix: ru_RU.UTF-8 -> ru_RU.
		val, _, _ = strings.Cut(val, ".")
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
