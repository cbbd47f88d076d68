package catalog

import (
	"strconv"
	"strings"
)

// PluralFormsForLang returns the standard Plural-Forms header value for a
// language code. Unknown languages fall back to the Germanic two-form rule.
func PluralFormsForLang(lang string) string {
	base := lang
	if idx := strings.IndexAny(lang, "_-"); idx > 0 {
		base = lang[:idx]
	}

	switch base {
	case "ja", "ko", "zh", "vi", "th", "id", "ms":
		return "nplurals=1; plural=0;"
	case "fr", "pt":
		return "nplurals=2; plural=(n > 1);"
	case "en", "de", "nl", "sv", "da", "no", "nb", "nn", "fi", "es", "it", "el", "he", "hu", "tr", "bg", "hi", "ur":
		return "nplurals=2; plural=(n != 1);"
	case "ru", "uk", "be", "hr", "sr", "bs":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "pl":
		return "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "cs", "sk":
		return "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);"
	case "ro":
		return "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);"
	case "lt":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "lv":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);"
	case "ar":
		return "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);"
	default:
		return "nplurals=2; plural=(n != 1);"
	}
}

// NPlurals returns the number of plural forms for the catalog's language,
// reading the Plural-Forms header and falling back to the per-language
// default for lang.
func (c *Catalog) NPlurals(lang string) int {
	pluralForms := c.HeaderField("Plural-Forms")
	if pluralForms == "" {
		pluralForms = PluralFormsForLang(lang)
	}
	for _, part := range strings.Split(pluralForms, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "nplurals=") {
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "nplurals=")); err == nil && n > 0 {
				return n
			}
		}
	}
	return 2 // safe default
}

// langNames maps language codes to their native names, used when prompting
// the translation model.
var langNames = map[string]string{
	"ar":    "العربية",
	"bg":    "Български",
	"cs":    "Čeština",
	"da":    "Dansk",
	"de":    "Deutsch",
	"el":    "Ελληνικά",
	"en":    "English",
	"es":    "Español",
	"fi":    "Suomi",
	"fr":    "Français",
	"he":    "עברית",
	"hi":    "हिन्दी",
	"hr":    "Hrvatski",
	"hu":    "Magyar",
	"id":    "Bahasa Indonesia",
	"it":    "Italiano",
	"ja":    "日本語",
	"ko":    "한국어",
	"lt":    "Lietuvių",
	"lv":    "Latviešu",
	"ms":    "Bahasa Melayu",
	"nl":    "Nederlands",
	"no":    "Norsk",
	"nb":    "Norsk bokmål",
	"nn":    "Norsk nynorsk",
	"pl":    "Polski",
	"pt":    "Português",
	"pt_BR": "Português (Brasil)",
	"ro":    "Română",
	"ru":    "Русский",
	"sk":    "Slovenčina",
	"sr":    "Српски",
	"sv":    "Svenska",
	"th":    "ไทย",
	"tr":    "Türkçe",
	"uk":    "Українська",
	"vi":    "Tiếng Việt",
	"zh":    "中文",
}

// LangNameNative returns the native name of a language, or the code itself
// when unknown.
func LangNameNative(lang string) string {
	if name, ok := langNames[lang]; ok {
		return name
	}
	if name, ok := langNames[strings.ReplaceAll(lang, "-", "_")]; ok {
		return name
	}
	return lang
}
