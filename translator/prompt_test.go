package translator

import (
	"strings"
	"testing"
)

func TestSystemPromptSubstitution(t *testing.T) {
	got := systemPrompt("", "en", "ru")
	if strings.Contains(got, "{{sourceLang}}") || strings.Contains(got, "{{targetLang}}") {
		t.Fatal("placeholders not substituted")
	}
	if !strings.Contains(got, "English") || !strings.Contains(got, "Русский") {
		t.Fatalf("native names missing:\n%s", got)
	}

	custom := systemPrompt("translate {{sourceLang}} to {{targetLang}}", "en", "de")
	if custom != "translate English to Deutsch" {
		t.Fatalf("custom prompt = %q", custom)
	}
}

func TestCleanResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain array", `["a"]`, `["a"]`},
		{"fenced", "```json\n[\"a\"]\n```", `["a"]`},
		{"fenced without language", "```\n[\"a\"]\n```", `["a"]`},
		{"chatter around array", `Here you go: ["a"] hope that helps`, `["a"]`},
	}
	for _, tc := range cases {
		if got := cleanResponse(tc.in); got != tc.want {
			t.Fatalf("%s: cleanResponse(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestParseSingular(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		got, err := parseSingular(`["Привет"]`)
		if err != nil {
			t.Fatalf("parseSingular error: %v", err)
		}
		if got != "Привет" {
			t.Fatalf("parseSingular = %q", got)
		}
	})

	t.Run("bare string fallback", func(t *testing.T) {
		got, err := parseSingular(`Привет`)
		if err != nil {
			t.Fatalf("parseSingular error: %v", err)
		}
		if got != "Привет" {
			t.Fatalf("parseSingular = %q", got)
		}
	})

	t.Run("empty array fails", func(t *testing.T) {
		if _, err := parseSingular(`[]`); err == nil {
			t.Fatal("parseSingular([]) should fail")
		}
	})

	t.Run("unparseable object fails", func(t *testing.T) {
		if _, err := parseSingular(`{"whatever": 1}`); err == nil {
			t.Fatal("parseSingular(object) should fail")
		}
	})
}

func TestParsePlural(t *testing.T) {
	t.Run("exact forms", func(t *testing.T) {
		forms, err := parsePlural(`["один", "два", "много"]`, 3)
		if err != nil {
			t.Fatalf("parsePlural error: %v", err)
		}
		if len(forms) != 3 || forms[2] != "много" {
			t.Fatalf("parsePlural = %#v", forms)
		}
	})

	t.Run("short response is padded", func(t *testing.T) {
		forms, err := parsePlural(`["une", "plusieurs"]`, 3)
		if err != nil {
			t.Fatalf("parsePlural error: %v", err)
		}
		if forms[2] != "plusieurs" {
			t.Fatalf("padded form = %q", forms[2])
		}
	})

	t.Run("nested array is unwrapped", func(t *testing.T) {
		forms, err := parsePlural(`[["a", "b"]]`, 2)
		if err != nil {
			t.Fatalf("parsePlural error: %v", err)
		}
		if forms[0] != "a" || forms[1] != "b" {
			t.Fatalf("parsePlural = %#v", forms)
		}
	})
}

func TestEscapeForPrompt(t *testing.T) {
	if got := escapeForPrompt("a\nb\tc"); got != `"a\nb\tc"` {
		t.Fatalf("escapeForPrompt = %q", got)
	}
}
