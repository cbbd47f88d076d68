package translator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/openlocalize/potool/catalog"
)

// DefaultSystemPrompt instructs the model to translate UI strings while
// preserving format specifiers. {{sourceLang}} and {{targetLang}} are
// replaced with native language names before the request is sent.
const DefaultSystemPrompt = `You are a professional translator specializing in software localization. You are translating UI strings from {{sourceLang}} to {{targetLang}}.

IMPORTANT TRANSLATION PRINCIPLES:
- Translate for NATURALNESS and FLUENCY in {{targetLang}}, not word-for-word
- Use established IT terminology in {{targetLang}}
- Maintain the original tone and intent

TECHNICAL REQUIREMENTS:
- Preserve all format specifiers exactly as-is (%s, %d, {var}, $var, %(name)s, etc.)
- Preserve leading/trailing whitespace, newlines, and punctuation patterns
- Keep brand names and proper nouns unchanged
- Return ONLY a JSON array of translated strings, no explanations or markdown code blocks`

// systemPrompt resolves the prompt template for a language pair.
func systemPrompt(override, sourceLang, targetLang string) string {
	prompt := override
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	prompt = strings.ReplaceAll(prompt, "{{sourceLang}}", catalog.LangNameNative(sourceLang))
	prompt = strings.ReplaceAll(prompt, "{{targetLang}}", catalog.LangNameNative(targetLang))
	return prompt
}

// singularPrompt builds the user message for a single string.
func singularPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Translate this entry:\n\n")
	b.WriteString("1. " + escapeForPrompt(text) + "\n")
	b.WriteString("\nReturn a JSON array with exactly 1 translated string.")
	return b.String()
}

// pluralPrompt builds the user message for an entry with plural forms.
func pluralPrompt(singular, plural string, nplurals int) string {
	var b strings.Builder
	b.WriteString("Translate this entry:\n\n")
	fmt.Fprintf(&b, "1. singular: %s | plural: %s\n", escapeForPrompt(singular), escapeForPrompt(plural))
	fmt.Fprintf(&b, "\nReturn a JSON array with exactly %d strings: the plural forms for the target language, in grammatical order.", nplurals)
	return b.String()
}

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// cleanResponse strips markdown fences and isolates the outer JSON array.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}
	return content
}

// parseSingular extracts the single translated string from a model response.
// A bare string (no JSON array) is accepted as a fallback.
func parseSingular(content string) (string, error) {
	cleaned := cleanResponse(content)

	var translations []string
	if err := json.Unmarshal([]byte(cleaned), &translations); err != nil {
		trimmed := strings.TrimSpace(content)
		if trimmed != "" && !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
			return strings.Trim(trimmed, `"`), nil
		}
		return "", &APIError{Reason: fmt.Sprintf("unparseable translation response: %s", truncate(content, 300)), Err: err}
	}
	if len(translations) == 0 || translations[0] == "" {
		return "", &APIError{Reason: "empty translation in response"}
	}
	return translations[0], nil
}

// parsePlural extracts nplurals translated forms from a model response.
// Short responses are padded with the last form; nested single-element
// arrays ([["a","b"]]) are unwrapped.
func parsePlural(content string, nplurals int) ([]string, error) {
	cleaned := cleanResponse(content)

	var forms []string
	if err := json.Unmarshal([]byte(cleaned), &forms); err != nil {
		var nested [][]string
		if err2 := json.Unmarshal([]byte(cleaned), &nested); err2 == nil && len(nested) > 0 {
			forms = nested[0]
		} else {
			return nil, &APIError{Reason: fmt.Sprintf("unparseable plural response: %s", truncate(content, 300)), Err: err}
		}
	}
	if len(forms) == 0 {
		return nil, &APIError{Reason: "empty plural translation in response"}
	}

	for len(forms) < nplurals {
		forms = append(forms, forms[len(forms)-1])
	}
	return forms[:nplurals], nil
}

// escapeForPrompt prepares a string for inclusion in the user message.
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return fmt.Sprintf(`"%s"`, s)
}
