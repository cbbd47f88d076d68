package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is a single translatable message in a PO catalog.
//
// Comment, reference, and flag fields are carried verbatim between load and
// save; the store never interprets them beyond the fuzzy flag.
type Entry struct {
	// TranslatorComments are lines starting with "# ".
	TranslatorComments []string
	// ExtractedComments are lines starting with "#.".
	ExtractedComments []string
	// References are source locations, lines starting with "#:".
	References []string
	// Flags are format flags, lines starting with "#,".
	Flags []string
	// PreviousMsgID is the previous msgid of a fuzzy entry ("#|" lines).
	PreviousMsgID string

	// MsgCtxt is the message context (msgctxt).
	MsgCtxt string
	// MsgID is the source string.
	MsgID string
	// MsgIDPlural is the source plural string, empty for singular entries.
	MsgIDPlural string
	// MsgStr is the translation (singular entries).
	MsgStr string
	// MsgStrPlural maps plural form index to translation.
	MsgStrPlural map[int]string

	// Obsolete marks entries prefixed with "#~".
	Obsolete bool
}

// Pending reports whether the entry still needs a translation: the
// translation is absent or empty (any empty plural form counts).
func (e *Entry) Pending() bool {
	if e.MsgID == "" || e.Obsolete {
		return false
	}
	if e.MsgIDPlural != "" {
		if len(e.MsgStrPlural) == 0 {
			return true
		}
		for _, form := range e.MsgStrPlural {
			if form == "" {
				return true
			}
		}
		return false
	}
	return e.MsgStr == ""
}

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	for _, f := range e.Flags {
		if f == "fuzzy" {
			return true
		}
	}
	return false
}

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy && !e.IsFuzzy() {
		e.Flags = append(e.Flags, "fuzzy")
		return
	}
	if !fuzzy {
		kept := e.Flags[:0]
		for _, f := range e.Flags {
			if f != "fuzzy" {
				kept = append(kept, f)
			}
		}
		e.Flags = kept
	}
}

// PluralForms returns the plural translations in form-index order.
func (e *Entry) PluralForms() []string {
	indices := make([]int, 0, len(e.MsgStrPlural))
	for idx := range e.MsgStrPlural {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	forms := make([]string, 0, len(indices))
	for _, idx := range indices {
		forms = append(forms, e.MsgStrPlural[idx])
	}
	return forms
}

// translationKey returns a comparable snapshot of the entry's translation,
// used by the store to detect unsaved changes.
func (e *Entry) translationKey() string {
	if e.MsgIDPlural == "" {
		return e.MsgStr
	}
	indices := make([]int, 0, len(e.MsgStrPlural))
	for idx := range e.MsgStrPlural {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	var b strings.Builder
	for _, idx := range indices {
		fmt.Fprintf(&b, "%d=%s\x00", idx, e.MsgStrPlural[idx])
	}
	return b.String()
}
