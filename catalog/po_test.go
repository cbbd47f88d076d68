package catalog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseWriteRoundTripPreservesOrder(t *testing.T) {
	input := `msgid ""
msgstr ""
"Project-Id-Version: demo 1.0\n"
"Language: ru\n"

#. extracted comment
#: app.go:12
msgid "hello"
msgstr "privet"

msgid "charlie"
msgstr ""

#, fuzzy
#| msgid "old count"
msgid "count"
msgid_plural "counts"
msgstr[0] "odin"
msgstr[1] "mnogo"

msgid "alpha"
msgstr ""
`

	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	wantOrder := []string{"hello", "charlie", "count", "alpha"}
	if len(c.Entries) != len(wantOrder) {
		t.Fatalf("entries len = %d, want %d", len(c.Entries), len(wantOrder))
	}
	for i, want := range wantOrder {
		if c.Entries[i].MsgID != want {
			t.Fatalf("entry %d = %q, want %q", i, c.Entries[i].MsgID, want)
		}
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	for i, want := range wantOrder {
		if again.Entries[i].MsgID != want {
			t.Fatalf("reparsed entry %d = %q, want %q", i, again.Entries[i].MsgID, want)
		}
	}

	plural := again.Entries[2]
	if plural.MsgIDPlural != "counts" {
		t.Fatalf("MsgIDPlural = %q, want counts", plural.MsgIDPlural)
	}
	if plural.MsgStrPlural[0] != "odin" || plural.MsgStrPlural[1] != "mnogo" {
		t.Fatalf("plural forms = %#v", plural.MsgStrPlural)
	}
	if !plural.IsFuzzy() {
		t.Fatal("fuzzy flag lost on round trip")
	}
	if plural.PreviousMsgID != "old count" {
		t.Fatalf("PreviousMsgID = %q, want old count", plural.PreviousMsgID)
	}
}

func TestParseMultilineAndEscapes(t *testing.T) {
	input := `msgid ""
msgstr ""
"Language: de\n"

msgid ""
"first line\n"
"second \"quoted\" line"
msgstr "a\tb\\c"
`

	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	e := c.Entries[0]

	if want := "first line\nsecond \"quoted\" line"; e.MsgID != want {
		t.Fatalf("MsgID = %q, want %q", e.MsgID, want)
	}
	if want := "a\tb\\c"; e.MsgStr != want {
		t.Fatalf("MsgStr = %q, want %q", e.MsgStr, want)
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if again.Entries[0].MsgID != e.MsgID || again.Entries[0].MsgStr != e.MsgStr {
		t.Fatalf("escapes lost: %q / %q", again.Entries[0].MsgID, again.Entries[0].MsgStr)
	}
}

func TestParseObsoleteEntries(t *testing.T) {
	input := `msgid ""
msgstr ""
"Language: fr\n"

#~ msgid "gone"
#~ msgstr "parti"
`

	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(c.Entries) != 1 || !c.Entries[0].Obsolete {
		t.Fatalf("expected one obsolete entry, got %#v", c.Entries)
	}
	if c.Entries[0].Pending() {
		t.Fatal("obsolete entries must not be pending")
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), `#~ msgid "gone"`) {
		t.Fatalf("obsolete prefix lost:\n%s", buf.String())
	}
}

func TestParseToleratesBareObsoleteMarker(t *testing.T) {
	input := `msgid ""
msgstr ""
"Language: fr\n"

#~
#~ msgid "gone"
#~ msgstr "parti"
`

	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(c.Entries) != 1 || !c.Entries[0].Obsolete {
		t.Fatalf("expected one obsolete entry, got %#v", c.Entries)
	}
	if c.Entries[0].MsgID != "gone" {
		t.Fatalf("MsgID = %q, want gone", c.Entries[0].MsgID)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	input := `msgid "ok"
msgstr "fine"
this is not a po line
`

	_, err := Parse(strings.NewReader(input))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse error = %v, want *ParseError", err)
	}
	if pe.Line != 3 {
		t.Fatalf("ParseError.Line = %d, want 3", pe.Line)
	}
}

func TestQuoteUnquote(t *testing.T) {
	cases := []string{
		"plain",
		"with \"quotes\"",
		"line\nbreak",
		"tab\there",
		`back\slash`,
		"",
	}
	for _, s := range cases {
		if got := unquote(quote(s)); got != s {
			t.Fatalf("unquote(quote(%q)) = %q", s, got)
		}
	}
}
