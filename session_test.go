package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openlocalize/potool/catalog"
	"github.com/openlocalize/potool/config"
	"github.com/openlocalize/potool/translator"
)

const sessionCatalog = `msgid ""
msgstr ""
"Project-Id-Version: demo 1.0\n"
"Language: ru\n"
"Plural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"

msgid "Hello"
msgstr ""

msgid "Save"
msgstr "Сохранить"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] ""
msgstr[1] ""
msgstr[2] ""
`

// fakeClient translates deterministically without any network access.
type fakeClient struct {
	calls int
	fail  error
}

func (f *fakeClient) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.calls++
	if f.fail != nil {
		return "", f.fail
	}
	return "T:" + text, nil
}

func (f *fakeClient) TranslatePlural(_ context.Context, singular, _, _, _ string, nplurals int) ([]string, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	forms := make([]string, nplurals)
	for i := range forms {
		forms[i] = fmt.Sprintf("T%d:%s", i, singular)
	}
	return forms, nil
}

var _ translator.Client = (*fakeClient)(nil)

func writeSessionCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ru.po")
	if err := os.WriteFile(path, []byte(sessionCatalog), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestSession(t *testing.T, input string) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess, err := NewSession(
		config.Config{FilePath: writeSessionCatalog(t), SourceLang: "en"},
		strings.NewReader(input),
		&out,
	)
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}
	return sess, &out
}

func TestNewSessionPromptsForPath(t *testing.T) {
	path := writeSessionCatalog(t)
	var out bytes.Buffer

	sess, err := NewSession(
		config.Config{SourceLang: "en"},
		strings.NewReader(path+"\n"),
		&out,
	)
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}
	if sess.cat.Path != path {
		t.Fatalf("catalog path = %q, want %q", sess.cat.Path, path)
	}
	if !strings.Contains(out.String(), "Path to PO file") {
		t.Fatalf("path prompt missing: %q", out.String())
	}
}

func TestSessionStatsAndExit(t *testing.T) {
	sess, out := newTestSession(t, "1\n6\n")

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Total entries: 3") {
		t.Fatalf("stats missing from output:\n%s", text)
	}
	if !strings.Contains(text, "Untranslated: 2") {
		t.Fatalf("pending count missing:\n%s", text)
	}
}

func TestSessionShowUntranslated(t *testing.T) {
	sess, out := newTestSession(t, "2\n\n6\n")

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Hello") || !strings.Contains(text, "%d file") {
		t.Fatalf("untranslated entries missing:\n%s", text)
	}
}

func TestSessionTranslateSaveExit(t *testing.T) {
	// 3 = translate (all), 5 = save, 6 = exit.
	sess, out := newTestSession(t, "3\n\n5\n6\n")
	fake := &fakeClient{}
	sess.client = fake

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if fake.calls != 2 {
		t.Fatalf("client calls = %d, want 2", fake.calls)
	}

	saved, err := os.ReadFile(sess.cat.Path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(saved)
	if !strings.Contains(content, `msgstr "T:Hello"`) {
		t.Fatalf("singular translation not saved:\n%s", content)
	}
	if !strings.Contains(content, `msgstr[2] "T2:%d file"`) {
		t.Fatalf("plural translation not saved:\n%s", content)
	}

	// Save wrote a backup of the original file alongside it.
	if sess.cat.LastBackup == "" {
		t.Fatal("no backup recorded")
	}
	backup, err := os.ReadFile(sess.cat.LastBackup)
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != sessionCatalog {
		t.Fatal("backup does not match the original file")
	}
	if !strings.Contains(out.String(), "Saved") {
		t.Fatalf("save confirmation missing:\n%s", out.String())
	}
}

func TestSessionExitPromptsOnUnsavedChanges(t *testing.T) {
	// Translate, then exit answering "y" to the save prompt.
	sess, out := newTestSession(t, "3\n\n6\ny\n")
	sess.client = &fakeClient{}

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "unsaved changes") {
		t.Fatalf("unsaved-changes prompt missing:\n%s", out.String())
	}

	saved, err := os.ReadFile(sess.cat.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(saved), `msgstr "T:Hello"`) {
		t.Fatal("changes not saved after confirming at exit")
	}
}

func TestSessionReportsErrorAndContinues(t *testing.T) {
	sess, out := newTestSession(t, "3\n\n6\n")
	sess.client = &fakeClient{fail: &translator.APIError{StatusCode: 500, Reason: "boom"}}

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// The failure is reported, the session does not abort, and nothing
	// was translated.
	if !strings.Contains(out.String(), "Goodbye") {
		t.Fatalf("session did not reach exit:\n%s", out.String())
	}
	if got := len(sess.cat.Modified()); got != 0 {
		t.Fatalf("Modified() = %d entries, want 0", got)
	}
}

func TestSessionReviewAndEdit(t *testing.T) {
	// Translate everything, then fix entry 1 by hand and exit without
	// saving ("n" at the prompt).
	sess, out := newTestSession(t, "3\n\n4\n1\nПривет!\n6\nn\n")
	sess.client = &fakeClient{}

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "T:Hello") {
		t.Fatalf("review listing missing:\n%s", out.String())
	}

	var hello *catalog.Entry
	for _, e := range sess.cat.Entries {
		if e.MsgID == "Hello" {
			hello = e
		}
	}
	if hello.MsgStr != "Привет!" {
		t.Fatalf("edited translation = %q, want Привет!", hello.MsgStr)
	}

	// Nothing was written to disk.
	onDisk, err := os.ReadFile(sess.cat.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != sessionCatalog {
		t.Fatal("file changed although the save was declined")
	}
}

func TestSessionTranslateZeroCancels(t *testing.T) {
	// 3 = translate, 0 at the count prompt cancels the action.
	sess, _ := newTestSession(t, "3\n0\n6\n")
	fake := &fakeClient{}
	sess.client = fake

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("client calls = %d, want 0 after cancel", fake.calls)
	}
	if got := len(sess.cat.Modified()); got != 0 {
		t.Fatalf("Modified() = %d entries, want 0 after cancel", got)
	}
}

func TestSessionInvalidChoice(t *testing.T) {
	sess, out := newTestSession(t, "9\n6\n")

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid choice") {
		t.Fatalf("invalid-choice message missing:\n%s", out.String())
	}
}

func TestTranslateEntriesKeepsCompletedWorkOnError(t *testing.T) {
	cat, err := catalog.Load(writeSessionCatalog(t))
	if err != nil {
		t.Fatal(err)
	}
	pending := cat.Pending()

	// Fail on the second call: the first translation must survive.
	fake := &failAfter{n: 1}
	done, err := translateEntries(context.Background(), fake, cat, pending, "en", "ru")
	if err == nil {
		t.Fatal("expected an error from the second entry")
	}
	if done != 1 {
		t.Fatalf("done = %d, want 1", done)
	}
	if pending[0].MsgStr == "" {
		t.Fatal("first translation lost on error")
	}
}

// failAfter succeeds n times, then returns a rate limit error.
type failAfter struct {
	n     int
	calls int
}

func (f *failAfter) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.calls++
	if f.calls > f.n {
		return "", &translator.RateLimitError{}
	}
	return "ok:" + text, nil
}

func (f *failAfter) TranslatePlural(_ context.Context, singular, _, _, _ string, nplurals int) ([]string, error) {
	f.calls++
	if f.calls > f.n {
		return nil, &translator.RateLimitError{}
	}
	forms := make([]string, nplurals)
	for i := range forms {
		forms[i] = "ok:" + singular
	}
	return forms, nil
}
