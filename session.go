package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/openlocalize/potool/catalog"
	"github.com/openlocalize/potool/config"
	"github.com/openlocalize/potool/i18n"
	"github.com/openlocalize/potool/translator"
)

// Session is one interactive run over a single catalog. It owns the loaded
// catalog and the translation client; nothing here touches global state, so
// tests can drive a session through any reader/writer pair.
type Session struct {
	cfg config.Config
	cat *catalog.Catalog

	// client is created lazily on the first translate action so that
	// browsing a catalog never requires an API key.
	client translator.Client

	in  *bufio.Reader
	out io.Writer
}

// NewSession loads the configured catalog, prompting for a path when none
// is configured.
func NewSession(cfg config.Config, in io.Reader, out io.Writer) (*Session, error) {
	s := &Session{
		cfg: cfg,
		in:  bufio.NewReader(in),
		out: out,
	}

	path := cfg.FilePath
	if path == "" {
		var err error
		path, err = s.prompt(i18n.T("Path to PO file: "))
		if err != nil {
			return nil, err
		}
		if path == "" {
			return nil, errors.New("no catalog file given")
		}
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	cat.BackupDir = cfg.BackupDir
	s.cat = cat

	slog.Info("session started", "file", path, "entries", len(cat.Entries))
	return s, nil
}

// Run shows the menu until the user exits or the context is cancelled.
// Action errors are reported and the menu is shown again.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, i18n.T("Translation session: %s")+"\n", s.cat.Path)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.prompt(i18n.T("Select an option (1-6): "))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			s.showStats()
		case "2":
			err = s.showUntranslated()
		case "3":
			err = s.translatePending(ctx)
		case "4":
			err = s.reviewChanges()
		case "5":
			err = s.save()
		case "6":
			done, exitErr := s.exit()
			if exitErr != nil {
				err = exitErr
			} else if done {
				return nil
			}
		default:
			fmt.Fprintln(s.out, i18n.T("Invalid choice, enter a number from 1 to 6."))
		}

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logError(i18n.T("Translation failed: %v"), err)
			slog.Error("action failed", "choice", choice, "err", err)
		}
	}
}

func (s *Session) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, i18n.T("1. Show statistics"))
	fmt.Fprintln(s.out, i18n.T("2. Show untranslated entries"))
	fmt.Fprintln(s.out, i18n.T("3. Translate untranslated entries"))
	fmt.Fprintln(s.out, i18n.T("4. Review unsaved changes"))
	fmt.Fprintln(s.out, i18n.T("5. Save file"))
	fmt.Fprintln(s.out, i18n.T("6. Exit"))
}

// prompt prints a question and reads one trimmed line.
func (s *Session) prompt(question string) (string, error) {
	fmt.Fprint(s.out, question)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptCount reads an optional entry count. Empty or invalid input means
// all, 0 cancels the action.
func (s *Session) promptCount(question string, max int) (int, error) {
	answer, err := s.prompt(i18n.T(question))
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(answer)
	if answer == "" || convErr != nil {
		return max, nil
	}
	if n <= 0 {
		return 0, nil
	}
	if n > max {
		n = max
	}
	return n, nil
}

func (s *Session) showStats() {
	st := s.cat.Stats()
	pct := 0.0
	if st.Total > 0 {
		pct = float64(st.Translated) * 100 / float64(st.Total)
	}
	fmt.Fprintf(s.out, i18n.T("Total entries: %d")+"\n", st.Total)
	fmt.Fprintf(s.out, i18n.T("Translated: %d (%.1f%%)")+"\n", st.Translated, pct)
	fmt.Fprintf(s.out, i18n.T("Fuzzy: %d")+"\n", st.Fuzzy)
	fmt.Fprintf(s.out, i18n.T("Untranslated: %d")+"\n", st.Pending)
}

func (s *Session) showUntranslated() error {
	pending := s.cat.Pending()
	if len(pending) == 0 {
		fmt.Fprintln(s.out, i18n.T("No untranslated entries."))
		return nil
	}
	fmt.Fprintf(s.out, i18n.N("Found %d untranslated entry", "Found %d untranslated entries", len(pending))+"\n", len(pending))

	n, err := s.promptCount("How many entries to show? (Enter for all, 0 to cancel): ", len(pending))
	if err != nil || n == 0 {
		return err
	}
	for i, e := range pending[:n] {
		fmt.Fprintf(s.out, "%3d. %s\n", i+1, color.New(color.FgCyan).Sprint(e.MsgID))
		if e.MsgIDPlural != "" {
			fmt.Fprintf(s.out, "     (plural: %s)\n", e.MsgIDPlural)
		}
	}
	return nil
}

func (s *Session) translatePending(ctx context.Context) error {
	pending := s.cat.Pending()
	if len(pending) == 0 {
		fmt.Fprintln(s.out, i18n.T("No untranslated entries."))
		return nil
	}
	fmt.Fprintf(s.out, i18n.N("Found %d untranslated entry", "Found %d untranslated entries", len(pending))+"\n", len(pending))

	n, err := s.promptCount("How many entries to translate? (Enter for all, 0 to cancel): ", len(pending))
	if err != nil || n == 0 {
		return err
	}

	if s.client == nil {
		s.client, err = newClient(s.cfg)
		if err != nil {
			return err
		}
	}
	target, err := targetLang(s.cfg, s.cat)
	if err != nil {
		return err
	}

	done, err := translateEntries(ctx, s.client, s.cat, pending[:n], s.cfg.SourceLang, target)
	if done > 0 {
		fmt.Fprintf(s.out, i18n.N("Translated %d entry", "Translated %d entries", done)+"\n", done)
	}
	return err
}

// reviewChanges lists unsaved entries and lets the user fix a translation
// by number before saving.
func (s *Session) reviewChanges() error {
	modified := s.cat.Modified()
	if len(modified) == 0 {
		fmt.Fprintln(s.out, i18n.T("No unsaved changes."))
		return nil
	}
	for i, e := range modified {
		fmt.Fprintf(s.out, "%3d. %s\n", i+1, e.MsgID)
		if e.MsgIDPlural != "" {
			for _, form := range e.PluralForms() {
				fmt.Fprintf(s.out, "     → %s\n", color.New(color.FgGreen).Sprint(form))
			}
			continue
		}
		fmt.Fprintf(s.out, "     → %s\n", color.New(color.FgGreen).Sprint(e.MsgStr))
	}

	answer, err := s.prompt(i18n.T("Enter a number to edit (Enter to go back): "))
	if err != nil || answer == "" {
		return err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 1 || n > len(modified) {
		return nil
	}
	return s.editEntry(modified[n-1])
}

// editEntry reads a replacement translation; empty input keeps the current
// one.
func (s *Session) editEntry(e *catalog.Entry) error {
	if e.MsgIDPlural == "" {
		text, err := s.prompt(i18n.T("New translation (Enter to keep): "))
		if err != nil {
			return err
		}
		if text != "" {
			s.cat.ApplyTranslation(e, text)
		}
		return nil
	}

	forms := e.PluralForms()
	for i := range forms {
		form, err := s.prompt(fmt.Sprintf(i18n.T("Form %d (Enter to keep): "), i))
		if err != nil {
			return err
		}
		if form != "" {
			forms[i] = form
		}
	}
	s.cat.ApplyPluralTranslation(e, forms, len(forms))
	return nil
}

func (s *Session) save() error {
	if err := s.cat.Save("", true); err != nil {
		return err
	}
	if s.cat.LastBackup != "" {
		fmt.Fprintf(s.out, i18n.T("Backup written to %s")+"\n", s.cat.LastBackup)
	}
	fmt.Fprintf(s.out, i18n.T("Saved %s")+"\n", s.cat.Path)
	slog.Info("catalog saved", "path", s.cat.Path)
	return nil
}

// exit returns true when the session should end.
func (s *Session) exit() (bool, error) {
	if len(s.cat.Modified()) > 0 {
		answer, err := s.prompt(i18n.T("You have unsaved changes. Save before exiting? [y/N]: "))
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
			if err := s.save(); err != nil {
				return false, err
			}
		}
	}
	fmt.Fprintln(s.out, i18n.T("Goodbye."))
	return true, nil
}

// ---------------------------------------------------------------------------
// Translation loop (shared by the session and the translate subcommand)
// ---------------------------------------------------------------------------

// translateEntries translates entries one at a time, applying each result to
// the catalog as it arrives. It returns how many entries were translated;
// on error the completed translations are kept so they can still be saved.
func translateEntries(ctx context.Context, client translator.Client, cat *catalog.Catalog, entries []*catalog.Entry, sourceLang, target string) (int, error) {
	nplurals := cat.NPlurals(target)

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetDescription("translating"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	done := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		if e.MsgIDPlural != "" {
			forms, err := client.TranslatePlural(ctx, e.MsgID, e.MsgIDPlural, sourceLang, target, nplurals)
			if err != nil {
				return done, describeAPIError(err)
			}
			cat.ApplyPluralTranslation(e, forms, nplurals)
		} else {
			text, err := client.Translate(ctx, e.MsgID, sourceLang, target)
			if err != nil {
				return done, describeAPIError(err)
			}
			cat.ApplyTranslation(e, text)
		}

		done++
		bar.Add(1)
		slog.Debug("entry translated", "msgid", e.MsgID)
	}

	bar.Finish()
	return done, nil
}

// describeAPIError adds user-facing advice for rate limits.
func describeAPIError(err error) error {
	var rle *translator.RateLimitError
	if errors.As(err, &rle) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(i18n.T("Rate limit reached, try again in %s."), rle.RetryAfter), err)
	}
	return err
}
