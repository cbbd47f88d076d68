package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Catalog is a parsed PO file plus the bookkeeping needed to track unsaved
// changes. Entry order is preserved from load to save. A catalog is owned by
// a single session; the file on disk is assumed to have no other writers.
type Catalog struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries are the translatable messages, in file order.
	Entries []*Entry
	// Path is the file the catalog was loaded from.
	Path string
	// BackupDir is where Save places backups. Empty means alongside Path.
	BackupDir string
	// LastBackup is the path of the most recent backup written by Save.
	LastBackup string

	// baseline records each entry's translation at load/last-save time,
	// so Modified can report unsaved edits.
	baseline map[*Entry]string
}

// Load parses the PO file at path. Returns *NotFoundError if the file does
// not exist and *ParseError if it is not valid PO.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	c, err := parse(f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	c.Path = path
	c.snapshot()
	return c, nil
}

// snapshot records the current translations as the saved state.
func (c *Catalog) snapshot() {
	c.baseline = make(map[*Entry]string, len(c.Entries))
	for _, e := range c.Entries {
		c.baseline[e] = e.translationKey()
	}
}

// Pending returns the entries that still need a translation, in catalog
// order. The list is recomputed from current state on every call.
func (c *Catalog) Pending() []*Entry {
	var pending []*Entry
	for _, e := range c.Entries {
		if e.Pending() && !e.IsFuzzy() {
			pending = append(pending, e)
		}
	}
	return pending
}

// Modified returns entries whose translation changed since load or the last
// successful save, in catalog order.
func (c *Catalog) Modified() []*Entry {
	var modified []*Entry
	for _, e := range c.Entries {
		if saved, ok := c.baseline[e]; !ok || saved != e.translationKey() {
			modified = append(modified, e)
		}
	}
	return modified
}

// ApplyTranslation sets the entry's translation and clears the fuzzy flag.
func (c *Catalog) ApplyTranslation(e *Entry, text string) {
	e.MsgStr = text
	e.SetFuzzy(false)
}

// ApplyPluralTranslation sets all plural forms of the entry's translation.
// Missing trailing forms are padded with the last provided one.
func (c *Catalog) ApplyPluralTranslation(e *Entry, forms []string, nplurals int) {
	if e.MsgStrPlural == nil {
		e.MsgStrPlural = make(map[int]string)
	}
	for i := 0; i < nplurals; i++ {
		form := ""
		if i < len(forms) {
			form = forms[i]
		} else if len(forms) > 0 {
			form = forms[len(forms)-1]
		}
		e.MsgStrPlural[i] = form
	}
	e.SetFuzzy(false)
}

// Save serializes the catalog to path. When backup is true and a file
// already exists at path, it is first copied to a timestamped backup; if
// that copy fails the save is aborted and the target file is left intact.
// On success the unsaved-changes baseline is reset.
func (c *Catalog) Save(path string, backup bool) error {
	if path == "" {
		path = c.Path
	}

	if backup {
		if _, err := os.Stat(path); err == nil {
			backupPath, err := c.writeBackup(path)
			if err != nil {
				return err
			}
			c.LastBackup = backupPath
		}
	}

	c.SetHeaderField("PO-Revision-Date", time.Now().UTC().Format("2006-01-02 15:04+0000"))

	out, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := c.write(out); err != nil {
		out.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	c.Path = path
	c.snapshot()
	return nil
}

// writeBackup copies the file at path to a timestamped sibling (or to
// BackupDir when set) and returns the backup path.
func (c *Catalog) writeBackup(path string) (string, error) {
	dir := c.BackupDir
	if dir == "" {
		dir = filepath.Dir(path)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &IOError{Op: "backup", Path: dir, Err: err}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(dir, fmt.Sprintf("%s_%s.po", stem, stamp))

	src, err := os.Open(path)
	if err != nil {
		return "", &IOError{Op: "backup", Path: path, Err: err}
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", &IOError{Op: "backup", Path: backupPath, Err: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(backupPath) // do not leave a partial backup behind
		return "", &IOError{Op: "backup", Path: backupPath, Err: err}
	}
	if err := dst.Close(); err != nil {
		os.Remove(backupPath)
		return "", &IOError{Op: "backup", Path: backupPath, Err: err}
	}

	return backupPath, nil
}

// Stats summarizes the catalog's translation progress.
type Stats struct {
	Total      int
	Translated int
	Fuzzy      int
	Pending    int
}

// Percent returns the translated share in percent, rounded down.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Translated * 100 / s.Total
}

// Stats counts translated, fuzzy, and pending entries. Obsolete entries and
// the header are excluded.
func (c *Catalog) Stats() Stats {
	var s Stats
	for _, e := range c.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		s.Total++
		switch {
		case e.IsFuzzy():
			s.Fuzzy++
		case e.Pending():
			s.Pending++
		default:
			s.Translated++
		}
	}
	return s
}

// HeaderField returns a header field value by name (case-insensitive).
func (c *Catalog) HeaderField(name string) string {
	if c.Header == nil {
		return ""
	}
	for _, line := range strings.Split(c.Header.MsgStr, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// SetHeaderField sets a header field, appending it if not present.
func (c *Catalog) SetHeaderField(name, value string) {
	if c.Header == nil {
		c.Header = &Entry{}
	}

	lines := strings.Split(c.Header.MsgStr, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				lines[i] = name + ": " + value
				c.Header.MsgStr = strings.Join(lines, "\n")
				return
			}
		}
	}

	// Insert before the trailing empty line, keeping the final newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = append(lines[:len(lines)-1], name+": "+value, "")
	} else {
		lines = append(lines, name+": "+value)
	}
	c.Header.MsgStr = strings.Join(lines, "\n")
}

// Language returns the catalog's target language from the Language header.
func (c *Catalog) Language() string {
	return c.HeaderField("Language")
}

// Write serializes the catalog to w without touching the file on disk.
func (c *Catalog) Write(w io.Writer) error {
	return c.write(w)
}

// Parse reads a PO catalog from r. Most callers want Load instead.
func Parse(r io.Reader) (*Catalog, error) {
	c, err := parse(r)
	if err != nil {
		return nil, err
	}
	c.snapshot()
	return c, nil
}
