// Package catalog implements loading, mutation, and saving of gettext PO
// translation catalogs. The codec follows the GNU gettext file grammar;
// the store layer on top tracks pending entries and writes timestamped
// backups before overwriting a catalog on disk.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// parse reads a PO catalog from a reader. Entries are kept in file order.
func parse(r io.Reader) (*Catalog, error) {
	c := &Catalog{Header: &Entry{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var current *Entry
	var lastKey string // msgid/msgstr/... that a continuation line extends
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if current.MsgID == "" && !current.Obsolete {
			c.Header = current
		} else {
			c.Entries = append(c.Entries, current)
		}
		current = nil
		lastKey = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		// An obsolete marker with no payload carries no content.
		if strings.TrimSpace(line) == "#~" {
			continue
		}

		if current == nil {
			current = &Entry{MsgStrPlural: make(map[int]string)}
		}

		if strings.HasPrefix(line, "#~ ") {
			current.Obsolete = true
			line = line[3:]
		}

		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#~") {
			switch {
			case strings.HasPrefix(line, "#:"):
				current.References = append(current.References, strings.TrimSpace(line[2:]))
			case strings.HasPrefix(line, "#,"):
				for _, flag := range strings.Split(strings.TrimSpace(line[2:]), ",") {
					if flag = strings.TrimSpace(flag); flag != "" {
						current.Flags = append(current.Flags, flag)
					}
				}
			case strings.HasPrefix(line, "#."):
				current.ExtractedComments = append(current.ExtractedComments, strings.TrimSpace(line[2:]))
			case strings.HasPrefix(line, "#|"):
				prev := strings.TrimSpace(line[2:])
				if strings.HasPrefix(prev, "msgid ") {
					current.PreviousMsgID = unquote(strings.TrimPrefix(prev, "msgid "))
				}
			default:
				comment := strings.TrimPrefix(line[1:], " ")
				current.TranslatorComments = append(current.TranslatorComments, comment)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "msgctxt "):
			current.MsgCtxt = unquote(strings.TrimPrefix(line, "msgctxt "))
			lastKey = "msgctxt"

		case strings.HasPrefix(line, "msgid_plural "):
			current.MsgIDPlural = unquote(strings.TrimPrefix(line, "msgid_plural "))
			lastKey = "msgid_plural"

		case strings.HasPrefix(line, "msgid "):
			current.MsgID = unquote(strings.TrimPrefix(line, "msgid "))
			lastKey = "msgid"

		case strings.HasPrefix(line, "msgstr["):
			var idx int
			if n, err := fmt.Sscanf(line, "msgstr[%d]", &idx); err != nil || n != 1 {
				return nil, &ParseError{Line: lineNum, Reason: "invalid msgstr index: " + line}
			}
			bracketEnd := strings.Index(line, "] ")
			if bracketEnd < 0 {
				return nil, &ParseError{Line: lineNum, Reason: "invalid msgstr format: " + line}
			}
			current.MsgStrPlural[idx] = unquote(line[bracketEnd+2:])
			lastKey = fmt.Sprintf("msgstr[%d]", idx)

		case strings.HasPrefix(line, "msgstr "):
			current.MsgStr = unquote(strings.TrimPrefix(line, "msgstr "))
			lastKey = "msgstr"

		case strings.HasPrefix(line, "\""):
			val := unquote(line)
			switch {
			case lastKey == "msgctxt":
				current.MsgCtxt += val
			case lastKey == "msgid":
				current.MsgID += val
			case lastKey == "msgid_plural":
				current.MsgIDPlural += val
			case lastKey == "msgstr":
				current.MsgStr += val
			case strings.HasPrefix(lastKey, "msgstr["):
				var idx int
				fmt.Sscanf(lastKey, "msgstr[%d]", &idx)
				current.MsgStrPlural[idx] += val
			}

		default:
			return nil, &ParseError{Line: lineNum, Reason: "unrecognized line: " + line}
		}
	}

	flush()

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	return c, nil
}

// write serializes the catalog in gettext PO format: header first, then
// entries in their original order, separated by blank lines.
func (c *Catalog) write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if c.Header != nil {
		writeEntry(bw, c.Header)
	}
	for _, e := range c.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}

	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, cm := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", cm)
	}
	for _, cm := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", cm)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	if e.MsgCtxt != "" {
		writeQuotedField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeQuotedField(w, prefix+"msgid", e.MsgID)
	if e.MsgIDPlural != "" {
		writeQuotedField(w, prefix+"msgid_plural", e.MsgIDPlural)
	}

	if e.MsgIDPlural != "" && len(e.MsgStrPlural) > 0 {
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			writeQuotedField(w, fmt.Sprintf("%smsgstr[%d]", prefix, idx), e.MsgStrPlural[idx])
		}
	} else {
		writeQuotedField(w, prefix+"msgstr", e.MsgStr)
	}
}

// writeQuotedField writes a PO field, splitting multiline values the way
// msgcat does: an empty string on the field line, then one quoted segment
// per source line.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				out.WriteByte('\n')
				i++
			case 't':
				out.WriteByte('\t')
				i++
			case '\\':
				out.WriteByte('\\')
				i++
			case '"':
				out.WriteByte('"')
				i++
			default:
				out.WriteByte(s[i])
			}
		} else {
			out.WriteByte(s[i])
		}
	}
	return out.String()
}
