// Package frontmatter reads and writes markdown documents that carry a
// metadata block between --- delimiter lines.
//
// The block is treated as an ordered, opaque sequence of key/value lines.
// Only the title key is ever interpreted; all other lines pass through
// untouched, in their original order.
package frontmatter

import (
	"strings"
)

// Delimiter is the line that opens and closes a frontmatter block.
const Delimiter = "---"

// Split separates a document into its raw frontmatter and body. A document
// that does not open with a delimiter line, or that never closes the block,
// has no frontmatter: the whole document is returned as body.
func Split(doc string) (fm string, body string) {
	lines := splitLines(doc)
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return "", doc
	}

	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			fm = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, " \t\r\n")
		}
	}

	return "", doc
}

// Join re-emits the canonical document form: a delimited frontmatter block
// followed by the body. The block is always present, even when fm is empty.
func Join(fm, body string) string {
	var b strings.Builder
	b.WriteString(Delimiter)
	b.WriteByte('\n')
	b.WriteString(fm)
	b.WriteByte('\n')
	b.WriteString(Delimiter)
	b.WriteByte('\n')
	b.WriteString(strings.TrimLeft(body, " \t\r\n"))
	return b.String()
}

// MergeTitle replaces the value of an existing title line in fm, or appends a
// new one. Other lines are preserved byte-for-byte, in order. The new value
// is double-quoted with embedded quotes escaped. Merging the same title twice
// is a no-op the second time.
func MergeTitle(fm, title string) string {
	line := titleLine(title)

	lines := splitLines(fm)
	for i, l := range lines {
		if isTitleLine(l) {
			lines[i] = line
			return strings.Join(lines, "\n")
		}
	}

	if fm == "" {
		return line
	}
	return fm + "\n" + line
}

// ExtractTitle pulls the title value out of a frontmatter-wrapped document.
// The match is case-insensitive and accepts optional single or double quotes
// around the value. Returns "" when the document has no opening delimiter or
// no title line.
func ExtractTitle(doc string) string {
	lines := splitLines(doc)
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return ""
	}

	for _, l := range lines[1:] {
		if isDelimiter(l) {
			break
		}
		if isTitleLine(l) {
			v := strings.TrimSpace(l[len("title:"):])
			v = strings.Trim(v, `"'`)
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// HasFrontmatter reports whether the document opens with a delimiter line.
// Such documents are written verbatim on create rather than re-wrapped.
func HasFrontmatter(doc string) bool {
	return strings.HasPrefix(doc, Delimiter)
}

func titleLine(title string) string {
	v := strings.ReplaceAll(title, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `title: "` + v + `"`
}

func isTitleLine(line string) bool {
	if len(line) < len("title:") {
		return false
	}
	return strings.EqualFold(line[:len("title:")], "title:")
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}

// splitLines splits on \n and drops a trailing \r from each line, so CRLF
// input behaves like LF input.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
