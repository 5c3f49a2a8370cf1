package reconcile

import (
	"fmt"
	"strings"

	"setupdata/internal/parser"
	"setupdata/pkg/setupvar"
)

// Column widths of a formatted declaration: the type keyword starts at column 2,
// the name at column 11 and the comment at column 56.
const (
	typeWidth = 8
	nameWidth = 44
)

// Format renders a declaration in the house style. note, if not empty, follows the offset.
func Format(typ, name string, offset uint32, note string) string {
	comment := "// " + setupvar.FormatOffset(offset)
	if note != "" {
		comment += ", " + note
	}
	return fmt.Sprintf("  %-*s %-*s %s", typeWidth, typ, nameWidth, name, comment)
}

// Declaration returns the output text for a declaration line placed at v, and whether
// it differs from the original line. A line whose comment already starts with the
// correct offset is returned untouched.
func Declaration(decl parser.Line, v setupvar.SetupVariable) (string, bool) {
	if !decl.HasComment() {
		return Format(decl.Type, decl.Name, v.Offset, ""), true
	}

	want := v.HexOffset()
	comment := decl.Comment

	idx := strings.Index(comment, "0x")
	if idx < 0 {
		note := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
		return Format(decl.Type, decl.Name, v.Offset, note), true
	}

	end := min(idx+len(want), len(comment))
	if comment[idx:end] == want {
		return decl.Raw, false
	}

	return Format(decl.Type, decl.Name, v.Offset, stripOffset(comment, idx)), true
}

// stripOffset removes the hex token at idx and the "//" introducing it, returning the
// free text that remains.
func stripOffset(comment string, idx int) string {
	end := idx + 2
	for end < len(comment) && isHexDigit(comment[end]) {
		end++
	}

	before := strings.TrimSpace(comment[:idx])
	before = strings.TrimSpace(strings.TrimSuffix(before, "//"))
	before = strings.TrimSpace(strings.TrimPrefix(before, "//"))
	after := strings.TrimLeft(comment[end:], ", \t")
	after = strings.TrimRight(after, " \t")

	switch {
	case before == "":
		return after
	case after == "":
		return before
	}
	return before + " " + after
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
