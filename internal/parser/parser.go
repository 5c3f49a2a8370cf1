package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSentinel marks the end of the field region in ProjectStaticSetupStruct.h.
const DefaultSentinel = "UnusedVariables[SETUP_DATA_UNUSED_ELEMENTS];"

// ErrMalformedDeclaration is wrapped by every DeclarationError.
var ErrMalformedDeclaration = errors.New("malformed declaration")

// Kind classifies a single source line.
type Kind int

const (
	KindBlankOrComment Kind = iota
	KindSentinel
	KindDeclaration
	KindVerbatimTail
)

func (k Kind) String() string {
	switch k {
	case KindBlankOrComment:
		return "blank-or-comment"
	case KindSentinel:
		return "sentinel"
	case KindDeclaration:
		return "declaration"
	case KindVerbatimTail:
		return "verbatim-tail"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Line is one classified source line. Type, Name and Comment are only set for declarations.
type Line struct {
	Kind    Kind
	Number  int    // 1-based line number
	Raw     string // The line exactly as read, without its line ending
	Type    string // Width keyword, e.g. "UINT16"
	Name    string // Name token, e.g. "SomeField[2]"
	Comment string // Everything after the name token, including its "//"
	Size    uint32 // Total bytes, see FieldSize
}

// HasComment reports whether the declaration carried trailing text.
func (l Line) HasComment() bool {
	return l.Comment != ""
}

// DeclarationError describes a field line that cannot be sized.
type DeclarationError struct {
	Line   int
	Text   string
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("line %d: %s: %s: %q", e.Line, ErrMalformedDeclaration, e.Reason, e.Text)
}

func (e *DeclarationError) Unwrap() error {
	return ErrMalformedDeclaration
}

// Parser classifies the lines of a struct file in order. It stops recognising
// declarations once the sentinel line has been seen.
type Parser struct {
	sentinel string
	scanning bool
	lineNo   int
}

// New returns a Parser that ends the field region at the first line containing sentinel.
// An empty sentinel selects DefaultSentinel.
func New(sentinel string) *Parser {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	return &Parser{sentinel: sentinel, scanning: true}
}

// Scanning reports whether the sentinel has not been reached yet.
func (p *Parser) Scanning() bool {
	return p.scanning
}

// Classify consumes the next raw line of the file.
func (p *Parser) Classify(raw string) (Line, error) {
	p.lineNo++
	line := Line{Number: p.lineNo, Raw: raw}

	if !p.scanning {
		line.Kind = KindVerbatimTail
		return line, nil
	}

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "//"):
		line.Kind = KindBlankOrComment
		return line, nil
	case strings.Contains(trimmed, p.sentinel):
		line.Kind = KindSentinel
		p.scanning = false
		return line, nil
	}

	typ, name, rest := splitDeclaration(trimmed)
	if name == "" {
		return Line{}, &DeclarationError{Line: p.lineNo, Text: raw, Reason: "missing field name"}
	}
	size, err := FieldSize(typ, name)
	if err != nil {
		return Line{}, &DeclarationError{Line: p.lineNo, Text: raw, Reason: err.Error()}
	}

	line.Kind = KindDeclaration
	line.Type = typ
	line.Name = name
	line.Comment = rest
	line.Size = size
	return line, nil
}

// splitDeclaration splits s into at most three whitespace-separated parts.
// The third part is the untouched remainder of the line.
func splitDeclaration(s string) (typ, name, rest string) {
	typ, s = nextToken(s)
	name, s = nextToken(s)
	rest = strings.TrimSpace(s)
	return typ, name, rest
}

func nextToken(s string) (token, remainder string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// BaseSize maps a width keyword to its size in bytes. Unknown keywords count as one byte.
func BaseSize(typ string) uint32 {
	switch typ {
	case "UINT16":
		return 2
	case "UINT32":
		return 4
	default: // UINT8
		return 1
	}
}

var arrayRe = regexp.MustCompile(`\[([^\]]*)\]`)

// ArrayLength returns the element count of an arrayed name such as "Foo[12];".
// ok is false when the name carries no [N] suffix.
func ArrayLength(name string) (n uint32, ok bool, err error) {
	if !strings.Contains(name, "[") || !strings.Contains(name, "]") {
		return 0, false, nil
	}
	matches := arrayRe.FindStringSubmatch(name)
	if matches == nil {
		return 0, true, fmt.Errorf("invalid array suffix in %s", name)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(matches[1]), 10, 32)
	if err != nil {
		return 0, true, fmt.Errorf("invalid array length %q in %s", matches[1], name)
	}
	return uint32(v), true, nil
}

// FieldSize returns the total footprint of a declaration. It fails when the footprint
// does not fit in 32 bits.
func FieldSize(typ, name string) (uint32, error) {
	size := uint64(BaseSize(typ))
	n, ok, err := ArrayLength(name)
	if err != nil {
		return 0, err
	}
	if ok {
		size *= uint64(n)
	}
	if size > math.MaxUint32 {
		return 0, fmt.Errorf("size of %s overflows 32 bits", name)
	}
	return uint32(size), nil
}
