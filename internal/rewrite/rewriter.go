package rewrite

// LineRewriter walks a source text one line at a time and builds the rewritten text.
type LineRewriter interface {
	// Scan advances to the next original line. It returns false at EOF or on a read error.
	Scan() bool

	// Text returns the current original line, without its line ending.
	Text() string

	// CopyLine writes the current original line unchanged.
	CopyLine()

	// ReplaceLine writes newLine in place of the current original line.
	ReplaceLine(newLine string)

	// CopyRemainingLines writes all leftover original lines (from the current position to EOF).
	CopyRemainingLines() error

	// Err returns the first read error, if any.
	Err() error

	// Bytes returns the fully rewritten buffer.
	Bytes() []byte
}
