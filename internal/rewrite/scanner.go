package rewrite

import (
	"bufio"
	"bytes"
)

const maxLineSize = 1 << 20

// ScannerRewriter implements LineRewriter using bufio.Scanner.
// Copied lines keep their own line ending. Replaced lines end with the line ending of
// the source's first line, or with none if the original line had none.
type ScannerRewriter struct {
	scanner  *bufio.Scanner
	output   bytes.Buffer
	lineNo   int    // how many lines have been consumed (scanned) so far
	finished bool   // true once we've reached EOF
	newline  string // "\n" or "\r\n"
}

// NewScannerRewriter constructs a ScannerRewriter over the full file content.
func NewScannerRewriter(content []byte) *ScannerRewriter {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanRawLines)
	return &ScannerRewriter{
		scanner: scanner,
		newline: DetectNewline(content),
	}
}

// scanRawLines is bufio.ScanLines without dropping the line ending.
func scanRawLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// splitEnding splits a raw line into its text and its line ending.
func splitEnding(raw []byte) (text, ending []byte) {
	n := len(raw)
	if n > 0 && raw[n-1] == '\n' {
		n--
		if n > 0 && raw[n-1] == '\r' {
			n--
		}
	} else if n > 0 && raw[n-1] == '\r' {
		n--
	}
	return raw[:n], raw[n:]
}

// DetectNewline returns "\r\n" if the first line of content ends with CRLF, "\n" otherwise.
func DetectNewline(content []byte) string {
	i := bytes.IndexByte(content, '\n')
	if i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func (rw *ScannerRewriter) Scan() bool {
	if rw.finished {
		return false
	}
	if !rw.scanner.Scan() {
		rw.finished = true
		return false
	}
	rw.lineNo++
	return true
}

func (rw *ScannerRewriter) Text() string {
	text, _ := splitEnding(rw.scanner.Bytes())
	return string(text)
}

// LineNo returns the 1-based number of the current line.
func (rw *ScannerRewriter) LineNo() int {
	return rw.lineNo
}

func (rw *ScannerRewriter) CopyLine() {
	rw.output.Write(rw.scanner.Bytes())
}

func (rw *ScannerRewriter) ReplaceLine(newLine string) {
	rw.output.WriteString(newLine)
	if _, ending := splitEnding(rw.scanner.Bytes()); bytes.IndexByte(ending, '\n') >= 0 {
		rw.output.WriteString(rw.newline)
	}
}

// CopyRemainingLines writes all lines from the current scanner position through EOF.
func (rw *ScannerRewriter) CopyRemainingLines() error {
	for rw.Scan() {
		rw.CopyLine()
	}
	return rw.scanner.Err()
}

func (rw *ScannerRewriter) Err() error {
	return rw.scanner.Err()
}

func (rw *ScannerRewriter) Bytes() []byte {
	return rw.output.Bytes()
}
