package rewrite

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"setupdata/internal/layout"
	"setupdata/internal/parser"
	"setupdata/internal/reconcile"
	"setupdata/pkg/setupvar"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures a rewrite pass.
type Options struct {
	Sentinel string       // End-of-fields marker; empty selects parser.DefaultSentinel
	Logger   *slog.Logger // Optional
}

// Change records one declaration line that the pass rewrote.
type Change struct {
	Line       int    `json:"line"`
	FieldIndex int    `json:"field_index"` // Index into Result.Fields
	Field      string `json:"field"`
	Before     string `json:"before"`
	After      string `json:"after"`
}

// Result is the outcome of a rewrite pass.
type Result struct {
	Content      []byte
	Fields       []setupvar.SetupVariable
	Changes      []Change
	Lines        int
	SentinelSeen bool
	NextOffset   uint32 // First offset after the last field
}

// Changed reports whether any declaration line was rewritten.
func (r *Result) Changed() bool {
	return len(r.Changes) > 0
}

// Transform reads a struct file and returns its rewritten content together with the
// resolved fields. It does not touch the file system. A malformed declaration aborts
// the pass with a *parser.DeclarationError.
func Transform(r io.Reader, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read struct file: %w", err)
	}

	// A leading byte order mark is not part of the first line; it is put back on output.
	bom := bytes.HasPrefix(content, utf8BOM)
	if bom {
		content = content[len(utf8BOM):]
	}

	rw := NewScannerRewriter(content)
	p := parser.New(opts.Sentinel)
	acc := layout.NewAccumulator()
	res := &Result{}

	for p.Scanning() && rw.Scan() {
		line, err := p.Classify(rw.Text())
		if err != nil {
			return nil, err
		}

		switch line.Kind {
		case parser.KindDeclaration:
			v, err := acc.Add(line.Name, line.Size)
			if err != nil {
				return nil, &parser.DeclarationError{Line: line.Number, Text: line.Raw, Reason: err.Error()}
			}
			text, changed := reconcile.Declaration(line, v)
			if !changed {
				rw.CopyLine()
				break
			}
			res.Changes = append(res.Changes, Change{
				Line:       line.Number,
				FieldIndex: acc.Len() - 1,
				Field:      v.Name,
				Before:     line.Raw,
				After:      text,
			})
			logger.Debug("offset comment updated",
				slog.Int("line", line.Number),
				slog.String("field", v.Name),
				slog.String("offset", v.HexOffset()))
			rw.ReplaceLine(text)
		case parser.KindSentinel:
			res.SentinelSeen = true
			logger.Debug("end of fields", slog.Int("line", line.Number))
			rw.CopyLine()
		default:
			rw.CopyLine()
		}
	}

	if err := rw.CopyRemainingLines(); err != nil {
		return nil, fmt.Errorf("failed to read struct file: %w", err)
	}

	if !res.SentinelSeen {
		sentinel := opts.Sentinel
		if sentinel == "" {
			sentinel = parser.DefaultSentinel
		}
		logger.Warn("end-of-fields marker not found; every line was scanned for fields",
			slog.String("sentinel", sentinel))
	}

	res.Content = rw.Bytes()
	if bom {
		res.Content = append(bytes.Clone(utf8BOM), res.Content...)
	}
	res.Fields = acc.Fields()
	res.Lines = rw.LineNo()
	res.NextOffset = acc.Cursor()
	return res, nil
}
