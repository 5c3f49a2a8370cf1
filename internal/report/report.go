package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"setupdata/pkg/setupvar"
)

// Markdown renders the resolved layout as a Markdown table.
func Markdown(source string, fields []setupvar.SetupVariable, nextOffset uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Setup data layout: %s\n\n", filepath.Base(source))
	b.WriteString("| # | Offset | Size | Field |\n")
	b.WriteString("|--:|:-------|-----:|:------|\n")
	for i, f := range fields {
		fmt.Fprintf(&b, "| %d | `%s` | %d | `%s` |\n", i+1, f.HexOffset(), f.Size, setupvar.BaseName(f.Name))
	}
	fmt.Fprintf(&b, "\n%d fields, next free offset `%s`.\n", len(fields), setupvar.FormatOffset(nextOffset))
	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the layout as a standalone HTML page.
func HTML(source string, fields []setupvar.SetupVariable, nextOffset uint32) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(source, fields, nextOffset)), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>Setup data layout: %s</title>\n", html.EscapeString(filepath.Base(source)))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// WriteFile writes the report to path, as HTML if the extension is .html or .htm and as
// Markdown otherwise.
func WriteFile(path, source string, fields []setupvar.SetupVariable, nextOffset uint32) error {
	var content []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		page, err := HTML(source, fields, nextOffset)
		if err != nil {
			return err
		}
		content = page
	default:
		content = []byte(Markdown(source, fields, nextOffset))
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
