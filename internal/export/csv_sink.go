package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vilaca/github-issues/internal/triage"
)

// Header is the column layout of the export.
var Header = []string{
	"component",
	"id",
	"title",
	"state",
	"assignee",
	"milestone",
	"priority",
	"created_at",
	"closed_at",
	"url",
}

// Options controls the encoding of the export.
type Options struct {
	// Delimiter separates fields; zero means comma.
	Delimiter rune
	// Hyperlinks writes the id column as a spreadsheet HYPERLINK formula.
	Hyperlinks bool
}

// CSVSink writes rows as delimited text in the order given.
type CSVSink struct {
	w    io.Writer
	opts Options
}

// NewCSVSink creates a sink writing to w.
func NewCSVSink(w io.Writer, opts Options) *CSVSink {
	return &CSVSink{w: w, opts: opts}
}

// Write writes the header and one record per row.
func (s *CSVSink) Write(rows []triage.Row) error {
	writer := csv.NewWriter(s.w)
	if s.opts.Delimiter != 0 {
		writer.Comma = s.opts.Delimiter
	}

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(s.record(row)); err != nil {
			return fmt.Errorf("failed to write %s%s: %w", row.Component, row.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func (s *CSVSink) record(row triage.Row) []string {
	id := row.ID
	if s.opts.Hyperlinks && row.URL != "" {
		id = hyperlink(row.URL, row.ID)
	}

	priority := ""
	if row.Priority != nil {
		priority = strconv.Itoa(*row.Priority)
	}
	closedAt := ""
	if row.ClosedAt != nil {
		closedAt = *row.ClosedAt
	}

	return []string{
		row.Component,
		id,
		row.Title,
		row.State.String(),
		row.Assignee,
		row.Milestone,
		priority,
		row.CreatedAt,
		closedAt,
		row.URL,
	}
}

// hyperlink builds =HYPERLINK("url","label"), doubling embedded quotes.
func hyperlink(url, label string) string {
	quote := func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return "=HYPERLINK(" + quote(url) + "," + quote(label) + ")"
}

// FileSink writes the export to a file. The file is only created when Write
// is called, so a run that fails before exporting leaves no partial output.
type FileSink struct {
	path string
	opts Options
}

// NewFileSink creates a sink for path.
func NewFileSink(path string, opts Options) *FileSink {
	return &FileSink{path: path, opts: opts}
}

// Path returns the output path.
func (s *FileSink) Path() string {
	return s.path
}

// Write creates the file and writes all rows to it.
func (s *FileSink) Write(rows []triage.Row) (err error) {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	return NewCSVSink(file, s.opts).Write(rows)
}

// ParseDelimiter accepts a single character, or the names "comma", "tab"
// and "semicolon".
func ParseDelimiter(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "", "comma", ",":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "semicolon", ";":
		return ';', nil
	}

	runes := []rune(value)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", value)
	}
	return runes[0], nil
}
