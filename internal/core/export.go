package core

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultSeparator joins exported CSV cells.
const DefaultSeparator = ";"

// printTemplate is the printable document shell. Table is go-pretty output
// with cell text already escaped.
var printTemplate = template.Must(template.New("print").Parse(`<html><head><title>{{.Title}}</title>` +
	`<style>table {width: 100%; border-collapse: collapse;} th, td {border: 1px solid black; padding: 8px;}</style>` +
	`</head><body>{{.Table}}</body></html>
`))

type printData struct {
	Title string
	Table template.HTML
}

// WriteCSV writes the header line and one line per row, cells trimmed and
// joined with sep. Cells containing sep or newlines are written as-is.
func WriteCSV(w io.Writer, snap Snapshot, sep string) error {
	if sep == "" {
		sep = DefaultSeparator
	}
	bw := bufio.NewWriter(w)

	if err := writeLine(bw, snap.Columns, sep); err != nil {
		return err
	}
	for _, row := range snap.Rows {
		if err := writeLine(bw, row.Cells, sep); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, cells []string, sep string) error {
	trimmed := make([]string, len(cells))
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
	}
	if _, err := w.WriteString(strings.Join(trimmed, sep)); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// newTableWriter loads the snapshot into a go-pretty table.
func newTableWriter(snap Snapshot) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(snap.Columns))
	for i, col := range snap.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range snap.Rows {
		row := make(table.Row, len(r.Cells))
		for i, cell := range r.Cells {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	return t
}

// RenderText renders the snapshot as a box-drawn text table followed by a
// row count line.
func RenderText(w io.Writer, snap Snapshot) error {
	if len(snap.Columns) == 0 {
		_, err := fmt.Fprintln(w, "(empty table)")
		return err
	}
	t := newTableWriter(snap)
	if snap.Sort.Sorted() {
		t.SetCaption("sorted by %s (%s)", snap.Columns[snap.Sort.Column], snap.Sort.Dir())
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(snap.Rows))
	return err
}

// RenderPrintHTML writes a standalone HTML document holding the table, ready
// for the browser print dialog.
func RenderPrintHTML(w io.Writer, snap Snapshot, title string) error {
	t := newTableWriter(snap)
	t.Style().HTML = table.HTMLOptions{
		CSSClass:    "print-table",
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}

	data := printData{
		Title: title,
		Table: template.HTML(t.RenderHTML()), //nolint:gosec // G203: go-pretty escapes cell text
	}
	if err := printTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render print document: %w", err)
	}
	return nil
}
