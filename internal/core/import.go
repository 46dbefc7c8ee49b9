package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV appends comma-separated rows to the table. The header must have
// as many columns as the table; an empty table adopts the header as its
// columns. Rows with a different cell count are skipped.
func (t *TableStore) ImportCSV(r io.Reader) (ImportResult, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return ImportResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy() {
		return ImportResult{}, ErrConcurrentEdit
	}

	columns := t.columns
	if len(columns) == 0 {
		columns = uniqueNames(header)
		if len(columns) != len(header) {
			return ImportResult{}, fmt.Errorf("%w: duplicate header names", ErrColumnMismatch)
		}
	}
	if len(header) != len(columns) {
		return ImportResult{}, fmt.Errorf("%w: file has %d columns, table has %d",
			ErrColumnMismatch, len(header), len(columns))
	}

	var result ImportResult
	added := make([]Row, 0, len(rows))
	for _, cells := range rows {
		if len(cells) != len(columns) {
			result.Skipped++
			continue
		}
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		added = append(added, Row{Cells: cells, Original: true})
	}

	t.columns = columns
	for _, row := range added {
		row.ID = t.uniqueID()
		t.rows = append(t.rows, row)
	}
	result.Imported = len(added)
	return result, nil
}

// readCSV reads a header and data rows, ignoring blank lines.
func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("invalid csv: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("invalid csv: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}
