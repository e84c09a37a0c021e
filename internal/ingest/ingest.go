// Package ingest reads the header row and row count from tabular dataset
// files. Detection only needs column names, so cell values beyond the header
// are counted, never retained.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how a dataset file is read.
type Options struct {
	// Delimiter for CSV. If 0, it is inferred from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; takes precedence over SheetIndex.
	SheetName string
	// SheetIndex selects an XLSX sheet (1-based). Zero means the first sheet.
	SheetIndex int
}

// Dataset is the ingested shape of a tabular file.
type Dataset struct {
	Name    string   `json:"name"`
	Sheet   string   `json:"sheet,omitempty"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

// ReadDataset reads the named file and returns its column headers and data
// row count. Supported formats are .csv, .tsv and .xlsx.
func ReadDataset(path string, opts Options) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return readCSV(path, opts)
	case ".xlsx":
		return readXLSX(path, opts)
	default:
		return nil, fmt.Errorf("ingest: unsupported file format %q (want .csv, .tsv or .xlsx)", filepath.Ext(path))
	}
}

func readCSV(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ingest: %s has no header row", filepath.Base(path))
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := cleanHeader(header)
	if len(columns) == 0 {
		return nil, fmt.Errorf("ingest: %s has no columns", filepath.Base(path))
	}

	ds := &Dataset{Name: filepath.Base(path), Columns: columns}
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", ds.Rows+2, err)
		}
		ds.Rows++
	}
	return ds, nil
}

// sniffDelimiter uses the filename only, so the file is read exactly once.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// cleanHeader trims cells and drops trailing empty ones, which spreadsheet
// exports often append.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
