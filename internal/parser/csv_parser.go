package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Delimiter separates trial values on a line.
const Delimiter = ','

// LoadMeasurementTable reads a comma-delimited results file, one agent per line
// and one value per trial, and returns the normalized table.
func LoadMeasurementTable(path string) (*MeasurementTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "failed to open results file", Err: err}
	}
	defer file.Close()

	table, err := ParseMeasurementTable(file)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.Path == "" {
			fe.Path = path
		}
		return nil, err
	}
	table.Source = path
	return table, nil
}

// ParseMeasurementTable decodes a measurement grid from r. Blank lines and lines
// starting with '#' are skipped. Every row must carry the same number of finite
// values.
func ParseMeasurementTable(r io.Reader) (*MeasurementTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	// Row widths are checked below so the error names the offending line.
	reader.FieldsPerRecord = -1

	table := &MeasurementTable{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &FormatError{Line: pe.Line, Reason: "malformed row", Err: pe.Err}
			}
			return nil, &FormatError{Reason: "failed to read CSV data", Err: err}
		}
		line, _ := reader.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		row, err := parseRow(record, line)
		if err != nil {
			return nil, err
		}
		if len(table.Rows) > 0 && len(row) != len(table.Rows[0]) {
			return nil, &FormatError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d values, found %d", len(table.Rows[0]), len(row)),
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table.Normalize(), nil
}

func parseRow(record []string, line int) ([]float64, error) {
	// A trailing delimiter leaves an empty last field, which is dropped.
	if n := len(record); n > 1 && strings.TrimSpace(record[n-1]) == "" {
		record = record[:n-1]
	}
	row := make([]float64, 0, len(record))
	for col, field := range record {
		valStr := strings.TrimSpace(field)
		if valStr == "" {
			return nil, &FormatError{Line: line, Reason: fmt.Sprintf("empty value in column %d", col+1)}
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, &FormatError{
				Line:   line,
				Reason: fmt.Sprintf("could not convert value '%s' in column %d", valStr, col+1),
				Err:    err,
			}
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, &FormatError{Line: line, Reason: fmt.Sprintf("non-finite value '%s' in column %d", valStr, col+1)}
		}
		row = append(row, val)
	}
	return row, nil
}
