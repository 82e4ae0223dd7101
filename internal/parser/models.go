package parser

import (
	"errors"
	"fmt"
)

// ErrDataFormat is matched by every error raised while loading a measurement file.
var ErrDataFormat = errors.New("data format error")

// FormatError describes why a measurement file could not be loaded as a table.
type FormatError struct {
	Path   string
	Line   int // 1-based, 0 when not tied to a line
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrDataFormat }

// MeasurementTable holds per-agent trial measurements.
// Rows are agents (0-based), columns are trial repetitions.
type MeasurementTable struct {
	Rows   [][]float64
	Source string
}

// FromValues builds the single-agent table for a flat sequence of trial values.
func FromValues(values []float64) *MeasurementTable {
	row := make([]float64, len(values))
	copy(row, values)
	return &MeasurementTable{Rows: [][]float64{row}}
}

// NumAgents returns the number of rows.
func (t *MeasurementTable) NumAgents() int { return len(t.Rows) }

// NumTrials returns the number of columns. Only meaningful on a validated table.
func (t *MeasurementTable) NumTrials() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Shape returns (agents, trials).
func (t *MeasurementTable) Shape() (int, int) { return t.NumAgents(), t.NumTrials() }

// Normalize returns the table in its canonical two-dimensional shape. A
// single-agent table is rebuilt through FromValues so that a one-line file and a
// flat value sequence produce identical tables. Normalize is idempotent.
func (t *MeasurementTable) Normalize() *MeasurementTable {
	if len(t.Rows) != 1 {
		return t
	}
	out := FromValues(t.Rows[0])
	out.Source = t.Source
	return out
}

// Validate checks the table is non-empty and rectangular.
func (t *MeasurementTable) Validate() error {
	if len(t.Rows) == 0 {
		return &FormatError{Path: t.Source, Reason: "no rows found"}
	}
	width := len(t.Rows[0])
	if width == 0 {
		return &FormatError{Path: t.Source, Reason: "agent 0 has no values"}
	}
	for i, r := range t.Rows {
		if len(r) != width {
			return &FormatError{
				Path:   t.Source,
				Reason: fmt.Sprintf("agent %d: expected %d values, found %d", i, width, len(r)),
			}
		}
	}
	return nil
}
