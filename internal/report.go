package tools

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field labels of the two metrics scraped from ApacheBench reports.
const (
	FieldRequestsPerSecond = "Requests per second"
	FieldTimePerRequest    = "Time per request"
)

// metricOffset is the byte offset at which ApacheBench places the numeric
// value on a field line, e.g.
//
//	Requests per second:    1234.5 [#/sec] (mean)
//
// The value is the first whitespace-delimited token from this offset.
// The offset depends entirely on ab's report layout; all offset handling
// is confined to ExtractMetric and parseFieldLine.
const metricOffset = 24

// ErrFieldNotFound reports that no line of the report contained the
// requested field label.
var ErrFieldNotFound = errors.New("field not found in report")

// ParseError reports a line that contained the field label but no value
// that could be parsed at the expected offset.
type ParseError struct {
	Field string
	Line  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q from line %q: %v", e.Field, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractMetric scans report line by line for the first line containing
// field as a substring and parses the metric value out of it. A report
// with no such line yields an error wrapping ErrFieldNotFound.
func ExtractMetric(report, field string) (float64, error) {
	for _, line := range strings.Split(report, "\n") {
		if !strings.Contains(line, field) {
			continue
		}
		return parseFieldLine(line, field)
	}
	return 0, fmt.Errorf("%q: %w", field, ErrFieldNotFound)
}

func parseFieldLine(line, field string) (float64, error) {
	if len(line) <= metricOffset {
		return 0, &ParseError{Field: field, Line: line, Err: errors.New("line too short")}
	}
	tokens := strings.Fields(line[metricOffset:])
	if len(tokens) == 0 {
		return 0, &ParseError{Field: field, Line: line, Err: errors.New("no value after offset")}
	}
	v, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, &ParseError{Field: field, Line: line, Err: err}
	}
	return v, nil
}
