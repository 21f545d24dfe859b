package logformat

import (
	"fmt"
	"strings"
)

// Record maps field names to the values captured from one log line.
// If a directive appears more than once in a format string, later
// captures overwrite earlier ones under the same name.
type Record map[string]string

// ParseError reports a line that did not match the compiled pattern.
// It is a per-line, recoverable condition: report the line and keep
// processing the rest of the file.
type ParseError struct {
	Line    string
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("logformat: unable to parse %q with pattern %s", e.Line, e.Pattern)
}

// Parse matches a single log line against the compiled format and
// returns the captured fields keyed by name. Leading and trailing
// whitespace on the line is ignored.
func (f *CompiledFormat) Parse(line string) (Record, error) {
	line = strings.TrimSpace(line)
	m := f.re.FindStringSubmatch(line)
	if m == nil {
		return nil, &ParseError{Line: line, Pattern: f.pattern}
	}

	rec := make(Record, len(f.names))
	for i, name := range f.names {
		rec[name] = m[i+1]
	}
	return rec, nil
}
