package logformat

import (
	"fmt"
	"regexp"
	"strings"
)

// Formats holds the most common predefined log formats, selectable by
// name instead of spelling out the directive string.
var Formats = map[string]string{
	// Common Log Format (CLF)
	"common": `%h %l %u %t \"%r\" %>s %b`,
	// Common Log Format with virtual host
	"vhcommon": `%v %h %l %u %t \"%r\" %>s %b`,
	// NCSA extended/combined log format
	"extended": `%h %l %u %t \"%r\" %>s %b \"%{Referer}i\" \"%{User-Agent}i\"`,
}

var (
	wsRun        = regexp.MustCompile(`[ \t]+`)
	timeElement  = regexp.MustCompile(`^%.*t$`)
	refererAgent = regexp.MustCompile(`(?i)Referer|User-Agent`)
)

// CompileError reports a format string whose assembled pattern failed
// to compile. The format string is unusable; callers should treat it
// as a configuration error rather than retry.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("logformat: cannot compile pattern %s: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// CompiledFormat is a line matcher built from a LogFormat directive
// string. It is immutable once constructed and safe for concurrent use
// by multiple goroutines.
type CompiledFormat struct {
	names   []string
	pattern string
	re      *regexp.Regexp
}

// Compile translates an Apache LogFormat directive string into a
// CompiledFormat. The format is expected verbatim from the server
// configuration, so quoted fields carry escaped quote marks:
//
//	%h %l %u %t \"%r\" %>s %b
//
// With friendlyNames, field names are the canonical aliases from the
// directive table instead of the raw tokens.
func Compile(format string, friendlyNames bool) (*CompiledFormat, error) {
	format = strings.TrimSpace(format)
	format = wsRun.ReplaceAllString(format, " ")

	var (
		names       []string
		subpatterns []string
	)

	for _, element := range strings.Split(format, " ") {
		quoted := strings.HasPrefix(element, `\"`)
		if quoted {
			// Each side is stripped independently so a marker
			// missing on one side is tolerated.
			element = strings.TrimPrefix(element, `\"`)
			element = strings.TrimSuffix(element, `\"`)
		}

		if friendlyNames {
			names = append(names, FieldName(element))
		} else {
			names = append(names, element)
		}

		sub := `(\S*)`
		switch {
		case quoted && (element == "%r" || refererAgent.MatchString(element)):
			// Capture through embedded \" sequences and stop at the
			// first unescaped quote. Real logs contain request lines,
			// referers and user agents with escaped quotes inside.
			sub = `\"([^"\\]*(?:\\.[^"\\]*)*)\"`
		case quoted:
			sub = `\"([^\"]*)\"`
		case timeElement.MatchString(element):
			sub = `(\[[^\]]+\])`
		case element == "%U":
			// URL paths give no whitespace guarantee; match lazily.
			sub = `(.+?)`
		}
		subpatterns = append(subpatterns, sub)
	}

	pattern := "^" + strings.Join(subpatterns, " ") + "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	return &CompiledFormat{names: names, pattern: pattern, re: re}, nil
}

// FieldNames returns the field names in format-string order, one per
// directive.
func (f *CompiledFormat) FieldNames() []string { return f.names }

// Pattern returns the assembled regular expression as a string.
func (f *CompiledFormat) Pattern() string { return f.pattern }
