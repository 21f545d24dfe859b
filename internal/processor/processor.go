// Package processor aggregates parsed log records across files.
package processor

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
)

// Processor consumes one parsed record at a time. Implementations
// accumulate into their own instance state with no internal locking:
// run one instance per stream, or serialize calls into a shared one.
type Processor interface {
	Process(rec logformat.Record)
}

// Reporter is implemented by processors that can summarize what they
// have accumulated.
type Reporter interface {
	Report() output.Report
}

// Result counts the outcome of one processed stream.
type Result struct {
	Lines       int
	ParseErrors int
}

// Run parses every line from r using the compiled format and feeds
// each record to all processors in order. A line that fails to parse
// is reported and skipped; processing continues with the next line.
func Run(r io.Reader, format *logformat.CompiledFormat, procs []Processor) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(r)
	// 1MB buffer for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		res.Lines++

		rec, err := format.Parse(line)
		if err != nil {
			res.ParseErrors++
			log.Printf("processor: skipping unparseable line: %v", err)
			continue
		}
		for _, p := range procs {
			p.Process(rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scanner error: %w", err)
	}
	return res, nil
}
