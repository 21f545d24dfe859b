package processor

import (
	"time"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
)

// LogTime tracks the first and last request instants across the
// processed stream.
type LogTime struct {
	start time.Time
	stop  time.Time
	last  time.Time
}

// NewLogTime returns an empty LogTime processor.
func NewLogTime() *LogTime { return &LogTime{} }

func (p *LogTime) Process(rec logformat.Record) {
	raw, ok := rec["%t"]
	if !ok {
		return
	}
	t, err := logformat.ParseTime(raw)
	if err != nil {
		return
	}
	p.last = t
	if p.start.IsZero() || t.Before(p.start) {
		p.start = t
	}
	if p.stop.IsZero() || t.After(p.stop) {
		p.stop = t
	}
}

// Start returns the earliest instant seen, zero if none.
func (p *LogTime) Start() time.Time { return p.start }

// Stop returns the latest instant seen, zero if none.
func (p *LogTime) Stop() time.Time { return p.stop }

// Last returns the instant from the most recent record, for use by
// processors layered on top of this one.
func (p *LogTime) Last() time.Time { return p.last }

// TotalSeconds returns the wall-clock span covered by the stream.
func (p *LogTime) TotalSeconds() float64 {
	if p.start.IsZero() {
		return 0
	}
	return p.stop.Sub(p.start).Seconds()
}

func (p *LogTime) Report() output.Report {
	rows := [][]string{}
	if !p.start.IsZero() {
		rows = append(rows,
			[]string{"first", p.start.Format(time.RFC3339)},
			[]string{"last", p.stop.Format(time.RFC3339)},
			[]string{"span", time.Duration(p.TotalSeconds() * float64(time.Second)).String()},
		)
	}
	return output.Report{
		Title:    "Log time",
		Sections: []output.Section{{Rows: rows}},
	}
}
