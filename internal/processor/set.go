package processor

import (
	"sort"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
)

// Set collects the distinct values seen for each configured field.
type Set struct {
	values map[string]map[string]struct{}
}

// NewSet returns a Set processor tracking the given field names
// (raw directive tokens, e.g. "%h" or "%{User-Agent}i").
func NewSet(keys ...string) *Set {
	values := make(map[string]map[string]struct{}, len(keys))
	for _, k := range keys {
		values[k] = make(map[string]struct{})
	}
	return &Set{values: values}
}

func (p *Set) Process(rec logformat.Record) {
	for key, seen := range p.values {
		if v, ok := rec[key]; ok {
			seen[v] = struct{}{}
		}
	}
}

// Values returns the distinct values recorded for key, sorted.
func (p *Set) Values(key string) []string {
	seen := p.values[key]
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (p *Set) Report() output.Report {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sections := make([]output.Section, 0, len(keys))
	for _, key := range keys {
		var rows [][]string
		for _, v := range p.Values(key) {
			rows = append(rows, []string{v})
		}
		sections = append(sections, output.Section{Header: key, Rows: rows})
	}
	return output.Report{Title: "Value sets", Sections: sections}
}
