package processor

import (
	"sort"
	"strings"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
)

// Status cross-tabulates request lines (%r) against the final statuses
// (%>s) they produced, in both directions.
type Status struct {
	byRequest map[string]map[string]struct{}
	byStatus  map[string]map[string]struct{}
}

// NewStatus returns an empty Status processor.
func NewStatus() *Status {
	return &Status{
		byRequest: make(map[string]map[string]struct{}),
		byStatus:  make(map[string]map[string]struct{}),
	}
}

func (p *Status) Process(rec logformat.Record) {
	request := rec["%r"]
	status := rec["%>s"]
	add(p.byRequest, request, status)
	add(p.byStatus, status, request)
}

func add(m map[string]map[string]struct{}, key, value string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[value] = struct{}{}
}

// StatusesFor returns the sorted statuses seen for a request line.
func (p *Status) StatusesFor(request string) []string {
	return sortedKeys(p.byRequest[request])
}

// RequestsFor returns the sorted request lines seen with a status.
func (p *Status) RequestsFor(status string) []string {
	return sortedKeys(p.byStatus[status])
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Status) Report() output.Report {
	var requestRows [][]string
	for _, request := range sortedKeys(keysOf(p.byRequest)) {
		requestRows = append(requestRows, []string{request, strings.Join(p.StatusesFor(request), ", ")})
	}

	var statusRows [][]string
	for _, status := range sortedKeys(keysOf(p.byStatus)) {
		statusRows = append(statusRows, []string{status, strings.Join(p.RequestsFor(status), ", ")})
	}

	return output.Report{
		Title: "Status",
		Sections: []output.Section{
			{Header: "by request", Rows: requestRows},
			{Header: "by status", Rows: statusRows},
		},
	}
}

func keysOf(m map[string]map[string]struct{}) map[string]struct{} {
	keys := make(map[string]struct{}, len(m))
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys
}
