package processor

import (
	"net/netip"
	"sort"
	"strconv"

	"github.com/oschwald/geoip2-golang/v2"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
)

// Country counts requests and bytes per ISO country code, resolving
// client IPs (%h) through a MaxMind/DB-IP database. A nil reader
// disables the processor entirely.
type Country struct {
	reader   *geoip2.Reader
	requests map[string]int64
	bytes    map[string]int64
}

// NewCountry returns a Country processor backed by the given GeoIP
// reader, which may be nil.
func NewCountry(reader *geoip2.Reader) *Country {
	return &Country{
		reader:   reader,
		requests: make(map[string]int64),
		bytes:    make(map[string]int64),
	}
}

func (p *Country) Process(rec logformat.Record) {
	if p.reader == nil {
		return
	}
	addr, err := netip.ParseAddr(rec["%h"])
	if err != nil {
		return
	}
	record, err := p.reader.Country(addr)
	if err != nil {
		return
	}
	code := record.Country.ISOCode
	if code == "" {
		return
	}
	p.requests[code]++
	if n, err := strconv.ParseInt(rec["%b"], 10, 64); err == nil {
		p.bytes[code] += n
	}
}

// countryRow is one country's totals, used for sorted reporting.
type countryRow struct {
	code     string
	requests int64
	bytes    int64
}

func (p *Country) rows() []countryRow {
	rows := make([]countryRow, 0, len(p.requests))
	for code, n := range p.requests {
		rows = append(rows, countryRow{code: code, requests: n, bytes: p.bytes[code]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].requests != rows[j].requests {
			return rows[i].requests > rows[j].requests
		}
		return rows[i].code < rows[j].code
	})
	return rows
}

func (p *Country) Report() output.Report {
	var rows [][]string
	for _, r := range p.rows() {
		rows = append(rows, []string{
			r.code,
			strconv.FormatInt(r.requests, 10),
			strconv.FormatInt(r.bytes, 10),
		})
	}
	return output.Report{
		Title: "Countries",
		Sections: []output.Section{
			{Header: "code  requests  bytes", Rows: rows},
		},
	}
}
