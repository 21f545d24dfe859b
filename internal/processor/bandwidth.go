package processor

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
	"github.com/open-wander/tracks/internal/resolver"
)

// Scales lists the supported bandwidth rate units as multipliers
// applied to bytes per second.
var Scales = map[string]float64{
	"B/s":      1,
	"kB/s":     1e-3,
	"MB/s":     1e-6,
	"MB/month": 1e-6 * 30 * 24 * 3600,
}

// ScaleNames returns the supported scale names, sorted.
func ScaleNames() []string {
	names := make([]string, 0, len(Scales))
	for name := range Scales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bandwidth totals %b response bytes and reports the transfer rate
// over the time span of the processed logs.
type Bandwidth struct {
	LogTime
	scale     string
	bytes     int64
	lastBytes int64
	lastValid bool
}

// NewBandwidth returns a Bandwidth processor reporting in the given
// scale (one of the Scales keys).
func NewBandwidth(scale string) *Bandwidth {
	return &Bandwidth{scale: scale}
}

func (p *Bandwidth) Process(rec logformat.Record) {
	p.LogTime.Process(rec)
	p.lastValid = false
	// %b is "-" when no bytes were sent; skip those.
	n, err := strconv.ParseInt(rec["%b"], 10, 64)
	if err != nil {
		return
	}
	p.lastBytes, p.lastValid = n, true
	p.bytes += n
}

// Bytes returns the total bytes accumulated so far.
func (p *Bandwidth) Bytes() int64 { return p.bytes }

// Rate returns the bandwidth in the configured scale. Zero when the
// log span is zero.
func (p *Bandwidth) Rate() float64 { return p.rate(p.bytes) }

func (p *Bandwidth) rate(bytes int64) float64 {
	sec := p.TotalSeconds()
	if sec == 0 {
		return 0
	}
	return Scales[p.scale] * float64(bytes) / sec
}

func (p *Bandwidth) Report() output.Report {
	return output.Report{
		Title: fmt.Sprintf("Bandwidth (%s)", p.scale),
		Sections: []output.Section{{
			Rows: [][]string{{"total", formatRate(p.Rate())}},
		}},
	}
}

// IPBandwidth tracks per-client bandwidth keyed by %h, optionally
// consolidating IPs through a resolver.
type IPBandwidth struct {
	Bandwidth
	ipBytes map[string]int64
	top     int
}

// NewIPBandwidth returns an IPBandwidth processor whose report lists
// the top clients by rate in the given scale.
func NewIPBandwidth(scale string, top int) *IPBandwidth {
	return &IPBandwidth{
		Bandwidth: Bandwidth{scale: scale},
		ipBytes:   make(map[string]int64),
		top:       top,
	}
}

func (p *IPBandwidth) Process(rec logformat.Record) {
	p.Bandwidth.Process(rec)
	if p.lastValid {
		p.ipBytes[rec["%h"]] += p.lastBytes
	}
}

// IPRate is one client's share of the bandwidth.
type IPRate struct {
	Name string
	Rate float64
}

// ByIP returns per-client rates sorted by decreasing rate. Names sort
// lexically within equal rates so the order is deterministic.
func (p *IPBandwidth) ByIP() []IPRate {
	rates := make([]IPRate, 0, len(p.ipBytes))
	for ip, bytes := range p.ipBytes {
		rates = append(rates, IPRate{Name: ip, Rate: p.rate(bytes)})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Rate != rates[j].Rate {
			return rates[i].Rate > rates[j].Rate
		}
		return rates[i].Name < rates[j].Name
	})
	return rates
}

// Resolve replaces the heaviest client IPs with resolved names,
// merging entries that resolve to the same name (several Googlebot
// IPs collapse into one row under smart resolution). It walks clients
// in decreasing bandwidth order and stops after top entries, or once
// the remaining unresolved share drops below minimumTotal (a 0..1
// fraction of the total). Pass top <= 0 or minimumTotal <= 0 to
// disable either bound.
func (p *IPBandwidth) Resolve(ctx context.Context, r *resolver.Resolver, top int, minimumTotal float64) {
	resolved := make(map[string]struct{})
	remaining := p.bytes
	targetRem := int64(-1)
	if minimumTotal > 0 {
		targetRem = int64(minimumTotal * float64(p.bytes))
	}

	for _, entry := range p.ByIP() {
		if top > 0 && len(resolved) > top {
			break
		}
		if targetRem >= 0 && remaining < targetRem {
			break
		}
		remaining -= p.ipBytes[entry.Name]
		name := r.Resolve(ctx, entry.Name)
		resolved[name] = struct{}{}
		if name != entry.Name {
			p.ipBytes[name] += p.ipBytes[entry.Name]
			delete(p.ipBytes, entry.Name)
		}
	}
}

func (p *IPBandwidth) Report() output.Report {
	rates := p.ByIP()
	limit := p.top
	if limit <= 0 || limit > len(rates) {
		limit = len(rates)
	}

	var rows [][]string
	shown := 0.0
	for _, r := range rates[:limit] {
		rows = append(rows, []string{formatRate(r.Rate), r.Name})
		shown += r.Rate
	}
	if limit < len(rates) {
		rows = append(rows, []string{formatRate(p.Rate() - shown), "REMAINING"})
	}

	return output.Report{
		Title:    fmt.Sprintf("IP bandwidth (%s)", p.scale),
		Sections: []output.Section{{Rows: rows}},
	}
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
