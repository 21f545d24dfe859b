package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleReport() Report {
	return Report{
		Title: "IP bandwidth (MB/month)",
		Sections: []Section{{
			Rows: [][]string{
				{"1520.640", "212.74.15.68"},
				{"96.768", "4.224.234.46"},
			},
		}},
	}
}

func TestTextRendererAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(sampleReport()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "IP bandwidth (MB/month)") {
		t.Error("missing title")
	}
	// First column padded to the widest cell
	if !strings.Contains(out, "1520.640  212.74.15.68") {
		t.Errorf("unexpected row layout:\n%s", out)
	}
	if !strings.Contains(out, "96.768    4.224.234.46") {
		t.Errorf("short cell not padded:\n%s", out)
	}
}

func TestTextRendererEmptySection(t *testing.T) {
	var buf bytes.Buffer
	rep := Report{Title: "Statuses", Sections: []Section{{Header: "by status"}}}
	if err := NewTextRenderer(&buf).Render(rep); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("empty section placeholder missing:\n%s", buf.String())
	}
}

func TestJSONRendererRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONRenderer(&buf).Render(sampleReport()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Title != "IP bandwidth (MB/month)" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Sections) != 1 || len(got.Sections[0].Rows) != 2 {
		t.Errorf("sections not preserved: %+v", got)
	}
}
