package smoke_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/open-wander/tracks/internal/db"
	"github.com/open-wander/tracks/internal/logfile"
	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
	"github.com/open-wander/tracks/internal/processor"
	_ "modernc.org/sqlite"
)

const sampleLog = `212.74.15.68 - - [23/Jan/2004:11:36:20 +0000] "GET /images/previous.png HTTP/1.1" 200 2607 "http://peterhi.dyndns.org/bandwidth/index.html" "Mozilla/5.0 (X11; U; Linux i686; en-US; rv:1.2) Gecko/20021202"
212.74.15.68 - - [23/Jan/2004:11:36:20 +0000] "GET /images/previous.png HTTP/1.1" 200 2607 "http://peterhi.dyndns.org/bandwidth/index.html" "Mozilla/5.0 (X11; U; Linux i686; en-US; rv:1.2) Gecko/20021202"
4.224.234.46 - - [20/Jul/2004:13:18:55 -0700] "GET /core/listing/pl_boat_detail.jsp?&units=Feet&checked_boats=1176818&slim=broker&&hosturl=giffordmarine&&ywo=giffordmarine& HTTP/1.1" 200 2888 "http://search.yahoo.com/bin/search?p=\"grady%20white%20306%20bimini\"" "Mozilla/4.0 (compatible; MSIE 6.0; Windows 98; YPC 3.0.3; yplus 4.0.00d)"
`

// TestSmokeProcessSampleLog runs a gzip-compressed sample through the
// whole pipeline: open, compile, aggregate, record the run, render.
func TestSmokeProcessSampleLog(t *testing.T) {
	// Write the sample as a rotated gzip archive
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log.1.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(sampleLog)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	format, err := logformat.Compile(logformat.Formats["extended"], false)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	bw := processor.NewBandwidth("B/s")
	ipbw := processor.NewIPBandwidth("B/s", 10)
	status := processor.NewStatus()
	hosts := processor.NewSet("%h")

	r, err := logfile.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	started := time.Now()
	res, err := processor.Run(r, format, []processor.Processor{bw, ipbw, status, hosts})
	r.Close()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Lines != 3 || res.ParseErrors != 0 {
		t.Fatalf("Run() = %+v, want 3 clean lines", res)
	}

	if bw.Bytes() != 2607+2607+2888 {
		t.Errorf("Bytes() = %d", bw.Bytes())
	}
	if got := hosts.Values("%h"); len(got) != 2 || got[0] != "212.74.15.68" || got[1] != "4.224.234.46" {
		t.Errorf("Values(%%h) = %v", got)
	}
	if got := status.RequestsFor("200"); len(got) != 2 {
		t.Errorf("RequestsFor(200) = %v", got)
	}
	rates := ipbw.ByIP()
	if len(rates) != 2 || rates[0].Name != "212.74.15.68" {
		t.Errorf("ByIP() = %v", rates)
	}

	// Record the run and read it back through the API query layer
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer database.Close()

	if _, err := db.RecordRun(database, db.Run{
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Files:       []string{path},
		Format:      "extended",
		Lines:       res.Lines,
		ParseErrors: res.ParseErrors,
	}); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	runs, err := db.ListRuns(database, 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Lines != 3 {
		t.Fatalf("ListRuns() = %+v", runs)
	}

	// Both renderers accept every report
	var text, jsonBuf bytes.Buffer
	for _, rep := range []output.Report{bw.Report(), ipbw.Report(), status.Report(), hosts.Report()} {
		if err := output.NewTextRenderer(&text).Render(rep); err != nil {
			t.Errorf("text render: %v", err)
		}
		if err := output.NewJSONRenderer(&jsonBuf).Render(rep); err != nil {
			t.Errorf("json render: %v", err)
		}
	}
	if !strings.Contains(text.String(), "212.74.15.68") {
		t.Error("text output missing client address")
	}
	dec := json.NewDecoder(&jsonBuf)
	var rep output.Report
	if err := dec.Decode(&rep); err != nil {
		t.Errorf("json output not decodable: %v", err)
	}
}
