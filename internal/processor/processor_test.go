package processor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/open-wander/tracks/internal/logformat"
)

const testStream = `192.168.0.1 - - [18/Feb/2012:10:25:43 -0500] "GET / HTTP/1.1" 200 560 "-" "Mozilla/5.0 (...)"
192.168.0.1 - - [18/Feb/2012:10:25:43 -0500] "GET /style.css HTTP/1.1" 200 8240 "-" "Mozilla/5.0 (...)"
192.168.0.2 - - [18/Feb/2012:10:25:58 -0500] "GET / HTTP/1.1" 404 560 "-" "Mozilla/5.0 (...)"
`

func extendedFormat(t *testing.T) *logformat.CompiledFormat {
	t.Helper()
	f, err := logformat.Compile(logformat.Formats["extended"], false)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return f
}

func TestRun(t *testing.T) {
	f := extendedFormat(t)

	ltp := NewLogTime()
	res, err := Run(strings.NewReader(testStream), f, []Processor{ltp})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Lines != 3 {
		t.Errorf("Lines = %d, want 3", res.Lines)
	}
	if res.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", res.ParseErrors)
	}
	if got := ltp.TotalSeconds(); got != 15 {
		t.Errorf("TotalSeconds() = %v, want 15", got)
	}
}

func TestRunSkipsUnparseableLines(t *testing.T) {
	f := extendedFormat(t)

	stream := testStream + "junk line\n"
	ltp := NewLogTime()
	res, err := Run(strings.NewReader(stream), f, []Processor{ltp})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Lines != 4 {
		t.Errorf("Lines = %d, want 4", res.Lines)
	}
	if res.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", res.ParseErrors)
	}
	// Valid lines around the junk one still count.
	if got := ltp.TotalSeconds(); got != 15 {
		t.Errorf("TotalSeconds() = %v, want 15", got)
	}
}

func TestRunFansOutToAllProcessors(t *testing.T) {
	f := extendedFormat(t)

	a := NewSet("%h")
	b := NewSet("%h")
	if _, err := Run(strings.NewReader(testStream), f, []Processor{a, b}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(a.Values("%h"), b.Values("%h")) {
		t.Errorf("processors diverged: %v vs %v", a.Values("%h"), b.Values("%h"))
	}
}

func TestSet(t *testing.T) {
	f := extendedFormat(t)

	sp := NewSet("%h", "%{User-Agent}i")
	if _, err := Run(strings.NewReader(testStream), f, []Processor{sp}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := sp.Values("%h"), []string{"192.168.0.1", "192.168.0.2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values(%%h) = %v, want %v", got, want)
	}
	if got, want := sp.Values("%{User-Agent}i"), []string{"Mozilla/5.0 (...)"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values(User-Agent) = %v, want %v", got, want)
	}
}

func TestStatus(t *testing.T) {
	f := extendedFormat(t)

	sp := NewStatus()
	if _, err := Run(strings.NewReader(testStream), f, []Processor{sp}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := sp.StatusesFor("GET / HTTP/1.1"), []string{"200", "404"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StatusesFor(GET /) = %v, want %v", got, want)
	}
	if got, want := sp.StatusesFor("GET /style.css HTTP/1.1"), []string{"200"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StatusesFor(style.css) = %v, want %v", got, want)
	}
	if got, want := sp.RequestsFor("200"), []string{"GET / HTTP/1.1", "GET /style.css HTTP/1.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RequestsFor(200) = %v, want %v", got, want)
	}
	if got, want := sp.RequestsFor("404"), []string{"GET / HTTP/1.1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RequestsFor(404) = %v, want %v", got, want)
	}
}

func TestCountryNilReaderIsInert(t *testing.T) {
	f := extendedFormat(t)

	cp := NewCountry(nil)
	if _, err := Run(strings.NewReader(testStream), f, []Processor{cp}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	rep := cp.Report()
	if len(rep.Sections) != 1 || len(rep.Sections[0].Rows) != 0 {
		t.Errorf("Report() = %+v, want empty section", rep)
	}
}
