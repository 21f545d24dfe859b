package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/open-wander/tracks/internal/logformat"
)

const sampleLines = `212.74.15.68 - - [23/Jan/2004:11:36:20 +0000] "GET /images/previous.png HTTP/1.1" 200 2607 "http://peterhi.dyndns.org/bandwidth/index.html" "Mozilla/5.0 (X11; U; Linux i686; en-US; rv:1.2) Gecko/20021202"
212.74.15.68 - - [23/Jan/2004:11:36:35 +0000] "GET /images/next.png HTTP/1.1" 200 2607 "http://peterhi.dyndns.org/bandwidth/index.html" "Mozilla/5.0 (X11; U; Linux i686; en-US; rv:1.2) Gecko/20021202"
`

func writeSampleLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(path, []byte(sampleLines), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return buf.String()
}

func TestCompileFormatPresetAndLiteral(t *testing.T) {
	preset, err := compileFormat("common", false)
	if err != nil {
		t.Fatalf("compileFormat(common): %v", err)
	}
	direct, err := logformat.Compile(logformat.Formats["common"], false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if preset.Pattern() != direct.Pattern() {
		t.Errorf("preset pattern = %q, want %q", preset.Pattern(), direct.Pattern())
	}

	literal, err := compileFormat("%h %b", false)
	if err != nil {
		t.Fatalf("compileFormat(literal): %v", err)
	}
	names := literal.FieldNames()
	if len(names) != 2 || names[0] != "%h" || names[1] != "%b" {
		t.Errorf("FieldNames = %v", names)
	}
}

func TestProcessCommandBandwidth(t *testing.T) {
	path := writeSampleLog(t)
	outputFmt = "text"

	out := runCommand(t, "process", "--bandwidth", "--scale", "B/s", path)
	if !strings.Contains(out, "Bandwidth (B/s)") {
		t.Errorf("missing bandwidth report:\n%s", out)
	}
	// 5214 bytes over 15 seconds
	if !strings.Contains(out, "347.600") {
		t.Errorf("unexpected rate:\n%s", out)
	}
}

func TestParseCommandFriendlyNames(t *testing.T) {
	path := writeSampleLog(t)
	flagFriendlyNames = true
	defer func() { flagFriendlyNames = false }()

	out := runCommand(t, "parse", path)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d records, want 2:\n%s", len(lines), out)
	}

	var rec map[string]string
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record not valid JSON: %v", err)
	}
	if rec["remote_host"] != "212.74.15.68" {
		t.Errorf("remote_host = %q", rec["remote_host"])
	}
	if rec["last_status"] != "200" {
		t.Errorf("last_status = %q", rec["last_status"])
	}
	if rec["first_line"] != "GET /images/previous.png HTTP/1.1" {
		t.Errorf("first_line = %q", rec["first_line"])
	}
}

func TestProcessCommandRecordsRun(t *testing.T) {
	path := writeSampleLog(t)
	dbPath := filepath.Join(t.TempDir(), "tracks.db")
	outputFmt = "json"
	defer func() { outputFmt = "text" }()

	out := runCommand(t, "process", "--status", "--db", dbPath, path)
	if !strings.Contains(out, "Status") {
		t.Errorf("missing status report:\n%s", out)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("run database not created: %v", err)
	}
}
