package logformat

import (
	"testing"
	"time"
)

func TestSortableDate(t *testing.T) {
	tests := []struct {
		date       string
		wantStamp  string
		wantOffset string
	}{
		{"[05/Dec/2006:10:51:44 +0000]", "20061205105144", "+0000"},
		{"[18/Feb/2012:10:25:43 -0500]", "20120218102543", "-0500"},
		{"[01/Jan/2026:00:00:00 +0930]", "20260101000000", "+0930"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			stamp, offset := SortableDate(tt.date)
			if stamp != tt.wantStamp {
				t.Errorf("stamp = %q, want %q", stamp, tt.wantStamp)
			}
			if offset != tt.wantOffset {
				t.Errorf("offset = %q, want %q", offset, tt.wantOffset)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		date       string
		want       time.Time
		wantOffset int // seconds east of UTC
	}{
		{
			date:       "[05/Dec/2006:10:51:44 +0000]",
			want:       time.Date(2006, 12, 5, 10, 51, 44, 0, time.UTC),
			wantOffset: 0,
		},
		{
			date:       "[18/Feb/2012:10:25:43 -0500]",
			want:       time.Date(2012, 2, 18, 10, 25, 43, 0, time.FixedZone("-0500", -5*3600)),
			wantOffset: -5 * 3600,
		},
		{
			date:       "[01/Jan/2026:09:30:00 +0930]",
			want:       time.Date(2026, 1, 1, 9, 30, 0, 0, time.FixedZone("+0930", 9*3600+30*60)),
			wantOffset: 9*3600 + 30*60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := ParseTime(tt.date)
			if err != nil {
				t.Fatalf("ParseTime() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime() = %v, want %v", got, tt.want)
			}
			_, offset := got.Zone()
			if offset != tt.wantOffset {
				t.Errorf("zone offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestParseTimeBadInput(t *testing.T) {
	bad := []string{
		"[05/XXX/2006:10:51:44 +0000]", // unknown month
		"[05/Dec/2006:10:51:44 0000]",  // offset missing sign
		"[05/Dec/2006:10:51:44 +00]",   // offset too short
	}
	for _, date := range bad {
		if _, err := ParseTime(date); err == nil {
			t.Errorf("ParseTime(%q) error = nil, want error", date)
		}
	}
}

func TestParseTimeSpanArithmetic(t *testing.T) {
	// Instants with offsets attached compare on the absolute timeline.
	a, err := ParseTime("[18/Feb/2012:10:25:43 -0500]")
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	b, err := ParseTime("[18/Feb/2012:15:25:58 +0000]")
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if got := b.Sub(a); got != 15*time.Second {
		t.Errorf("b.Sub(a) = %v, want 15s", got)
	}
}
