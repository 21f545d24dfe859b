package logformat

import (
	"fmt"
	"strconv"
	"time"
)

// months maps CLF month abbreviations to zero-padded numbers.
var months = map[string]string{
	"Jan": "01",
	"Feb": "02",
	"Mar": "03",
	"Apr": "04",
	"May": "05",
	"Jun": "06",
	"Jul": "07",
	"Aug": "08",
	"Sep": "09",
	"Oct": "10",
	"Nov": "11",
	"Dec": "12",
}

// SortableDate converts a bracketed %t capture, e.g.
// [05/Dec/2006:10:51:44 +0000], into a sortable YYYYMMDDHHMMSS string
// plus the offset suffix exactly as it appeared. No timezone
// arithmetic is applied. The fields are rearranged by fixed character
// offsets, so input that deviates from the server-emitted width is
// undefined; validate first if your input may be malformed.
func SortableDate(date string) (stamp, offset string) {
	date = date[1 : len(date)-1]
	stamp = date[7:11] + months[date[3:6]] + date[0:2] +
		date[12:14] + date[15:17] + date[18:20]
	return stamp, date[21:]
}

// ParseTime converts a bracketed %t capture into an absolute instant
// carrying a fixed UTC offset. The offset is attached as-is; no
// daylight-saving rules apply. Like SortableDate it assumes the exact
// fixed-width CLF layout.
func ParseTime(date string) (time.Time, error) {
	if len(date) < 28 {
		return time.Time{}, fmt.Errorf("logformat: bad timestamp %q", date)
	}
	stamp, offset := SortableDate(date)
	if len(stamp) != 14 {
		return time.Time{}, fmt.Errorf("logformat: bad timestamp %q", date)
	}

	var parts [6]int
	for i, s := range []string{
		stamp[0:4], stamp[4:6], stamp[6:8], stamp[8:10], stamp[10:12], stamp[12:14],
	} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("logformat: bad timestamp %q: %w", date, err)
		}
		parts[i] = n
	}

	if len(offset) != 5 || (offset[0] != '+' && offset[0] != '-') {
		return time.Time{}, fmt.Errorf("logformat: bad timezone offset %q", offset)
	}
	hours, err := strconv.Atoi(offset[1:3])
	if err != nil {
		return time.Time{}, fmt.Errorf("logformat: bad timezone offset %q: %w", offset, err)
	}
	minutes, err := strconv.Atoi(offset[3:5])
	if err != nil {
		return time.Time{}, fmt.Errorf("logformat: bad timezone offset %q: %w", offset, err)
	}
	seconds := (hours*60 + minutes) * 60
	if offset[0] == '-' {
		seconds = -seconds
	}

	zone := time.FixedZone(offset, seconds)
	return time.Date(parts[0], time.Month(parts[1]), parts[2],
		parts[3], parts[4], parts[5], 0, zone), nil
}
