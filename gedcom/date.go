package gedcom

import (
	"strings"
	"time"
)

// qualifiers that prefix approximate or ranged GEDCOM dates; they are dropped
// and the remaining date interpreted as-is
var dateQualifiers = map[string]bool{
	"ABT": true, "EST": true, "CAL": true,
	"BEF": true, "AFT": true, "FROM": true, "TO": true,
}

var dateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2006",
	"2006",
	"2006-01-02",
}

// ParseDate interprets a GEDCOM date string best-effort. Qualifier prefixes
// like ABT or BEF are ignored. The boolean is false when no layout matched;
// callers store such dates as absent rather than failing an import.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	fields := strings.Fields(raw)
	for len(fields) > 0 && dateQualifiers[strings.ToUpper(fields[0])] {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return time.Time{}, false
	}

	// GEDCOM months are uppercase (JAN, FEB); time.Parse wants Jan, Feb
	for i, f := range fields {
		if len(f) == 3 && !isDigits(f) {
			fields[i] = strings.ToUpper(f[:1]) + strings.ToLower(f[1:])
		}
	}
	candidate := strings.Join(fields, " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
