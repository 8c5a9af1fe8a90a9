// pkg/converter/dates.go
package converter

import (
	"fmt"
	"time"
)

// Date serialization selectors accepted by date transforms and configuration
const (
	FormatISO      = "iso"      // RFC 3339 text
	FormatUnix     = "unix"     // epoch seconds integer
	FormatDate     = "date"     // YYYY-MM-DD text
	FormatDateTime = "datetime" // YYYY-MM-DD HH:MM:SS text
)

// ValidDateFormat reports whether name is a known serialization selector
func ValidDateFormat(name string) bool {
	switch name {
	case FormatISO, FormatUnix, FormatDate, FormatDateTime:
		return true
	}
	return false
}

// timeLayouts are tried in order when parsing date text
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123,
	time.RFC1123Z,
}

// toDate parses a value into a time and serializes it with the requested
// format selector. Unparsable input yields nil; an unrecognized selector is
// an error.
func (t *Transformer) toDate(value interface{}, format string) (interface{}, error) {
	if format == "" {
		format = t.config.DefaultDateFormat
	}
	if !ValidDateFormat(format) {
		return nil, fmt.Errorf("unknown date format %q", format)
	}

	parsed, ok := t.parseTime(value)
	if !ok {
		return nil, nil
	}
	return serializeTime(parsed, format), nil
}

// parseTime accepts time values, text in a known layout and numeric epoch
// seconds (fractional seconds preserved)
func (t *Transformer) parseTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		if v == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case int:
		return time.Unix(int64(v), 0).UTC(), true
	case int64:
		return time.Unix(v, 0).UTC(), true
	case float64:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), true
	default:
		return time.Time{}, false
	}
}

// serializeTime renders a parsed time per the format selector
func serializeTime(parsed time.Time, format string) interface{} {
	switch format {
	case FormatUnix:
		return parsed.Unix()
	case FormatDate:
		return parsed.Format("2006-01-02")
	case FormatDateTime:
		return parsed.Format("2006-01-02 15:04:05")
	default:
		return parsed.Format(time.RFC3339)
	}
}
