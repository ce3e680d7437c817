// Package normalize converts the heterogeneous wire formats used by the
// remote table service and the event store into canonical internal values.
// All functions are total: malformed input degrades to a zero value and a
// warning log, never an error.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/logger"
)

// rawKind classifies a raw wire value before dispatching to the matching
// normalization rule.
type rawKind int

const (
	rawAbsent rawKind = iota
	rawString
	rawStringList
	rawAnyList
	rawOther
)

func classify(raw any) rawKind {
	switch raw.(type) {
	case nil:
		return rawAbsent
	case string:
		return rawString
	case []string:
		return rawStringList
	case []any:
		return rawAnyList
	default:
		return rawOther
	}
}

// Date converts a raw date string into ISO yyyy-mm-dd. The format is
// detected by delimiter: slash means month/day/year, dot means
// day.month.year, dash means year-month-day (already ISO, re-padded).
// Anything else returns "" and logs a warning.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var parts []string
	var month, day, year string

	switch {
	case strings.Contains(raw, "/"):
		parts = strings.Split(raw, "/")
		if len(parts) != 3 {
			logger.Warn("Unrecognized date format", zap.String("raw", raw))
			return ""
		}
		month, day, year = parts[0], parts[1], parts[2]
	case strings.Contains(raw, "."):
		parts = strings.Split(raw, ".")
		if len(parts) != 3 {
			logger.Warn("Unrecognized date format", zap.String("raw", raw))
			return ""
		}
		day, month, year = parts[0], parts[1], parts[2]
	case strings.Contains(raw, "-"):
		parts = strings.Split(raw, "-")
		if len(parts) != 3 {
			logger.Warn("Unrecognized date format", zap.String("raw", raw))
			return ""
		}
		year, month, day = parts[0], parts[1], parts[2]
	default:
		logger.Warn("Unrecognized date format", zap.String("raw", raw))
		return ""
	}

	y, errY := strconv.Atoi(strings.TrimSpace(year))
	m, errM := strconv.Atoi(strings.TrimSpace(month))
	d, errD := strconv.Atoi(strings.TrimSpace(day))
	if errY != nil || errM != nil || errD != nil {
		logger.Warn("Non-numeric date segment", zap.String("raw", raw))
		return ""
	}

	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// List coerces a raw wire value into a slice of trimmed strings. Strings are
// comma-split, native lists are trimmed element-wise, absent values yield an
// empty slice. Empty segments are dropped, so "" never becomes [""].
func List(raw any) []string {
	out := []string{}

	appendTrimmed := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	switch classify(raw) {
	case rawString:
		for _, seg := range strings.Split(raw.(string), ",") {
			appendTrimmed(seg)
		}
	case rawStringList:
		for _, s := range raw.([]string) {
			appendTrimmed(s)
		}
	case rawAnyList:
		for _, v := range raw.([]any) {
			if s, ok := v.(string); ok {
				appendTrimmed(s)
			}
		}
	case rawAbsent:
	default:
		logger.Warn("Unexpected list wire type", zap.Any("raw", raw))
	}

	return out
}

// Set is List with order-preserving deduplication, used for principal and
// user identifier fields.
func Set(raw any) []string {
	items := List(raw)
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, s := range items {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Flag reports whether a raw wire value is the remote table's "Y" marker or
// the event store's true/"true". Everything else is false.
func Flag(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "Y" || v == "true"
	default:
		return false
	}
}

// String returns the raw value if it is a non-empty string, otherwise the
// fallback.
func String(raw any, fallback string) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return fallback
}
