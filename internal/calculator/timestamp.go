package calculator

import (
	"math"
	"time"
)

// TimestampKind records how a raw timestamp value was interpreted
type TimestampKind int

const (
	Unparseable TimestampKind = iota
	FromTime
	FromText
	FromEpoch
)

func (k TimestampKind) String() string {
	switch k {
	case FromTime:
		return "time"
	case FromText:
		return "text"
	case FromEpoch:
		return "epoch"
	default:
		return "unparseable"
	}
}

// Timestamp is the result of interpreting a raw timestamp value. Callers
// decide what to do with an Unparseable result.
type Timestamp struct {
	Time time.Time
	Kind TimestampKind
}

// Parsed reports whether the value was understood as a point in time
func (ts Timestamp) Parsed() bool {
	return ts.Kind != Unparseable
}

// isoLayouts are the ISO-8601 forms accepted for text timestamps, in the
// extended (2024-01-15T02:00) and basic (20240115T0200) notations. Offsets may
// be written with or without a colon.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
	"20060102T150405.999999999Z07:00",
	"20060102T150405.999999999Z0700",
	"20060102T150405.999999999",
	"20060102T1504",
	"20060102",
}

// Epoch seconds outside years 1..9999 are rejected.
const (
	minEpoch = -62135596800
	maxEpoch = 253402300799
)

// ParseTimestamp interprets v as a point in time. Text without an offset and
// epoch numbers are placed in loc; time values keep their own location.
func ParseTimestamp(v any, loc *time.Location) Timestamp {
	switch t := v.(type) {
	case time.Time:
		return Timestamp{Time: t, Kind: FromTime}
	case *time.Time:
		if t != nil {
			return Timestamp{Time: *t, Kind: FromTime}
		}
	case string:
		return parseText(t, loc)
	case []byte:
		return parseText(string(t), loc)
	case int:
		return parseEpoch(float64(t), loc)
	case int32:
		return parseEpoch(float64(t), loc)
	case int64:
		return parseEpoch(float64(t), loc)
	case float32:
		return parseEpoch(float64(t), loc)
	case float64:
		return parseEpoch(t, loc)
	}
	return Timestamp{}
}

func parseText(s string, loc *time.Location) Timestamp {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Timestamp{Time: t, Kind: FromText}
		}
	}
	return Timestamp{}
}

func parseEpoch(f float64, loc *time.Location) Timestamp {
	if math.IsNaN(f) || f < minEpoch || f > maxEpoch {
		return Timestamp{}
	}
	sec := math.Floor(f)
	nsec := math.Round((f - sec) * 1e9)
	return Timestamp{Time: time.Unix(int64(sec), int64(nsec)).In(loc), Kind: FromEpoch}
}

// isBlank reports whether v carries no timestamp at all: nil, empty text,
// zero numbers and the zero time.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []byte:
		return len(t) == 0
	case int:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case float32:
		return t == 0
	case float64:
		return t == 0
	case bool:
		return !t
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t == nil || t.IsZero()
	}
	return false
}
