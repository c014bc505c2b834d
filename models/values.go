package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Text is a string that also accepts JSON numbers, booleans and null.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text(strings.TrimSpace(stringify(b)))
	return nil
}

// String returns the underlying string.
func (t Text) String() string { return string(t) }

// Flag is a boolean that accepts true, "true" and "TRUE".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = Flag(strings.EqualFold(strings.TrimSpace(stringify(b)), "true"))
	return nil
}

// OptionalInt is an integer that may be absent. Strings holding an integer
// are accepted.
type OptionalInt struct {
	Value int64
	Valid bool
}

// IntOf returns a present OptionalInt.
func IntOf(v int64) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	*o = OptionalInt{}
	s := strings.TrimSpace(stringify(b))
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*o = IntOf(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) {
		*o = IntOf(int64(f))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(o.Value, 10)), nil
}

// StringList is a list of non-empty strings. A bare string decodes to a
// one-element list and non-string elements are dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		if s := strings.TrimSpace(stringify(b)); s != "" {
			*l = StringList{s}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '"' {
				continue
			}
			if s := strings.TrimSpace(stringify(item)); s != "" {
				*l = append(*l, s)
			}
		}
	}
	return nil
}

// epochMillisCutoff separates epoch seconds from epoch milliseconds.
// 1e12 ms is September 2001; 1e12 s is far beyond any plausible listing.
const epochMillisCutoff = 1e12

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is an instant normalized to epoch milliseconds.
type Timestamp struct {
	Millis int64
	Valid  bool
}

// ParseTimestamp accepts epoch seconds, epoch milliseconds (as digits) or
// an ISO date/datetime.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return timestampFromEpoch(f)
	}
	for _, layout := range timestampLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return Timestamp{Millis: tm.UnixMilli(), Valid: true}
		}
	}
	return Timestamp{}
}

func timestampFromEpoch(f float64) Timestamp {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Timestamp{}
	}
	if math.Abs(f) < epochMillisCutoff {
		f *= 1000
	}
	return Timestamp{Millis: int64(f), Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = ParseTimestamp(stringify(b))
	return nil
}

// Ptr returns the millis as a pointer, nil when absent.
func (t Timestamp) Ptr() *int64 {
	if !t.Valid {
		return nil
	}
	ms := t.Millis
	return &ms
}
