// Package clock produces the canonical timestamp format used across
// the queue database: ISO-8601 UTC with second precision,
// "YYYY-MM-DDTHH:MM:SSZ". Lexical comparison of two stamps is
// equivalent to chronological comparison, which is what the store
// relies on for scheduling predicates.
package clock

import "time"

// Format renders t as a canonical stamp. Sub-second precision is
// dropped so that stamps stay lexically comparable at equal width.
func Format(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Now returns the current UTC time as a canonical stamp.
func Now() string {
	return Format(time.Now())
}

// In returns the canonical stamp d from now. Negative values produce
// stamps in the past.
func In(d time.Duration) string {
	return Format(time.Now().Add(d))
}

// Parse converts a canonical stamp back to a time.Time.
func Parse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
