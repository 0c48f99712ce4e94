package codec

import (
	"time"

	"github.com/reoring/bsonskema/dsl"
)

// RFC3339 returns a schema storing time.Time as an RFC3339 string. Decoding
// accepts any value the builtin string coercer accepts that parses as
// RFC3339 or RFC3339Nano; encoding writes UTC with trailing zeros trimmed.
func RFC3339() *TransformSchema[string, time.Time] {
	return Transform[string, time.Time](dsl.String(), parseRFC3339, func(t time.Time) (string, error) {
		return formatRFC3339Canonical(t), nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
