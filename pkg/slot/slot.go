package slot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Three spellings of the same slot identifier coexist on the wire: the
// canonical backend form ("slot3"), the legacy form ("hour3") still sent by
// older clients, and the form the frontend prefers ("block3"). Normalization
// substitutes the prefix and keeps the trailing number.
const (
	CanonicalPrefix = "slot"
	LegacyPrefix    = "hour"
	FrontendPrefix  = "block"

	// FirstHour is the start hour of slot 1; slot N occupies hour N+FirstHour-1.
	FirstHour = 8

	// Count is the number of bookable blocks in a day (08:00 through 18:00 starts).
	Count = 11
)

// Normalize rewrites any recognized slot identifier to the canonical backend
// form. Accepted inputs: canonical form, legacy form, frontend form, or a
// bare number. Unrecognized input is logged and returned unchanged rather
// than rejected; downstream availability lookups treat it as an unknown slot.
func Normalize(id string) string {
	trimmed := strings.TrimSpace(id)

	if _, err := strconv.Atoi(trimmed); err == nil {
		return CanonicalPrefix + trimmed
	}

	for _, prefix := range []string{CanonicalPrefix, LegacyPrefix, FrontendPrefix} {
		rest := strings.TrimPrefix(trimmed, prefix)
		if rest == trimmed {
			continue
		}
		if _, err := strconv.Atoi(rest); err == nil {
			return CanonicalPrefix + rest
		}
	}

	logrus.Warnf("Unrecognized slot identifier %q, passing through unchanged", id)
	return id
}

// Denormalize converts a slot identifier to the frontend's preferred form.
// Unrecognized input passes through unchanged, same as Normalize.
func Denormalize(id string) string {
	normalized := Normalize(id)
	rest := strings.TrimPrefix(normalized, CanonicalPrefix)
	if rest == normalized {
		return id
	}
	return FrontendPrefix + rest
}

// Number extracts the slot number from any recognized identifier form.
func Number(id string) (int, bool) {
	normalized := Normalize(id)
	rest := strings.TrimPrefix(normalized, CanonicalPrefix)
	if rest == normalized {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Hour returns the start hour encoded by the identifier (slot N -> hour N+7).
// The second return is false when the identifier is unrecognized or outside
// the fixed eleven-block day.
func Hour(id string) (int, bool) {
	n, ok := Number(id)
	if !ok || n < 1 || n > Count {
		return 0, false
	}
	return n + FirstHour - 1, true
}

// FromHour returns the canonical identifier for the slot starting at the
// given hour, or false when the hour falls outside the bookable day.
func FromHour(hour int) (string, bool) {
	n := hour - FirstHour + 1
	if n < 1 || n > Count {
		return "", false
	}
	return fmt.Sprintf("%s%d", CanonicalPrefix, n), true
}

// Label renders a display label such as "08:00 - 09:00" for a recognized
// identifier, or the identifier itself when it cannot be decoded.
func Label(id string) string {
	hour, ok := Hour(id)
	if !ok {
		return id
	}
	return fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1)
}

// All returns the canonical identifiers of the fixed eleven-block day in order.
func All() []string {
	ids := make([]string, 0, Count)
	for n := 1; n <= Count; n++ {
		ids = append(ids, fmt.Sprintf("%s%d", CanonicalPrefix, n))
	}
	return ids
}
