package webvtt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimestamp is wrapped by every ParseTimestamp failure.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

var (
	secondsField = regexp.MustCompile(`^\d+(\.\d+)?$`)
	integerField = regexp.MustCompile(`^\d+$`)
)

// ParseTimestamp converts "[[HH:]MM:]SS[.mmm]" to seconds. Minutes and
// seconds are not range checked, so "60:00.000" is 3600.
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}

	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q has too many fields", ErrInvalidTimestamp, s)
	}

	last := len(fields) - 1
	if !secondsField.MatchString(fields[last]) {
		return 0, fmt.Errorf("%w: bad seconds in %q", ErrInvalidTimestamp, s)
	}
	for _, f := range fields[:last] {
		if !integerField.MatchString(f) {
			return 0, fmt.Errorf("%w: bad field %q in %q", ErrInvalidTimestamp, f, s)
		}
	}

	// hours, minutes, seconds right-aligned
	var parts [3]float64
	offset := 3 - len(fields)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, s, err)
		}
		parts[offset+i] = v
	}

	total := parts[0]*3600 + parts[1]*60 + parts[2]
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidTimestamp, s)
	}
	return total, nil
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm, rounding to the
// nearest millisecond. Negative input is clamped to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	d := time.Duration(math.Round(seconds*1000)) * time.Millisecond

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}
