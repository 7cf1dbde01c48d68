package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// H:MM:SS with an optional fraction of any precision
	assTimestampRegex = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})(?:\.(\d*))?$`)
	// H:MM:SS,FFF with exactly three fraction digits
	srtTimestampRegex = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2}),(\d{3})$`)
)

// parses an ASS/SSA event timestamp such as 0:00:01.50
func parseASSTimestamp(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)
	matches := assTimestampRegex.FindStringSubmatch(ts)
	if matches == nil {
		return 0, errors.Wrapf(ErrMalformedTime, "invalid ASS timestamp %q", ts)
	}
	return clockDuration(ts, matches[1], matches[2], matches[3], matches[4])
}

// parses an SRT timestamp such as 00:00:01,500
func parseSRTTimestamp(ts string) (time.Duration, error) {
	matches := srtTimestampRegex.FindStringSubmatch(ts)
	if matches == nil {
		return 0, errors.Wrapf(ErrMalformedTime, "invalid SRT timestamp %q", ts)
	}
	return clockDuration(ts, matches[1], matches[2], matches[3], matches[4])
}

func clockDuration(
	ts, hours, minutes, seconds, fraction string,
) (time.Duration, error) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil || h > int64(maxHours) {
		return 0, errors.Wrapf(ErrMalformedTime, "hour out of range in %q", ts)
	}
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	if m > 59 || s > 59 {
		return 0, errors.Wrapf(ErrMalformedTime, "minute or second out of range in %q", ts)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		fractionDuration(fraction), nil
}

// keeps the duration arithmetic clear of int64 overflow
const maxHours = 1_000_000

// converts the digits after the decimal separator, truncating past nanoseconds
func fractionDuration(digits string) time.Duration {
	if len(digits) > 9 {
		digits = digits[:9]
	}
	var nanos int64
	for i := 0; i < 9; i++ {
		nanos *= 10
		if i < len(digits) {
			nanos += int64(digits[i] - '0')
		}
	}
	return time.Duration(nanos)
}

// renders H:MM:SS.CC; hundredths are truncated, never rounded
func formatASSTimestamp(d time.Duration) string {
	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	seconds := int64(d/time.Second) % 60
	centis := int64(d%time.Second) / int64(10*time.Millisecond)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
