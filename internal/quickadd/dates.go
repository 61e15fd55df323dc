package quickadd

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned for tokens that match none of the supported
// formats or name an impossible calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Supported date token formats, tried in order.
var (
	isoRe     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	yymmddRe  = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})$`)
	ddmmmyyRe = regexp.MustCompile(`(?i)^(\d{2})(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)(\d{2})$`)
	ddmmmRe   = regexp.MustCompile(`(?i)^(\d{2})(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)$`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate converts a date token to midnight UTC of the named day.
// Supported formats: YYYY-MM-DD, YYMMDD, DDMmmYY, and DDMmm, where the
// last infers the next future occurrence of that day and month relative
// to now.
func ParseDate(token string, now time.Time) (time.Time, error) {
	var year, day int
	var month time.Month

	switch {
	case isoRe.MatchString(token):
		m := isoRe.FindStringSubmatch(token)
		year, _ = strconv.Atoi(m[1])
		mon, _ := strconv.Atoi(m[2])
		month = time.Month(mon)
		day, _ = strconv.Atoi(m[3])

	case yymmddRe.MatchString(token):
		m := yymmddRe.FindStringSubmatch(token)
		yy, _ := strconv.Atoi(m[1])
		year = yy + 2000
		mon, _ := strconv.Atoi(m[2])
		month = time.Month(mon)
		day, _ = strconv.Atoi(m[3])

	case ddmmmyyRe.MatchString(token):
		m := ddmmmyyRe.FindStringSubmatch(token)
		day, _ = strconv.Atoi(m[1])
		month = months[strings.ToLower(m[2])]
		yy, _ := strconv.Atoi(m[3])
		year = yy + 2000

	case ddmmmRe.MatchString(token):
		m := ddmmmRe.FindStringSubmatch(token)
		day, _ = strconv.Atoi(m[1])
		month = months[strings.ToLower(m[2])]
		nowUTC := now.UTC()
		year = nowUTC.Year()
		if month < nowUTC.Month() ||
			(month == nowUTC.Month() && day < nowUTC.Day()) {
			year++
		}

	default:
		return time.Time{}, ErrInvalidDate
	}

	// time.Date normalizes out-of-range components, so a round-trip
	// mismatch means the token named an impossible date like Feb 31.
	ts := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if ts.Year() != year || ts.Month() != month || ts.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return ts, nil
}
