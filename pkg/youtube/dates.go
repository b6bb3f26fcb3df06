package youtube

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

var relativeDateRe = regexp.MustCompile(`(?i)^(?:Streamed\s+)?(\d+)\s+(hour|day|week|month|year)s?\s+ago$`)

// ParseRelativeDate converts a YouTube relative date label such as
// "3 days ago" or "Streamed 2 weeks ago" to an absolute date, counting
// back from now. Months count as 30 days and years as 365, so the
// result degrades with age and callers should treat it as approximate.
func ParseRelativeDate(label string, now time.Time) (time.Time, error) {
	m := relativeDateRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return time.Time{}, eris.New("youtube: unrecognized relative date " + strconv.Quote(label))
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, eris.Wrap(err, "youtube: parse relative date count")
	}

	var d time.Duration
	switch strings.ToLower(m[2]) {
	case "hour":
		d = time.Duration(n) * time.Hour
	case "day":
		d = time.Duration(n) * 24 * time.Hour
	case "week":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "month":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "year":
		d = time.Duration(n) * 365 * 24 * time.Hour
	}

	return now.Add(-d), nil
}

// ParseISODuration converts a YouTube ISO 8601 duration such as
// "PT4H30M15S" to a time.Duration. Only hour, minute and second
// components appear in video durations.
func ParseISODuration(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "PT") {
		return 0, eris.New("youtube: unrecognized duration " + strconv.Quote(s))
	}
	rest := s[2:]

	var total time.Duration
	num := ""
	for _, r := range rest {
		if r >= '0' && r <= '9' {
			num += string(r)
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, eris.New("youtube: unrecognized duration " + strconv.Quote(s))
		}
		switch r {
		case 'H':
			total += time.Duration(n) * time.Hour
		case 'M':
			total += time.Duration(n) * time.Minute
		case 'S':
			total += time.Duration(n) * time.Second
		default:
			return 0, eris.New("youtube: unrecognized duration " + strconv.Quote(s))
		}
		num = ""
	}
	return total, nil
}
