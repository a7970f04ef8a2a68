package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date form used everywhere in the service.
const DateLayout = "2006-01-02"

// Weekday and month names are scanned as substrings in a fixed order, so a
// phrase naming several days resolves to whichever is listed first.
var weekdayNames = []struct {
	name string
	// Monday-based index, matching the arithmetic the qualifier rules expect.
	index int
}{
	{"monday", 0},
	{"tuesday", 1},
	{"wednesday", 2},
	{"thursday", 3},
	{"friday", 4},
	{"saturday", 5},
	{"sunday", 6},
}

var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January},
	{"february", time.February},
	{"march", time.March},
	{"april", time.April},
	{"may", time.May},
	{"june", time.June},
	{"july", time.July},
	{"august", time.August},
	{"september", time.September},
	{"october", time.October},
	{"november", time.November},
	{"december", time.December},
}

var (
	dayTokenPattern   = regexp.MustCompile(`\b(\d{1,2})\b`)
	clockMeridiemExpr = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)`)
	hourMeridiemExpr  = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)`)
	clock24Expr       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// NormalizeDate converts a natural-language date phrase into canonical
// YYYY-MM-DD relative to now. The boolean is false when no rule matches;
// that is missing information, never an error.
func NormalizeDate(now time.Time, phrase string) (string, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return "", false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if strings.Contains(phrase, "today") {
		return today.Format(DateLayout), true
	}

	if strings.Contains(phrase, "tomorrow") {
		return today.AddDate(0, 0, 1).Format(DateLayout), true
	}

	currentWeekday := mondayIndex(today.Weekday())
	for _, wd := range weekdayNames {
		if !strings.Contains(phrase, wd.name) {
			continue
		}
		daysAhead := wd.index - currentWeekday
		if strings.Contains(phrase, "next") {
			// "next" always skips past the nearest occurrence, even when the
			// day is still ahead this week.
			daysAhead += 7
		} else if daysAhead <= 0 {
			// Bare day name and "this" both prefer the current week and only
			// roll forward once the day has passed.
			daysAhead += 7
		}
		return today.AddDate(0, 0, daysAhead).Format(DateLayout), true
	}

	for _, m := range monthNames {
		if !strings.Contains(phrase, m.name) {
			continue
		}
		match := dayTokenPattern.FindStringSubmatch(phrase)
		if match == nil {
			continue
		}
		day, err := strconv.Atoi(match[1])
		if err != nil || day < 1 {
			continue
		}
		date := time.Date(now.Year(), m.month, day, 0, 0, 0, 0, now.Location())
		// time.Date normalizes overflow (e.g. February 31), which is not a
		// real calendar date; reject anything that shifted.
		if date.Month() != m.month || date.Day() != day {
			continue
		}
		return date.Format(DateLayout), true
	}

	return "", false
}

// NormalizeTime converts a natural-language time phrase into canonical
// 24-hour HH:MM. The boolean is false when no pattern matches.
func NormalizeTime(phrase string) (string, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return "", false
	}

	if strings.Contains(phrase, "am") || strings.Contains(phrase, "pm") {
		if m := clockMeridiemExpr.FindStringSubmatch(phrase); m != nil {
			hour, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%02d:%s", meridiemHour(hour, m[3]), m[2]), true
		}
		if m := hourMeridiemExpr.FindStringSubmatch(phrase); m != nil {
			hour, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%02d:00", meridiemHour(hour, m[2])), true
		}
	}

	if m := clock24Expr.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 0 && hour <= 23 {
			return fmt.Sprintf("%02d:%s", hour, m[2]), true
		}
	}

	return "", false
}

func meridiemHour(hour int, period string) int {
	if period == "pm" && hour != 12 {
		return hour + 12
	}
	if period == "am" && hour == 12 {
		return 0
	}
	return hour
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
