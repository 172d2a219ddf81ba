package pttest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	digitsPattern     = regexp.MustCompile(`^\d+$`)
	minSecPattern     = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	leadingIntPattern = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseTimeToSeconds converts "M:SS" or plain seconds into a number of seconds.
// PRE: none
// POST: ok is false for blank or unparseable input
// INVARIANT: ParseTimeToSeconds(FormatSecondsToTime(n)) == n for n > 0
func ParseTimeToSeconds(text string) (int, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	if digitsPattern.MatchString(s) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	}
	if m := minSecPattern.FindStringSubmatch(s); m != nil {
		minutes, err1 := strconv.Atoi(m[1])
		seconds, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return minutes*60 + seconds, true
	}
	// Best effort: take the leading integer, e.g. "95s" -> 95.
	lead := leadingIntPattern.FindString(s)
	if lead == "" {
		return 0, false
	}
	n, err := strconv.Atoi(lead)
	return n, err == nil
}

// FormatSecondsToTime renders seconds as "M:SS". Zero and negative values render as "".
func FormatSecondsToTime(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
