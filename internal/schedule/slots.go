package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SlotInterval is the width of one bookable slot.
const SlotInterval = 15 * time.Minute

const minutesPerDay = 24 * 60

// ParseClock parses "HH:MM" (or "HH:MM:SS") into minutes after midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeSlot rewrites a slot label to the canonical "HH:MM" form.
func NormalizeSlot(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// Window is a half-open [Start, End) availability range on one day.
type Window struct {
	Start string
	End   string
}

// GenerateSlots expands windows into ascending, de-duplicated slot labels and
// drops every label present in booked. Windows whose times do not parse or
// whose start is not before end contribute nothing.
func GenerateSlots(windows []Window, booked []string) []string {
	step := int(SlotInterval / time.Minute)

	taken := make(map[int]struct{}, len(booked))
	for _, b := range booked {
		if m, err := ParseClock(b); err == nil {
			taken[m] = struct{}{}
		}
	}

	seen := make(map[int]struct{})
	for _, w := range windows {
		start, err := ParseClock(w.Start)
		if err != nil {
			continue
		}
		end, err := ParseClock(w.End)
		if err != nil || start >= end {
			continue
		}
		for cur := start; cur < end && cur < minutesPerDay; cur += step {
			if _, ok := taken[cur]; ok {
				continue
			}
			seen[cur] = struct{}{}
		}
	}

	minutes := make([]int, 0, len(seen))
	for m := range seen {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	out := make([]string, len(minutes))
	for i, m := range minutes {
		out[i] = FormatClock(m)
	}
	return out
}
