// Package format renders timestamps for display.
package format

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the fr-FR short date (dd/mm/yyyy).
const DateLayout = "02/01/2006"

var inputLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTime accepts ISO timestamps and bare dates.
func ParseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO string with layout (DateLayout when empty).
// Empty or unparseable input yields "".
func FormatDate(value, layout string) string {
	t, ok := ParseTime(value)
	if !ok {
		return ""
	}
	return FormatTime(t, layout)
}

func FormatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayout
	}
	return t.Format(layout)
}

type phrases struct {
	justNow   string
	minutes   func(n int) string
	hours     func(n int) string
	yesterday string
	days      func(n int) string
	weeks     func(n int) string
	months    func(n int) string
	years     func(n int) string
}

func plural(n int, suffix string) string {
	if n > 1 {
		return suffix
	}
	return ""
}

var french = phrases{
	justNow:   "À l'instant",
	minutes:   func(n int) string { return fmt.Sprintf("Il y a %d minute%s", n, plural(n, "s")) },
	hours:     func(n int) string { return fmt.Sprintf("Il y a %d heure%s", n, plural(n, "s")) },
	yesterday: "Hier",
	days:      func(n int) string { return fmt.Sprintf("Il y a %d jours", n) },
	weeks:     func(n int) string { return fmt.Sprintf("Il y a %d semaine%s", n, plural(n, "s")) },
	months:    func(n int) string { return fmt.Sprintf("Il y a %d mois", n) },
	years:     func(n int) string { return fmt.Sprintf("Il y a %d an%s", n, plural(n, "s")) },
}

var english = phrases{
	justNow:   "Just now",
	minutes:   func(n int) string { return fmt.Sprintf("%d minute%s ago", n, plural(n, "s")) },
	hours:     func(n int) string { return fmt.Sprintf("%d hour%s ago", n, plural(n, "s")) },
	yesterday: "Yesterday",
	days:      func(n int) string { return fmt.Sprintf("%d days ago", n) },
	weeks:     func(n int) string { return fmt.Sprintf("%d week%s ago", n, plural(n, "s")) },
	months:    func(n int) string { return fmt.Sprintf("%d month%s ago", n, plural(n, "s")) },
	years:     func(n int) string { return fmt.Sprintf("%d year%s ago", n, plural(n, "s")) },
}

func phrasesFor(locale string) phrases {
	if strings.HasPrefix(strings.ToLower(locale), "en") {
		return english
	}
	return french
}

// TimeAgo describes how long before now t happened. Months are 30 days and
// years 365 days. A zero t yields "".
func TimeAgo(t, now time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	p := phrasesFor(locale)

	secs := int(now.Sub(t) / time.Second)
	if secs < 60 {
		return p.justNow
	}
	mins := secs / 60
	if mins < 60 {
		return p.minutes(mins)
	}
	hours := mins / 60
	if hours < 24 {
		return p.hours(hours)
	}
	days := hours / 24
	if days < 7 {
		if days == 1 {
			return p.yesterday
		}
		return p.days(days)
	}
	if weeks := days / 7; weeks < 4 {
		return p.weeks(weeks)
	}
	if months := days / 30; months < 12 {
		return p.months(months)
	}
	return p.years(days / 365)
}

// IsRecent reports whether t is less than 24 whole hours before now.
func IsRecent(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return int(now.Sub(t)/time.Hour) < 24
}
