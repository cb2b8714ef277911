package tasks

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/notewise/core"
)

// Priority markers, checked strongest first so "!!!" is never consumed by
// the weaker bang rules.
var (
	highBangRe   = regexp.MustCompile(`!{3,}`)
	highWordRe   = regexp.MustCompile(`(?i)\b(?:urgent|critical|asap)\b`)
	mediumBangRe = regexp.MustCompile(`!{2}`)
	mediumWordRe = regexp.MustCompile(`(?i)\bimportant\b`)
	lowBangRe    = regexp.MustCompile(`!`)
	lowWordRe    = regexp.MustCompile(`(?i)\b(?:low priority|when possible)\b`)
)

// inferPriority scans the title for priority markers, returning the
// inferred priority and the title with the matched marker stripped.
// Default is medium when no marker is present.
func inferPriority(title string) (core.Priority, string) {
	switch {
	case highBangRe.MatchString(title):
		return core.PriorityHigh, highBangRe.ReplaceAllString(title, "")
	case highWordRe.MatchString(title):
		return core.PriorityHigh, highWordRe.ReplaceAllString(title, "")
	case mediumBangRe.MatchString(title):
		return core.PriorityMedium, mediumBangRe.ReplaceAllString(title, "")
	case mediumWordRe.MatchString(title):
		return core.PriorityMedium, mediumWordRe.ReplaceAllString(title, "")
	case lowWordRe.MatchString(title):
		return core.PriorityLow, lowWordRe.ReplaceAllString(title, "")
	case lowBangRe.MatchString(title):
		return core.PriorityLow, lowBangRe.ReplaceAllString(title, "")
	}
	return core.PriorityMedium, title
}

// Relative due-date expressions, evaluated in this fixed order; the first
// match is converted to an absolute timestamp and stripped from the title.
var dueDateRules = []struct {
	matcher *regexp.Regexp
	resolve func(groups []string, now time.Time) (time.Time, bool)
}{
	{
		matcher: regexp.MustCompile(`(?i)\btoday\b`),
		resolve: func(_ []string, now time.Time) (time.Time, bool) { return now, true },
	},
	{
		matcher: regexp.MustCompile(`(?i)\btomorrow\b`),
		resolve: func(_ []string, now time.Time) (time.Time, bool) { return now.AddDate(0, 0, 1), true },
	},
	{
		matcher: regexp.MustCompile(`(?i)\bnext week\b`),
		resolve: func(_ []string, now time.Time) (time.Time, bool) { return now.AddDate(0, 0, 7), true },
	},
	{
		matcher: regexp.MustCompile(`(?i)\bnext month\b`),
		resolve: func(_ []string, now time.Time) (time.Time, bool) { return now.AddDate(0, 0, 30), true },
	},
	{
		matcher: regexp.MustCompile(`(?i)\bin (\d+) days?\b`),
		resolve: func(groups []string, now time.Time) (time.Time, bool) {
			days, err := strconv.Atoi(groups[1])
			if err != nil {
				return time.Time{}, false
			}
			return now.AddDate(0, 0, days), true
		},
	},
	{
		matcher: regexp.MustCompile(`(?i)\b(?:by|before|due)\s+(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}(?:/\d{2,4})?|[A-Za-z]+\s+\d{1,2})\b`),
		resolve: parseExplicitDate,
	},
}

// explicitDateLayouts are tried in order for "by/before/due <date>"
// expressions.
var explicitDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"1/2",
	"January 2",
	"Jan 2",
}

func parseExplicitDate(groups []string, now time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(groups[1])
	for _, layout := range explicitDateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		// Layouts without a year parse into year 0; anchor to the current year
		if parsed.Year() == 0 {
			parsed = time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		}
		return parsed, true
	}
	return time.Time{}, false
}

// inferDueDate scans the title for a due-date expression, returning the
// resolved absolute timestamp (nil when none matched) and the title with
// the matched expression stripped.
func (e *Extractor) inferDueDate(title string) (*time.Time, string) {
	now := e.now()
	for _, rule := range dueDateRules {
		groups := rule.matcher.FindStringSubmatch(title)
		if groups == nil {
			continue
		}
		due, ok := rule.resolve(groups, now)
		if !ok {
			continue
		}
		return &due, rule.matcher.ReplaceAllString(title, "")
	}
	return nil, title
}
