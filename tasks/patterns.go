package tasks

import (
	"regexp"
	"strings"
)

// lineMatch is the raw result of matching a single extraction line.
type lineMatch struct {
	title     string
	completed bool
}

// extractorFunc turns regexp submatches into a lineMatch.
type extractorFunc func(groups []string) lineMatch

// linePattern pairs a matcher with its extractor.
type linePattern struct {
	name    string
	matcher *regexp.Regexp
	extract extractorFunc
}

// linePatterns is evaluated top to bottom per line; the first match wins.
// Order is deliberate: explicit syntax (checkboxes, TODO markers) takes
// precedence over looser phrasing heuristics.
var linePatterns = []linePattern{
	{
		name:    "checkbox",
		matcher: regexp.MustCompile(`^[-*+]?\s*\[([ xX])\]\s*(.+)$`),
		extract: func(groups []string) lineMatch {
			return lineMatch{
				title:     groups[2],
				completed: strings.EqualFold(groups[1], "x"),
			}
		},
	},
	{
		name:    "todo-marker",
		matcher: regexp.MustCompile(`(?i)^(?:TODO|TASK)\s*:?\s+(.+)$`),
		extract: func(groups []string) lineMatch {
			return lineMatch{title: groups[1]}
		},
	},
	{
		name:    "modal-verb",
		matcher: regexp.MustCompile(`(?i)^.*?\b(?:need(?:s)? to|have to|has to|must|should)\s+(.+)$`),
		extract: func(groups []string) lineMatch {
			return lineMatch{title: groups[1]}
		},
	},
	{
		name:    "action-verb",
		matcher: regexp.MustCompile(`(?i)^((?:call|email|buy|schedule|review|finish|send|write|submit|update|fix|check|pay|book|order|prepare|clean)\b.+)$`),
		extract: func(groups []string) lineMatch {
			return lineMatch{title: groups[1]}
		},
	},
}

// matchLine runs the ordered pattern table against one line.
func matchLine(line string) (lineMatch, bool) {
	for _, pattern := range linePatterns {
		groups := pattern.matcher.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		match := pattern.extract(groups)
		if strings.TrimSpace(match.title) == "" {
			continue
		}
		return match, true
	}
	return lineMatch{}, false
}
