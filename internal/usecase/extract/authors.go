package extract

import (
	"regexp"
	"sort"
)

// PatternDetector extracts two-token capitalized names following the
// markers "by", "author", and "like". It is a heuristic, not NER.
type PatternDetector struct {
	patterns []*regexp.Regexp
}

// NewPatternDetector creates the default author detector.
func NewPatternDetector() *PatternDetector {
	return &PatternDetector{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bby\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
			regexp.MustCompile(`\bauthor\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
			regexp.MustCompile(`\blike\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		},
	}
}

// Detect returns the union of all pattern matches as a sorted set.
func (d *PatternDetector) Detect(raw string) []string {
	seen := make(map[string]struct{})
	for _, p := range d.patterns {
		for _, m := range p.FindAllStringSubmatch(raw, -1) {
			seen[m[1]] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
