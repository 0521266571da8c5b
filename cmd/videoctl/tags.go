package main

import "strings"

// MaxTags caps the tags accepted from the command line
const MaxTags = 10

// normalizeTags trims tags, drops blanks and repeats, and keeps at most
// MaxTags in input order
func normalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		if len(tags) == MaxTags {
			break
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
