package catalog

import "strings"

// Providers returns the distinct, trimmed, non-empty provider names in first-seen order.
func Providers(items []Item) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range items {
		p := strings.TrimSpace(items[i].provider)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
