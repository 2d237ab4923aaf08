package tools

import "strings"

// SplitReviewers partitions reviewer identities into account logins and
// bare team slugs. An identity containing "/" is a team reference;
// everything up to and including the last "/" is stripped to get the
// slug the platform API expects.
func (c convertFunctions) SplitReviewers(reviewers []string) (logins, teams []string) {
	logins = make([]string, 0, len(reviewers))
	teams = make([]string, 0)
	for _, r := range reviewers {
		if r == "" {
			continue
		}
		if i := strings.LastIndex(r, "/"); i >= 0 {
			if slug := r[i+1:]; slug != "" {
				teams = append(teams, slug)
			}
			continue
		}
		logins = append(logins, r)
	}
	return logins, teams
}

// Merge appends the entries of extra that are not yet in base,
// preserving order. Comparison is case-insensitive, as platform logins
// are.
func (c convertFunctions) Merge(base, extra []string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, v := range list {
			key := strings.ToLower(v)
			if v == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, v)
		}
	}
	return merged
}

// Remove returns list without the given entry, case-insensitively.
func (c convertFunctions) Remove(list []string, entry string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if strings.EqualFold(v, entry) {
			continue
		}
		out = append(out, v)
	}
	return out
}
