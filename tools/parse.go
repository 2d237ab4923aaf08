package tools

import (
	"regexp"
	"strings"
)

// Command markers recognised in PR descriptions, review overviews and
// comments. Matching is per line and anchored at line start only, so
// any line containing a marker qualifies. All matching is
// case-insensitive.
var (
	reReviewers    = regexp.MustCompile(`(?i)^.*reviewers?:?[ \t]+@.*`)
	reNeedsReview  = regexp.MustCompile(`(?i)^.*(needs?[-_]?review|please[-_ ]review|review[-_ ]please).*`)
	reNeedsChanges = regexp.MustCompile(`(?i)^.*needs?[-_]?changes?.*`)
	reApproved     = regexp.MustCompile(`(?i)^.*(changes?[-_]?approved?|approved-at[ \t]+\S+).*`)
)

// Mentions returns the @-mentioned logins from every "reviewers:" line,
// in first-seen order, without the leading @. Duplicates are kept; the
// consumers merge lists themselves. Empty text yields an empty list.
func (p parseFunctions) Mentions(text string) []string {
	mentions := make([]string, 0)
	for _, line := range splitLines(text) {
		if !reReviewers.MatchString(line) {
			continue
		}
		for _, word := range strings.Fields(line) {
			if strings.HasPrefix(word, "@") && len(word) > 1 {
				mentions = append(mentions, strings.TrimPrefix(word, "@"))
			}
		}
	}
	return mentions
}

// NeedsReview reports whether any line carries a needs-review marker.
// "needs review" separator variants, "please review" and
// "review please" all count.
func (p parseFunctions) NeedsReview(text string) bool {
	return anyLine(text, reNeedsReview)
}

// NeedsChanges reports whether any line carries a needs-changes marker.
func (p parseFunctions) NeedsChanges(text string) bool {
	return anyLine(text, reNeedsChanges)
}

// Approved reports whether any line carries a changes-approved marker
// or an "approved-at <sha>" marker.
func (p parseFunctions) Approved(text string) bool {
	return anyLine(text, reApproved)
}

func anyLine(text string, re *regexp.Regexp) bool {
	for _, line := range splitLines(text) {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
