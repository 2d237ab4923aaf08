package operation

import (
	"github.com/chevah/github-hooks-server/tools"
)

// resolveReviewers returns the reviewers for a pull request, applying
// the precedence: explicit mentions in the message, then the
// repository default, then the organization default.
//
// For review_requested the requester already picked everybody needed,
// so no default is filled in when the text names nobody.
func (h *Handler) resolveReviewers(message, fullName, action string) []string {
	mentions := tools.Parse.Mentions(message)
	if len(mentions) > 0 {
		return mentions
	}

	if action == ActionReviewRequested {
		return nil
	}

	if repo := h.conf.DefaultReviewers.Repo(fullName); len(repo) > 0 {
		return repo
	}
	return h.conf.DefaultReviewers.Org(fullName)
}
