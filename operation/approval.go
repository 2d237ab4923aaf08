package operation

import (
	"sort"
	"strings"

	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/tools"
)

// hasOnlyApprovingReviews reports whether every required reviewer that
// reviewed at all ends on an approval. Reviewers that never reviewed do
// not block; an empty history is vacuously approving.
//
// The fold keeps the latest review per reviewer, with one exception:
// a plain comment never retracts an earlier verdict. A comment whose
// body carries the approved marker counts as an approval.
func hasOnlyApprovingReviews(reviews []model.Review, requiredReviewers []string) bool {
	sorted := make([]model.Review, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	latest := make(map[string]string)
	for _, r := range sorted {
		reviewer := strings.ToLower(r.Reviewer)
		state := r.State
		if state == model.StateCommented {
			if tools.Parse.Approved(r.Body) {
				state = model.StateApproved
			} else if _, has := latest[reviewer]; has {
				// A comment does not overwrite a verdict.
				continue
			}
		}
		latest[reviewer] = state
	}

	for _, reviewer := range requiredReviewers {
		state, reviewed := latest[strings.ToLower(reviewer)]
		if reviewed && state != model.StateApproved {
			return false
		}
	}
	return true
}

// reviewerIdentities returns the distinct reviewers present in the
// history, in first-seen order.
func reviewerIdentities(reviews []model.Review) []string {
	identities := make([]string, 0, len(reviews))
	for _, r := range reviews {
		identities = tools.Convert.Merge(identities, []string{r.Reviewer})
	}
	return identities
}
