package operation

import (
	"context"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/tools"
)

// setNeedsReview moves the pull request into the needs-review state and
// asks the given reviewers for a review. The platform ignores requests
// for reviewers that are already pending, so repeating the transition
// is idempotent. The author can not review their own pull request and
// is filtered out.
func (h *Handler) setNeedsReview(ctx context.Context, ref model.PullRequestRef, author string, reviewers []string) error {
	if err := h.gateway.AddLabel(ctx, ref, LabelNeedsReview); err != nil {
		return err
	}
	for _, label := range []string{LabelNeedsChanges, LabelNeedsMerge} {
		if err := h.gateway.RemoveLabel(ctx, ref, label); err != nil {
			return err
		}
	}

	logins, teams := tools.Convert.SplitReviewers(
		tools.Convert.Remove(reviewers, author))
	if err := h.gateway.CreateReviewRequests(ctx, ref, logins, teams); err != nil {
		return err
	}

	global.Sugar.Infow("set needs-review",
		"issue", ref.String(),
		"reviewers", logins,
		"teams", teams,
	)
	return nil
}

// setNeedsChanges moves the pull request into the needs-changes state:
// all pending review requests are withdrawn and the pull request goes
// back to its author.
func (h *Handler) setNeedsChanges(ctx context.Context, ref model.PullRequestRef, author string) error {
	if err := h.gateway.AddLabel(ctx, ref, LabelNeedsChanges); err != nil {
		return err
	}
	for _, label := range []string{LabelNeedsReview, LabelNeedsMerge} {
		if err := h.gateway.RemoveLabel(ctx, ref, label); err != nil {
			return err
		}
	}

	info, err := h.gateway.GetPullRequest(ctx, ref)
	if err != nil {
		return err
	}
	if err := h.gateway.DeleteReviewRequests(
		ctx, ref, info.RequestedReviewers, info.RequestedTeams); err != nil {
		return err
	}

	if err := h.gateway.SetAssignees(ctx, ref, []string{author}); err != nil {
		return err
	}

	global.Sugar.Infow("set needs-changes",
		"issue", ref.String(),
		"author", author,
	)
	return nil
}

// setApproveChanges records one reviewer's approval. When every
// reviewer that reviewed approves and nobody is still pending, the pull
// request becomes needs-merge and goes back to the author; while
// reviews are still pending nothing changes.
func (h *Handler) setApproveChanges(ctx context.Context, ref model.PullRequestRef, author, reviewer string, remainingReviewers []string) error {
	reviews, err := h.gateway.ListReviews(ctx, ref)
	if err != nil {
		return err
	}
	if !hasOnlyApprovingReviews(reviews, reviewerIdentities(reviews)) {
		// Somebody still wants changes. Not a failure, just not ready.
		global.Sugar.Infow("blocking reviews still present",
			"issue", ref.String(),
			"reviewer", reviewer,
		)
		return nil
	}

	if len(remainingReviewers) > 0 {
		global.Sugar.Infow("approval recorded, reviews still pending",
			"issue", ref.String(),
			"reviewer", reviewer,
			"remaining", remainingReviewers,
		)
		return nil
	}

	if err := h.gateway.AddLabel(ctx, ref, LabelNeedsMerge); err != nil {
		return err
	}
	for _, label := range []string{LabelNeedsReview, LabelNeedsChanges} {
		if err := h.gateway.RemoveLabel(ctx, ref, label); err != nil {
			return err
		}
	}
	if err := h.gateway.SetAssignees(ctx, ref, []string{author}); err != nil {
		return err
	}

	global.Sugar.Infow("set needs-merge",
		"issue", ref.String(),
		"reviewer", reviewer,
		"author", author,
	)
	return nil
}
