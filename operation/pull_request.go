package operation

import (
	"context"
	"fmt"

	"github.com/google/go-github/v30/github"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/tools"
)

// pullRequest handles review_requested and ready_for_review: the pull
// request enters needs-review with the resolved reviewer set.
//
// Reviewers requested through the platform take precedence;
// text-derived reviewers not already among them are merged in.
func (h *Handler) pullRequest(ctx context.Context, event model.Event) (string, error) {
	payload, ok := event.Payload.(*github.PullRequestEvent)
	if !ok {
		return "", fmt.Errorf("unexpected payload type for %q", event.Name)
	}

	action := payload.GetAction()
	if action != ActionReviewRequested && action != ActionReadyForReview {
		global.Sugar.Debugw("ignore pull_request action",
			"action", action,
			"delivery", event.Delivery,
		)
		return "nothing to do", nil
	}

	pr := payload.GetPullRequest()
	ref := model.NewPullRequestRef(
		payload.GetRepo().GetFullName(), pr.GetNumber())
	if err := h.skip(ref, event); err != nil {
		return "", err
	}

	requested := make([]string, 0)
	for _, u := range pr.RequestedReviewers {
		requested = append(requested, u.GetLogin())
	}
	for _, t := range pr.RequestedTeams {
		// Prefix with the owner so the team keeps its identity shape.
		requested = append(requested, ref.Owner+"/"+t.GetSlug())
	}

	reviewers := tools.Convert.Merge(requested,
		h.resolveReviewers(pr.GetBody(), ref.FullName(), action))

	err := h.setNeedsReview(ctx, ref, pr.GetUser().GetLogin(), reviewers)
	if err != nil {
		return "", err
	}
	return "needs-review set", nil
}
