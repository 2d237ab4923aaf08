package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v30/github"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/tools"
)

// pullRequestReview handles a submitted review. An approval may move
// the pull request towards needs-merge, a change request moves it to
// needs-changes, and a plain comment only acts when it carries the
// needs-review marker.
func (h *Handler) pullRequestReview(ctx context.Context, event model.Event) (string, error) {
	payload, ok := event.Payload.(*github.PullRequestReviewEvent)
	if !ok {
		return "", fmt.Errorf("unexpected payload type for %q", event.Name)
	}

	if payload.GetAction() != ActionSubmitted {
		global.Sugar.Debugw("not a review submission",
			"action", payload.GetAction(),
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

	review := payload.GetReview()
	reviewer := review.GetUser().GetLogin()
	author := pr.GetUser().GetLogin()

	global.Sugar.Infow("new review",
		"issue", ref.String(),
		"reviewer", reviewer,
		"state", review.GetState(),
		"delivery", event.Delivery,
	)

	switch strings.ToLower(review.GetState()) {
	case stateApproved:
		info, err := h.gateway.GetPullRequest(ctx, ref)
		if err != nil {
			return "", err
		}
		remaining := tools.Convert.Remove(info.RequestedReviewers, reviewer)
		remaining = append(remaining, info.RequestedTeams...)
		if err := h.setApproveChanges(ctx, ref, author, reviewer, remaining); err != nil {
			return "", err
		}
		return "approval recorded", nil

	case stateChangesRequested:
		if err := h.setNeedsChanges(ctx, ref, author); err != nil {
			return "", err
		}
		return "needs-changes set", nil

	case stateCommented:
		if !tools.Parse.NeedsReview(review.GetBody()) {
			return "nothing to do", nil
		}
		reviewers := h.resolveReviewers(review.GetBody(), ref.FullName(), "")
		if err := h.setNeedsReview(ctx, ref, author, reviewers); err != nil {
			return "", err
		}
		return "needs-review set", nil

	default:
		return "nothing to do", nil
	}
}
