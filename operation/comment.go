package operation

import (
	"context"
	"fmt"

	"github.com/google/go-github/v30/github"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/tools"
)

// issueComment handles free-text commands in comments on pull
// requests. The body is inspected for the markers in a fixed order:
// needs-review, then needs-changes, then changes-approved.
func (h *Handler) issueComment(ctx context.Context, event model.Event) (string, error) {
	payload, ok := event.Payload.(*github.IssueCommentEvent)
	if !ok {
		return "", fmt.Errorf("unexpected payload type for %q", event.Name)
	}

	if payload.GetAction() != ActionCreated {
		global.Sugar.Debugw("not a created issue comment",
			"action", payload.GetAction(),
			"delivery", event.Delivery,
		)
		return "nothing to do", nil
	}

	issue := payload.GetIssue()
	if issue.GetPullRequestLinks().GetHTMLURL() == "" {
		global.Sugar.Debugw("not a comment on a pull request",
			"delivery", event.Delivery,
		)
		return "nothing to do", nil
	}

	commenter := payload.GetComment().GetUser().GetLogin()
	if h.conf.IsBot(commenter) {
		global.Sugar.Debugw("ignore robot comment",
			"login", commenter,
			"delivery", event.Delivery,
		)
		return "nothing to do", nil
	}

	ref := model.NewPullRequestRef(
		payload.GetRepo().GetFullName(), issue.GetNumber())
	if err := h.skip(ref, event); err != nil {
		return "", err
	}

	body := payload.GetComment().GetBody()
	author := issue.GetUser().GetLogin()

	global.Sugar.Infow("new comment",
		"issue", ref.String(),
		"login", commenter,
		"delivery", event.Delivery,
	)

	switch {
	case tools.Parse.NeedsReview(body):
		// A mention in the comment wins over the description's
		// reviewers line, which in turn wins over the defaults.
		reviewers := h.resolveReviewers(
			body+"\n"+issue.GetBody(), ref.FullName(), "")
		if err := h.setNeedsReview(ctx, ref, author, reviewers); err != nil {
			return "", err
		}
		return "needs-review set", nil

	case tools.Parse.NeedsChanges(body):
		if err := h.setNeedsChanges(ctx, ref, author); err != nil {
			return "", err
		}
		return "needs-changes set", nil

	case tools.Parse.Approved(body):
		// The commenter steps down as a pending reviewer first, then
		// the usual approval flow runs on what is left.
		if err := h.gateway.DeleteReviewRequests(
			ctx, ref, []string{commenter}, nil); err != nil {
			return "", err
		}
		info, err := h.gateway.GetPullRequest(ctx, ref)
		if err != nil {
			return "", err
		}
		remaining := tools.Convert.Remove(info.RequestedReviewers, commenter)
		remaining = append(remaining, info.RequestedTeams...)
		if err := h.setApproveChanges(ctx, ref, author, commenter, remaining); err != nil {
			return "", err
		}
		return "approval recorded", nil
	}

	return "nothing to do", nil
}
