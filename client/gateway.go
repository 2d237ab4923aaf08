package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v30/github"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
)

// Gateway implements operation.Gateway over the GitHub API. All state
// the workflow needs lives on the platform; the gateway is the only
// path to it.
type Gateway struct {
	gh *github.Client
}

// NewGateway returns a gateway over the shared client.
func NewGateway() *Gateway {
	return &Gateway{gh: Get()}
}

// AddLabel adds a single label to the pull request.
func (g *Gateway) AddLabel(ctx context.Context, ref model.PullRequestRef, label string) error {
	_, resp, err := g.gh.Issues.AddLabelsToIssue(
		ctx, ref.Owner, ref.Repo, ref.Number, []string{label})
	return checkResponse("add label", ref, resp, err)
}

// RemoveLabel removes a label. A label that is not present is treated
// as already removed, not as a failure.
func (g *Gateway) RemoveLabel(ctx context.Context, ref model.PullRequestRef, label string) error {
	resp, err := g.gh.Issues.RemoveLabelForIssue(
		ctx, ref.Owner, ref.Repo, ref.Number, label)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		global.Sugar.Debugw("remove label",
			"issue", ref.String(),
			"label", label,
			"status", "not present",
		)
		return nil
	}
	return checkResponse("remove label", ref, resp, err)
}

// SetAssignees replaces the assignee list of the pull request.
func (g *Gateway) SetAssignees(ctx context.Context, ref model.PullRequestRef, logins []string) error {
	_, resp, err := g.gh.Issues.Edit(
		ctx, ref.Owner, ref.Repo, ref.Number,
		&github.IssueRequest{Assignees: &logins})
	return checkResponse("set assignees", ref, resp, err)
}

// CreateReviewRequests asks the given accounts and teams for review.
// Requesting an already-requested reviewer is a no-op on the platform.
func (g *Gateway) CreateReviewRequests(ctx context.Context, ref model.PullRequestRef, logins, teams []string) error {
	if len(logins) == 0 && len(teams) == 0 {
		return nil
	}
	_, resp, err := g.gh.PullRequests.RequestReviewers(
		ctx, ref.Owner, ref.Repo, ref.Number,
		github.ReviewersRequest{Reviewers: logins, TeamReviewers: teams})
	return checkResponse("request reviewers", ref, resp, err)
}

// DeleteReviewRequests withdraws pending review requests.
func (g *Gateway) DeleteReviewRequests(ctx context.Context, ref model.PullRequestRef, logins, teams []string) error {
	if len(logins) == 0 && len(teams) == 0 {
		return nil
	}
	resp, err := g.gh.PullRequests.RemoveReviewers(
		ctx, ref.Owner, ref.Repo, ref.Number,
		github.ReviewersRequest{Reviewers: logins, TeamReviewers: teams})
	return checkResponse("remove reviewers", ref, resp, err)
}

// ListReviews returns the full review history of the pull request.
// Webhook deliveries carry lower-case states while the REST API uses
// upper case; everything is normalised to the upper-case form here.
func (g *Gateway) ListReviews(ctx context.Context, ref model.PullRequestRef) ([]model.Review, error) {
	opt := &github.ListOptions{Page: 1, PerPage: 100}
	reviews := make([]model.Review, 0)
	for {
		rs, resp, err := g.gh.PullRequests.ListReviews(
			ctx, ref.Owner, ref.Repo, ref.Number, opt)
		if err := checkResponse("list reviews", ref, resp, err); err != nil {
			return nil, err
		}
		for _, r := range rs {
			reviews = append(reviews, model.Review{
				Reviewer:    r.GetUser().GetLogin(),
				State:       strings.ToUpper(r.GetState()),
				Body:        r.GetBody(),
				SubmittedAt: r.GetSubmittedAt(),
			})
		}
		if len(rs) < opt.PerPage {
			return reviews, nil
		}
		opt.Page++
	}
}

// GetPullRequest reads the author and the currently pending review
// requests.
func (g *Gateway) GetPullRequest(ctx context.Context, ref model.PullRequestRef) (*model.PullRequestInfo, error) {
	pr, resp, err := g.gh.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err := checkResponse("get pull request", ref, resp, err); err != nil {
		return nil, err
	}
	info := &model.PullRequestInfo{Author: pr.GetUser().GetLogin()}
	for _, u := range pr.RequestedReviewers {
		info.RequestedReviewers = append(info.RequestedReviewers, u.GetLogin())
	}
	for _, t := range pr.RequestedTeams {
		info.RequestedTeams = append(info.RequestedTeams, t.GetSlug())
	}
	return info, nil
}

func checkResponse(op string, ref model.PullRequestRef, resp *github.Response, err error) error {
	if err != nil {
		global.Sugar.Errorw(op,
			"call api", "failed",
			"issue", ref.String(),
			"err", err.Error(),
		)
		return fmt.Errorf("%s %s: %v", op, ref.String(), err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		global.Sugar.Errorw(op,
			"call api", "unexpect status code",
			"issue", ref.String(),
			"status", resp.Status,
			"status code", resp.StatusCode,
		)
		return fmt.Errorf("%s %s: status %s", op, ref.String(), resp.Status)
	}
	return nil
}
