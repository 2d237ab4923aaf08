package operation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-github/v30/github"
	"github.com/stretchr/testify/require"

	"github.com/chevah/github-hooks-server/config"
	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/tools"
)

// fakeGateway keeps the platform state in memory and records every
// mutating call.
type fakeGateway struct {
	labels             map[string]bool
	assignees          []string
	requestedReviewers []string
	requestedTeams     []string
	reviews            []model.Review
	author             string

	calls []string
}

func newFakeGateway(author string) *fakeGateway {
	return &fakeGateway{
		labels: make(map[string]bool),
		author: author,
	}
}

func (f *fakeGateway) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) AddLabel(ctx context.Context, ref model.PullRequestRef, label string) error {
	f.record("add-label %s", label)
	f.labels[label] = true
	return nil
}

func (f *fakeGateway) RemoveLabel(ctx context.Context, ref model.PullRequestRef, label string) error {
	// A missing label is fine, as on the real platform.
	f.record("remove-label %s", label)
	delete(f.labels, label)
	return nil
}

func (f *fakeGateway) SetAssignees(ctx context.Context, ref model.PullRequestRef, logins []string) error {
	f.record("set-assignees %v", logins)
	f.assignees = logins
	return nil
}

func (f *fakeGateway) CreateReviewRequests(ctx context.Context, ref model.PullRequestRef, logins, teams []string) error {
	if len(logins) == 0 && len(teams) == 0 {
		return nil
	}
	f.record("create-requests %v %v", logins, teams)
	f.requestedReviewers = tools.Convert.Merge(f.requestedReviewers, logins)
	f.requestedTeams = tools.Convert.Merge(f.requestedTeams, teams)
	return nil
}

func (f *fakeGateway) DeleteReviewRequests(ctx context.Context, ref model.PullRequestRef, logins, teams []string) error {
	if len(logins) == 0 && len(teams) == 0 {
		return nil
	}
	f.record("delete-requests %v %v", logins, teams)
	for _, l := range logins {
		f.requestedReviewers = tools.Convert.Remove(f.requestedReviewers, l)
	}
	for _, t := range teams {
		f.requestedTeams = tools.Convert.Remove(f.requestedTeams, t)
	}
	return nil
}

func (f *fakeGateway) ListReviews(ctx context.Context, ref model.PullRequestRef) ([]model.Review, error) {
	return f.reviews, nil
}

func (f *fakeGateway) GetPullRequest(ctx context.Context, ref model.PullRequestRef) (*model.PullRequestInfo, error) {
	return &model.PullRequestInfo{
		Author:             f.author,
		RequestedReviewers: append([]string{}, f.requestedReviewers...),
		RequestedTeams:     append([]string{}, f.requestedTeams...),
	}, nil
}

func testConfig() *config.Config {
	conf := &config.Config{
		Bots: []string{"chevah-robot"},
		DefaultReviewers: config.DefaultReviewers{
			"chevah/server": {"default-rev"},
		},
		Skip: "chevah/skipped-repo, chevah/server#99",
	}
	conf.Finish()
	return conf
}

func commentEvent(repo string, number int, commenter, commentBody, author, issueBody string) model.Event {
	return model.Event{
		Name:     "issue_comment",
		Delivery: "test-delivery",
		Payload: &github.IssueCommentEvent{
			Action: github.String("created"),
			Issue: &github.Issue{
				Number: github.Int(number),
				Body:   github.String(issueBody),
				User:   &github.User{Login: github.String(author)},
				PullRequestLinks: &github.PullRequestLinks{
					HTMLURL: github.String("https://github.com/" + repo + "/pull/8"),
				},
			},
			Comment: &github.IssueComment{
				User: &github.User{Login: github.String(commenter)},
				Body: github.String(commentBody),
			},
			Repo: &github.Repository{FullName: github.String(repo)},
		},
	}
}

func reviewEvent(repo string, number int, reviewer, state, body, author string) model.Event {
	submitted := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	return model.Event{
		Name:     "pull_request_review",
		Delivery: "test-delivery",
		Payload: &github.PullRequestReviewEvent{
			Action: github.String("submitted"),
			Review: &github.PullRequestReview{
				User:        &github.User{Login: github.String(reviewer)},
				State:       github.String(state),
				Body:        github.String(body),
				SubmittedAt: &submitted,
			},
			PullRequest: &github.PullRequest{
				Number: github.Int(number),
				User:   &github.User{Login: github.String(author)},
			},
			Repo: &github.Repository{FullName: github.String(repo)},
		},
	}
}

func pullRequestEvent(repo string, number int, action, body, author string, reviewers []string) model.Event {
	requested := make([]*github.User, 0, len(reviewers))
	for _, r := range reviewers {
		requested = append(requested, &github.User{Login: github.String(r)})
	}
	return model.Event{
		Name:     "pull_request",
		Delivery: "test-delivery",
		Payload: &github.PullRequestEvent{
			Action: github.String(action),
			PullRequest: &github.PullRequest{
				Number:             github.Int(number),
				Body:               github.String(body),
				User:               &github.User{Login: github.String(author)},
				RequestedReviewers: requested,
			},
			Repo: &github.Repository{FullName: github.String(repo)},
		},
	}
}

// Comment with the needs-review marker: reviewers come from the PR
// description, the workflow label flips to needs-review.
func TestCommentNeedsReview(t *testing.T) {
	gw := newFakeGateway("some-author")
	gw.labels["needs-changes"] = true
	h := New(testConfig(), gw)

	event := commentEvent("chevah/server", 8,
		"somebody", "**needs-review**",
		"some-author", "About the change.\nreviewers @alice @bob")

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "needs-review set", ack)

	require.Equal(t,
		map[string]bool{"needs-review": true}, gw.labels)
	require.Equal(t, []string{"alice", "bob"}, gw.requestedReviewers)
}

// Review with changes_requested: requests cleared, back to the author.
func TestReviewNeedsChanges(t *testing.T) {
	gw := newFakeGateway("some-author")
	gw.labels["needs-review"] = true
	gw.requestedReviewers = []string{"carol", "dave"}
	h := New(testConfig(), gw)

	event := reviewEvent("chevah/server", 8,
		"carol", "changes_requested", "see inline", "some-author")

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "needs-changes set", ack)

	require.Equal(t,
		map[string]bool{"needs-changes": true}, gw.labels)
	require.Empty(t, gw.requestedReviewers)
	require.Equal(t, []string{"some-author"}, gw.assignees)
}

// Approval by the sole remaining reviewer: needs-merge, reassigned to
// the author.
func TestReviewApprovedLastReviewer(t *testing.T) {
	gw := newFakeGateway("some-author")
	gw.labels["needs-review"] = true
	gw.requestedReviewers = []string{"dave"}
	gw.reviews = []model.Review{
		{Reviewer: "dave", State: model.StateApproved,
			SubmittedAt: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)},
	}
	h := New(testConfig(), gw)

	event := reviewEvent("chevah/server", 8,
		"dave", "approved", "changes-approved", "some-author")

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "approval recorded", ack)

	require.Equal(t,
		map[string]bool{"needs-merge": true}, gw.labels)
	require.Equal(t, []string{"some-author"}, gw.assignees)
}

// Approval while another reviewer is still pending: nothing changes.
func TestReviewApprovedReviewersPending(t *testing.T) {
	gw := newFakeGateway("some-author")
	gw.labels["needs-review"] = true
	gw.requestedReviewers = []string{"eve", "frank"}
	gw.reviews = []model.Review{
		{Reviewer: "eve", State: model.StateApproved,
			SubmittedAt: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)},
	}
	h := New(testConfig(), gw)

	event := reviewEvent("chevah/server", 8,
		"eve", "approved", "", "some-author")

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "approval recorded", ack)

	require.Equal(t,
		map[string]bool{"needs-review": true}, gw.labels)
	require.Equal(t, []string{"eve", "frank"}, gw.requestedReviewers)
	require.Empty(t, gw.assignees)
}

// An approval does not move the pull request while a blocking review
// is still the latest verdict of some reviewer.
func TestReviewApprovedBlockedByChangeRequest(t *testing.T) {
	gw := newFakeGateway("some-author")
	gw.labels["needs-review"] = true
	gw.requestedReviewers = []string{"dave"}
	gw.reviews = []model.Review{
		{Reviewer: "grace", State: model.StateChangesRequested,
			SubmittedAt: time.Date(2023, 4, 1, 11, 0, 0, 0, time.UTC)},
		{Reviewer: "dave", State: model.StateApproved,
			SubmittedAt: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)},
	}
	h := New(testConfig(), gw)

	event := reviewEvent("chevah/server", 8,
		"dave", "approved", "", "some-author")

	_, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)

	require.Equal(t,
		map[string]bool{"needs-review": true}, gw.labels)
}

// A comment-only review acts only through the needs-review marker.
func TestReviewCommentedWithMarker(t *testing.T) {
	gw := newFakeGateway("some-author")
	h := New(testConfig(), gw)

	event := reviewEvent("chevah/server", 8,
		"carol", "commented", "needs-review\nreviewers: @alice", "some-author")

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "needs-review set", ack)
	require.Equal(t, []string{"alice"}, gw.requestedReviewers)
}

// Comment with the approved marker: the commenter's own pending
// request goes away first; with nobody left the label flips to
// needs-merge.
func TestCommentApproved(t *testing.T) {
	gw := newFakeGateway("some-author")
	gw.labels["needs-review"] = true
	gw.requestedReviewers = []string{"somebody"}
	gw.reviews = nil
	h := New(testConfig(), gw)

	event := commentEvent("chevah/server", 8,
		"somebody", "changes-approved", "some-author", "")

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "approval recorded", ack)

	require.Equal(t,
		map[string]bool{"needs-merge": true}, gw.labels)
	require.Empty(t, gw.requestedReviewers)
	require.Equal(t, []string{"some-author"}, gw.assignees)
}

// review_requested: platform reviewers first, text reviewers merged in,
// the author never requested.
func TestPullRequestReviewRequested(t *testing.T) {
	gw := newFakeGateway("some-author")
	h := New(testConfig(), gw)

	event := pullRequestEvent("chevah/server", 8, "review_requested",
		"reviewers: @alice @some-author", "some-author", []string{"bob"})

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "needs-review set", ack)

	require.Equal(t, []string{"bob", "alice"}, gw.requestedReviewers)
	require.Equal(t, map[string]bool{"needs-review": true}, gw.labels)
}

// Repeating the same transition ends in the same state.
func TestSetNeedsReviewIdempotent(t *testing.T) {
	gw := newFakeGateway("some-author")
	h := New(testConfig(), gw)

	event := pullRequestEvent("chevah/server", 8, "ready_for_review",
		"reviewers: @alice", "some-author", nil)

	for i := 0; i < 2; i++ {
		_, err := h.Dispatch(context.Background(), event)
		require.NoError(t, err)
	}

	require.Equal(t, map[string]bool{"needs-review": true}, gw.labels)
	require.Equal(t, []string{"alice"}, gw.requestedReviewers)
}

// Events for excluded pull requests short-circuit without any gateway
// call.
func TestSkipList(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
	}{
		{
			name: "whole repository",
			event: pullRequestEvent("chevah/skipped-repo", 8,
				"review_requested", "", "some-author", []string{"bob"}),
		},
		{
			name: "single pull request",
			event: commentEvent("chevah/server", 99,
				"somebody", "needs-review", "some-author", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway("some-author")
			h := New(testConfig(), gw)

			_, err := h.Dispatch(context.Background(), tt.event)
			require.ErrorIs(t, err, ErrSkipped)
			require.Empty(t, gw.calls)
		})
	}
}

// Robot comments never trigger transitions.
func TestCommentFromBotIgnored(t *testing.T) {
	gw := newFakeGateway("some-author")
	h := New(testConfig(), gw)

	for _, login := range []string{"chevah-robot", "dependabot[bot]"} {
		event := commentEvent("chevah/server", 8,
			login, "needs-review", "some-author", "")
		ack, err := h.Dispatch(context.Background(), event)
		require.NoError(t, err)
		require.Equal(t, "nothing to do", ack)
	}
	require.Empty(t, gw.calls)
}

// Comments outside pull requests are ignored.
func TestCommentNotOnPullRequest(t *testing.T) {
	gw := newFakeGateway("some-author")
	h := New(testConfig(), gw)

	event := commentEvent("chevah/server", 8,
		"somebody", "needs-review", "some-author", "")
	payload := event.Payload.(*github.IssueCommentEvent)
	payload.Issue.PullRequestLinks = nil

	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "nothing to do", ack)
	require.Empty(t, gw.calls)
}

// Ping echoes the platform's zen text.
func TestPing(t *testing.T) {
	h := New(testConfig(), newFakeGateway(""))

	event := model.Event{
		Name:    "ping",
		Payload: &github.PingEvent{Zen: github.String("Keep it logically awesome.")},
	}
	ack, err := h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "pong: Keep it logically awesome.", ack)

	event.Payload = &github.PingEvent{}
	ack, err = h.Dispatch(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "pong", ack)
}

// Unknown event names are acknowledged and ignored.
func TestUnhandledEvent(t *testing.T) {
	gw := newFakeGateway("")
	h := New(testConfig(), gw)

	ack, err := h.Dispatch(context.Background(),
		model.Event{Name: "workflow_run"})
	require.NoError(t, err)
	require.Equal(t, "no handler for event", ack)
	require.Empty(t, gw.calls)
}
