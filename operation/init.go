// Package operation implements the review workflow state machine.
// A classified event is dispatched to one named handler, the handler
// computes the target label and review-request state and issues the
// minimal gateway calls to reach it.
package operation

import (
	"context"
	"errors"

	hook "gopkg.in/go-playground/webhooks.v5/github"

	"github.com/chevah/github-hooks-server/config"
	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
)

// The three workflow labels. At most one of them is ever present on a
// pull request; every transition removes the other two. Labels outside
// this set are never touched.
const (
	LabelNeedsReview  = "needs-review"
	LabelNeedsChanges = "needs-changes"
	LabelNeedsMerge   = "needs-merge"
)

// Event actions and review states as delivered by webhooks.
const (
	ActionReviewRequested = "review_requested"
	ActionReadyForReview  = "ready_for_review"
	ActionSubmitted       = "submitted"
	ActionCreated         = "created"

	stateApproved         = "approved"
	stateChangesRequested = "changes_requested"
	stateCommented        = "commented"
)

// ErrSkipped marks an event for a pull request on the skip list. It is
// a deliberate short-circuit, not a failure: the adapter still
// acknowledges the delivery, but no gateway call is made.
var ErrSkipped = errors.New("pull request is on the skip list")

// Gateway is the platform port the state machine drives. Implemented
// by client.Gateway; tests substitute a recording fake.
type Gateway interface {
	AddLabel(ctx context.Context, ref model.PullRequestRef, label string) error
	RemoveLabel(ctx context.Context, ref model.PullRequestRef, label string) error
	SetAssignees(ctx context.Context, ref model.PullRequestRef, logins []string) error
	CreateReviewRequests(ctx context.Context, ref model.PullRequestRef, logins, teams []string) error
	DeleteReviewRequests(ctx context.Context, ref model.PullRequestRef, logins, teams []string) error
	ListReviews(ctx context.Context, ref model.PullRequestRef) ([]model.Review, error)
	GetPullRequest(ctx context.Context, ref model.PullRequestRef) (*model.PullRequestInfo, error)
}

type handlerFunc func(ctx context.Context, event model.Event) (string, error)

// Handler is the state machine. Configuration is fixed at construction;
// the handler itself holds no mutable state, so one instance serves all
// deliveries.
type Handler struct {
	conf     *config.Config
	gateway  Gateway
	handlers map[hook.Event]handlerFunc
}

// New builds the dispatch table. Event names map to handlers
// explicitly; anything not listed is acknowledged and ignored.
func New(conf *config.Config, gateway Gateway) *Handler {
	h := &Handler{conf: conf, gateway: gateway}
	h.handlers = map[hook.Event]handlerFunc{
		hook.PullRequestEvent:       h.pullRequest,
		hook.PullRequestReviewEvent: h.pullRequestReview,
		hook.IssueCommentEvent:      h.issueComment,
		hook.PingEvent:              h.ping,
	}
	return h
}

// Dispatch routes one event and returns the acknowledgement text for
// the sender. Unknown event names are a logged no-op.
func (h *Handler) Dispatch(ctx context.Context, event model.Event) (string, error) {
	handler, ok := h.handlers[hook.Event(event.Name)]
	if !ok {
		global.Sugar.Debugw("no handler for event",
			"event", event.Name,
			"delivery", event.Delivery,
		)
		return "no handler for event", nil
	}
	return handler(ctx, event)
}

// skip checks the exclusion list and logs the short-circuit.
func (h *Handler) skip(ref model.PullRequestRef, event model.Event) error {
	if !h.conf.SkipList().Match(ref.FullName(), ref.Number) {
		return nil
	}
	global.Sugar.Infow("skip excluded pull request",
		"event", event.Name,
		"delivery", event.Delivery,
		"issue", ref.String(),
	)
	return ErrSkipped
}
