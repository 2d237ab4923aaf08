// Package model holds the value types passed between the HTTP adapter,
// the dispatcher and the gateway. Raw payload parsing is delegated to
// go-github, so payload shapes follow its event structs.
package model

import (
	"fmt"
	"time"

	"github.com/google/go-github/v30/github"
)

// Event is one classified webhook delivery. Name selects the dispatch
// handler, Payload is the parsed go-github event struct. An Event is
// built once by the adapter and never mutated afterwards.
type Event struct {
	Name     string
	Delivery string
	Payload  interface{}
}

// ParseEvent classifies a raw webhook body into an Event.
func ParseEvent(name, delivery string, body []byte) (Event, error) {
	payload, err := github.ParseWebHook(name, body)
	if err != nil {
		return Event{}, fmt.Errorf("parse %q payload: %v", name, err)
	}
	return Event{Name: name, Delivery: delivery, Payload: payload}, nil
}

// PullRequestRef addresses one pull request on the platform.
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

// NewPullRequestRef splits a "owner/repo" full name.
func NewPullRequestRef(fullName string, number int) PullRequestRef {
	owner, repo := SplitFullName(fullName)
	return PullRequestRef{Owner: owner, Repo: repo, Number: number}
}

// FullName returns the "owner/repo" form.
func (r PullRequestRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s#%d", r.FullName(), r.Number)
}

// SplitFullName splits "owner/repo" at the first slash.
func SplitFullName(fullName string) (owner, repo string) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return fullName[:i], fullName[i+1:]
		}
	}
	return fullName, ""
}

// Review states as returned by the REST API. Webhook deliveries use the
// lower-case form; the gateway normalises to these values.
const (
	StateApproved         = "APPROVED"
	StateChangesRequested = "CHANGES_REQUESTED"
	StateCommented        = "COMMENTED"
)

// Review is one submitted pull request review. Only the most recent
// review per reviewer counts for the approval decision.
type Review struct {
	Reviewer    string
	State       string
	Body        string
	SubmittedAt time.Time
}

// PullRequestInfo is the subset of pull request state the dispatcher
// reads back from the platform.
type PullRequestInfo struct {
	Author             string
	RequestedReviewers []string
	RequestedTeams     []string
}
