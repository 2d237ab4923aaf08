// Package client wraps the GitHub API: the authenticated go-github
// client and the gateway used by the dispatcher.
package client

import (
	"context"

	c "github.com/google/go-github/v30/github"
	"golang.org/x/oauth2"
)

var client *c.Client

// Get returns the shared client. Init must run first.
func Get() *c.Client {
	return client
}

// Init builds the shared client from a personal access token.
func Init(token string) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client = c.NewClient(tc)
}
