// hooks-server keeps pull request reviews moving:
// needs-review
//		set when a review is requested, the PR becomes ready, or a
//		comment carries the needs-review marker; reviewers come from the
//		text, the platform request, or the configured defaults
// needs-changes
//		set when a reviewer requests changes; pending review requests
//		are withdrawn and the PR goes back to its author
// needs-merge
//		set when the last pending reviewer approves and no review in the
//		history still blocks
package main

import "github.com/chevah/github-hooks-server/cmd"

func main() {
	cmd.Execute()
}
