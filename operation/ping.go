package operation

import (
	"context"
	"fmt"

	"github.com/google/go-github/v30/github"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
)

// ping acknowledges the platform's hook check, echoing its zen text
// when one is provided.
func (h *Handler) ping(ctx context.Context, event model.Event) (string, error) {
	payload, ok := event.Payload.(*github.PingEvent)
	if !ok {
		return "", fmt.Errorf("unexpected payload type for %q", event.Name)
	}

	global.Sugar.Infow("ping",
		"hook id", payload.GetHookID(),
		"delivery", event.Delivery,
	)

	if zen := payload.GetZen(); zen != "" {
		return "pong: " + zen, nil
	}
	return "pong", nil
}
