package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gh "github.com/google/go-github/v30/github"
	"github.com/google/uuid"
	hook "gopkg.in/go-playground/webhooks.v5/github"

	"github.com/chevah/github-hooks-server/config"
	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/model"
	"github.com/chevah/github-hooks-server/operation"
)

// Webhook events the server classifies. Anything else is acknowledged
// without dispatch.
var events = []hook.Event{
	hook.PullRequestEvent,
	hook.PullRequestReviewEvent,
	hook.IssueCommentEvent,
	hook.PingEvent,
}

func knownEvent(name string) bool {
	for _, e := range events {
		if string(e) == name {
			return true
		}
	}
	return false
}

// hookHandler validates, classifies and dispatches one delivery.
//
// The sender always gets a prompt acknowledgement: skip and unhandled
// events answer 200, only a failed gateway call answers 500 so the
// platform redelivers.
func hookHandler(conf *config.Config, handler *operation.Handler) gin.HandlerFunc {
	secret := conf.Server.HookSecret

	return func(c *gin.Context) {
		payload, err := gh.ValidatePayload(c.Request, []byte(secret))
		if err != nil {
			global.Sugar.Errorw("reject delivery",
				"cause", "invalid payload or signature",
				"err", err.Error(),
			)
			c.JSON(http.StatusBadRequest, gin.H{"result": "invalid payload"})
			return
		}

		name := gh.WebHookType(c.Request)
		delivery := c.GetHeader("X-GitHub-Delivery")
		if delivery == "" {
			delivery = uuid.New().String()
		}

		if !knownEvent(name) {
			global.Sugar.Debugw("unlisted event",
				"event", name,
				"delivery", delivery,
			)
			c.JSON(http.StatusOK, gin.H{"result": "event not handled"})
			return
		}

		event, err := model.ParseEvent(name, delivery, payload)
		if err != nil {
			global.Sugar.Errorw("classify delivery",
				"event", name,
				"delivery", delivery,
				"err", err.Error(),
			)
			c.JSON(http.StatusBadRequest, gin.H{"result": "malformed payload"})
			return
		}

		global.Sugar.Infow("new event",
			"event", name,
			"delivery", delivery,
		)

		ack, err := handler.Dispatch(c.Request.Context(), event)
		switch {
		case errors.Is(err, operation.ErrSkipped):
			c.JSON(http.StatusOK, gin.H{"result": "skipped"})
		case err != nil:
			global.Sugar.Errorw("dispatch event",
				"event", name,
				"delivery", delivery,
				"err", err.Error(),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"result": "dispatch failed"})
		default:
			c.JSON(http.StatusOK, gin.H{"result": ack})
		}
	}
}
