// Package server is the HTTP adapter: it validates and classifies
// webhook deliveries and hands them to the operation dispatcher.
package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chevah/github-hooks-server/client"
	"github.com/chevah/github-hooks-server/config"
	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/operation"
	"github.com/chevah/github-hooks-server/scoreboard"
)

// Start runs the webhook server until it fails.
func Start(conf *config.Config) {
	handler := operation.New(conf, client.NewGateway())

	var board *scoreboard.Scoreboard
	if conf.Scoreboard.TracDB != "" {
		b, err := scoreboard.Open(conf.Scoreboard.TracDB, conf.Scoreboard.Aliases)
		if err != nil {
			global.Sugar.Errorw("open scoreboard database",
				"path", conf.Scoreboard.TracDB,
				"err", err.Error(),
			)
		} else {
			board = b
		}
	}

	router := NewRouter(conf, handler, board)

	srv := &http.Server{
		Addr:    conf.Server.Port,
		Handler: router,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}
}

// NewRouter wires the routes. Split from Start so tests can drive the
// router directly.
func NewRouter(conf *config.Config, handler *operation.Handler, board *scoreboard.Scoreboard) *gin.Engine {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	v1.POST("/webhooks/", hookHandler(conf, handler))
	v1.GET("/highscores", highscoresHandler(board))

	return router
}
