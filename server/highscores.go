package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chevah/github-hooks-server/global"
	"github.com/chevah/github-hooks-server/scoreboard"
)

// highscoresHandler serves the monthly scoreboard. The month is picked
// with ?time=YYYY-MM-DD, defaulting to the current one.
func highscoresHandler(board *scoreboard.Scoreboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if board == nil {
			c.JSON(http.StatusServiceUnavailable,
				gin.H{"result": "no scoreboard database configured"})
			return
		}

		at := time.Now().UTC()
		if arg := c.Query("time"); arg != "" {
			parsed, err := time.Parse("2006-01-02", arg)
			if err != nil {
				c.JSON(http.StatusBadRequest,
					gin.H{"result": "time must be YYYY-MM-DD"})
				return
			}
			at = parsed
		}

		start, end := scoreboard.MonthRange(at)
		scores, err := board.Scores(start, end)
		if err != nil {
			global.Sugar.Errorw("compute highscores",
				"start", start,
				"err", err.Error(),
			)
			c.JSON(http.StatusInternalServerError,
				gin.H{"result": "scoreboard query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"start":  start.Format("2006-01-02"),
			"end":    end.Format("2006-01-02"),
			"scores": scores,
		})
	}
}
