// Package global carries the per-process singletons shared by the
// subcommands: the loaded configuration and the logger.
package global

import (
	"go.uber.org/zap"

	"github.com/chevah/github-hooks-server/config"
)

var (
	// Loaded configuration, read-only after Init.
	Conf *config.Config

	// Structured logger. A no-op logger until Init runs, so code under
	// test can log without wiring.
	Sugar = zap.NewNop().Sugar()
)

// Init stores the configuration and builds the logger for the
// configured level.
func Init(conf *config.Config) {
	Conf = conf

	var (
		logger *zap.Logger
		err    error
	)
	if conf.Server.LogLevel == "pro" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err.Error())
	}
	Sugar = logger.Sugar()

	Sugar.Infow("finish load config",
		"port", conf.Server.Port,
		"default reviewers", len(conf.DefaultReviewers),
		"skip entries", len(conf.SkipList()),
	)
}
