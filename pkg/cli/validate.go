package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/grc-lab/periksa/pkg/cli/config"
	"github.com/grc-lab/periksa/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the application config file",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Load(); err != nil {
				return goerr.Wrap(err, "config validation failed")
			}

			logger := logging.Default()

			engineCfg := appCfg.ToEngineConfig()
			logger.Info("Scoring configuration",
				"max_points_per_question", engineCfg.MaxPointsPerQuestion(),
			)

			for _, quota := range appCfg.Quotas {
				if quota.Limit != nil {
					logger.Info("Quota default", "type", quota.Type, "limit", *quota.Limit)
				} else {
					logger.Info("Quota default", "type", quota.Type, "limit", "unlimited")
				}
			}

			for _, set := range appCfg.ToQuestionSets() {
				logger.Info("Question set",
					"type", set.Type,
					"questions", len(set.Questions),
					"dimensions", len(set.Dimensions()),
				)
			}

			logger.Info("Configuration is valid")
			return nil
		},
	}
}
