package cli

import (
	"context"
	"fmt"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/resolution"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func resolveCommand() *cli.Command {
	var (
		cfg    config
		answer string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "answer",
			Aliases:     []string{"a"},
			Usage:       "Supervisor answer to the escalated question",
			Required:    true,
			Sources:     cli.EnvVars("FRONTDESK_RESOLVE_ANSWER"),
			Destination: &answer,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "resolve",
		Usage:     "Answer a pending help request and grow the knowledge base",
		ArgsUsage: "<request-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("request-id is required")
			}
			requestID := model.RequestID(c.Args().Get(0))

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			// The answer resolves the question the request was created
			// with, so read it back from the ledger.
			req, err := repo.GetHelpRequest(ctx, requestID)
			if err != nil {
				return goerr.Wrap(err, "failed to load help request")
			}

			uc := resolution.New(repo)
			responseID := model.NewEntryID()
			if err := uc.Resolve(ctx, resolution.Input{
				RequestID:  requestID,
				ResponseID: responseID,
				Question:   req.Question,
				Answer:     answer,
			}); err != nil {
				return goerr.Wrap(err, "failed to resolve help request")
			}

			fmt.Fprintf(c.Root().Writer, "Help request resolved: %s (knowledge entry %s)\n",
				requestID, responseID)
			return nil
		},
	}
}
