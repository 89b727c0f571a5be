package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg config
		all bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "all",
			Aliases:     []string{"a"},
			Usage:       "Include resolved requests",
			Sources:     cli.EnvVars("FRONTDESK_LIST_ALL"),
			Destination: &all,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List help requests awaiting a supervisor",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			reqs, err := repo.ListHelpRequests(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list help requests")
			}

			for _, req := range reqs {
				if !all && req.Status != model.RequestStatusPending {
					continue
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n",
					req.ID, req.Status, req.CreatedAt.Format(time.RFC3339), req.Question)
			}

			return nil
		},
	}
}
