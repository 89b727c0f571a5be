package cli

import (
	"context"
	"fmt"

	"github.com/frontdesk-dev/frontdesk/pkg/usecase/resolution"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func reconcileCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "reconcile",
		Usage: "Cross-check ledger, history and supervisor responses",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			found, err := resolution.New(repo).Reconcile(ctx)
			if err != nil {
				return goerr.Wrap(err, "reconciliation failed")
			}

			if len(found) == 0 {
				fmt.Fprintf(c.Root().Writer, "No inconsistencies found\n")
				return nil
			}

			for _, inc := range found {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\n", inc.RequestID, inc.Reason)
			}
			return goerr.New("inconsistent records detected", goerr.V("count", len(found)))
		},
	}
}
