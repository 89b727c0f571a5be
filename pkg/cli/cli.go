package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	// Local deployments keep store and token credentials in .env.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "frontdesk",
		Usage: "Support agent escalation backend",
		Commands: []*cli.Command{
			serveCommand(),
			chatCommand(),
			listCommand(),
			resolveCommand(),
			seedCommand(),
			reconcileCommand(),
			exportCommand(),
			restoreCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
