package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/frontdesk-dev/frontdesk/pkg/adapter"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/conversation"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/lookup"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// chatCommand runs a terminal stand-in for the voice transport: each line
// is treated as one completed caller utterance and handed to the
// orchestrator against a running backend.
func chatCommand() *cli.Command {
	var backendURL string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Aliases:     []string{"u"},
			Usage:       "Base URL of the escalation backend",
			Value:       "http://localhost:8000",
			Sources:     cli.EnvVars("FRONTDESK_BACKEND_URL"),
			Destination: &backendURL,
		},
	}

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive caller session against a running backend",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			backend := adapter.NewBackend(backendURL)
			uc := conversation.New(lookup.New(backend), backend)

			rl, err := readline.New("caller> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open terminal")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Session started against %s. Type 'exit' to quit.\n", backendURL)

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				question := strings.TrimSpace(line)
				if question == "" {
					continue
				}
				if question == "exit" {
					break
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " checking the knowledge base..."
				sp.Start()
				response := uc.HandleQuestion(ctx, question)
				sp.Stop()

				fmt.Fprintf(c.Root().Writer, "agent> %s\n", response)
			}

			fmt.Fprintf(c.Root().Writer, "\nSession ended\n")
			return nil
		},
	}
}
