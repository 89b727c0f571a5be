package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type seedEntry struct {
	Question    string    `yaml:"question"`
	Answer      string    `yaml:"answer"`
	LearnedDate time.Time `yaml:"learnedDate"`
}

type seedFile struct {
	Entries []seedEntry `yaml:"entries"`
}

func seedCommand() *cli.Command {
	var (
		cfg       config
		inputPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to YAML file containing knowledge entries",
			Required:    true,
			Sources:     cli.EnvVars("FRONTDESK_SEED_INPUT"),
			Destination: &inputPath,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load knowledge base entries from a YAML file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return goerr.Wrap(err, "failed to read seed file", goerr.V("path", inputPath))
			}

			var file seedFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return goerr.Wrap(err, "failed to parse seed file", goerr.V("path", inputPath))
			}
			if len(file.Entries) == 0 {
				return goerr.New("seed file contains no entries", goerr.V("path", inputPath))
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			for i, seed := range file.Entries {
				if seed.Question == "" || seed.Answer == "" {
					return goerr.New("seed entry is missing question or answer",
						goerr.V("index", i))
				}

				learned := seed.LearnedDate
				if learned.IsZero() {
					learned = time.Now()
				}

				entry := &model.KnowledgeEntry{
					ID:          model.NewEntryID(),
					Question:    seed.Question,
					Answer:      seed.Answer,
					LearnedDate: learned,
				}
				if err := repo.PutKnowledge(ctx, entry); err != nil {
					return goerr.Wrap(err, "failed to seed knowledge entry",
						goerr.V("question", seed.Question))
				}
			}

			fmt.Fprintf(c.Root().Writer, "Seeded %d knowledge entries\n", len(file.Entries))
			return nil
		},
	}
}
