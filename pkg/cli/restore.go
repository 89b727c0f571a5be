package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func restoreCommand() *cli.Command {
	var (
		cfg    config
		bucket string
		key    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket holding history archives",
			Required:    true,
			Sources:     cli.EnvVars("FRONTDESK_EXPORT_BUCKET"),
			Destination: &bucket,
		},
		&cli.StringFlag{
			Name:        "key",
			Aliases:     []string{"k"},
			Usage:       "Object key of the JSONL archive to restore",
			Required:    true,
			Sources:     cli.EnvVars("FRONTDESK_RESTORE_KEY"),
			Destination: &key,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "restore",
		Usage: "Load request history records back from a Cloud Storage archive",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			storage, err := cfg.newStorage(ctx, bucket)
			if err != nil {
				return err
			}

			r, err := storage.Get(ctx, key)
			if err != nil {
				return goerr.Wrap(err, "failed to open archive object", goerr.V("key", key))
			}
			defer r.Close()

			// History records are keyed by request id and fully
			// overwritten on write, so restoring is idempotent.
			count := 0
			dec := json.NewDecoder(r)
			for {
				var hist model.HelpRequestHistory
				if err := dec.Decode(&hist); err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					return goerr.Wrap(err, "failed to decode history record",
						goerr.V("key", key))
				}
				if hist.ID == "" {
					return goerr.New("history record is missing request id",
						goerr.V("key", key))
				}
				if err := hist.Status.Validate(); err != nil {
					return goerr.Wrap(err, "invalid history record",
						goerr.V("request_id", hist.ID))
				}

				if err := repo.PutHistory(ctx, &hist); err != nil {
					return goerr.Wrap(err, "failed to restore history record",
						goerr.V("request_id", hist.ID))
				}
				count++
			}

			fmt.Fprintf(c.Root().Writer, "Restored %d history records from gs://%s/%s\n",
				count, bucket, key)
			return nil
		},
	}
}
