package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var (
		cfg    config
		bucket string
		prefix string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for history archives",
			Required:    true,
			Sources:     cli.EnvVars("FRONTDESK_EXPORT_BUCKET"),
			Destination: &bucket,
		},
		&cli.StringFlag{
			Name:        "prefix",
			Usage:       "Object key prefix",
			Value:       "history",
			Sources:     cli.EnvVars("FRONTDESK_EXPORT_PREFIX"),
			Destination: &prefix,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Archive the request history to Cloud Storage as JSONL",
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

			hists, err := repo.ListHistory(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list request history")
			}

			key := fmt.Sprintf("%s/%s.jsonl", prefix, time.Now().UTC().Format("20060102T150405Z"))
			w, err := storage.Put(ctx, key)
			if err != nil {
				return goerr.Wrap(err, "failed to open archive object", goerr.V("key", key))
			}

			enc := json.NewEncoder(w)
			for _, hist := range hists {
				if err := enc.Encode(hist); err != nil {
					_ = w.Close()
					return goerr.Wrap(err, "failed to encode history record",
						goerr.V("request_id", hist.ID))
				}
			}
			if err := w.Close(); err != nil {
				return goerr.Wrap(err, "failed to finalize archive", goerr.V("key", key))
			}

			fmt.Fprintf(c.Root().Writer, "Exported %d history records to gs://%s/%s\n",
				len(hists), bucket, key)
			return nil
		},
	}
}
