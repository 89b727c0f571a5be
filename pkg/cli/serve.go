package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/server"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/escalation"
	"github.com/frontdesk-dev/frontdesk/pkg/usecase/resolution"
	"github.com/frontdesk-dev/frontdesk/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cli.Command {
	var (
		cfg               config
		addr              string
		reconcileSchedule string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("FRONTDESK_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "reconcile-schedule",
			Usage:       "Cron schedule for the record reconciliation pass",
			Value:       "@every 10m",
			Sources:     cli.EnvVars("FRONTDESK_RECONCILE_SCHEDULE"),
			Destination: &reconcileSchedule,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, tokenFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the escalation backend API",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.newLogger(os.Stderr)
			logger := logging.Default()

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			resolutionUC := resolution.New(repo)
			handler := server.New(server.Deps{
				Repo:       repo,
				Escalation: escalation.New(repo),
				Resolution: resolutionUC,
				Token:      cfg.newTokenIssuer(),
			})

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Resolution has no cross-record transaction, so inconsistent
			// records are possible after partial failures. Sweep for them
			// periodically and log what turns up.
			scheduler := cron.New()
			_, err = scheduler.AddFunc(reconcileSchedule, func() {
				found, err := resolutionUC.Reconcile(ctx)
				if err != nil {
					logger.Error("reconciliation pass failed", "error", err)
					return
				}
				for _, inc := range found {
					logger.Warn("inconsistent records detected",
						"request_id", inc.RequestID,
						"response_id", inc.ResponseID,
						"reason", inc.Reason)
				}
			})
			if err != nil {
				return goerr.Wrap(err, "invalid reconcile schedule",
					goerr.V("schedule", reconcileSchedule))
			}
			scheduler.Start()
			defer scheduler.Stop()

			srv := &http.Server{
				Addr:    addr,
				Handler: handler,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("frontdesk listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "server error")
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}
