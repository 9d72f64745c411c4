package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sushant12/vdisk/internal/config"
	vhttp "github.com/sushant12/vdisk/internal/http"
)

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve script, manifest and firecracker config rendering over HTTP",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := vhttp.NewServer(c.cfg.Listen, c.log, c.cfg.Firecracker.Options()...)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				c.log.Info("Received termination signal. Shutting down...")
			}

			if err := srv.Stop(context.Background()); err != nil {
				return err
			}

			return <-errCh
		},
	}

	cmd.Flags().String(config.KeyListen, config.DefaultListen, "Address to listen on")
	_ = c.v.BindPFlag(config.KeyListen, cmd.Flags().Lookup(config.KeyListen))

	return cmd
}
