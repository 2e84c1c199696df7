package main

import (
	"github.com/TFMV/forcefield/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [input]",
		Short: "Run a layout session behind an HTTP API",
		Long: `Serve steps the simulation on a ticker and exposes the session over
HTTP: read the graph and stats, add nodes and edges, drag nodes, render
the current layout, and scrape Prometheus metrics from /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Server.Addr = addr
			}

			var input string
			if len(args) == 1 {
				input = args[0]
			}
			session, err := a.newSession(input)
			if err != nil {
				return err
			}

			srv := server.New(session, server.Config{
				Addr:          a.cfg.Server.Addr,
				FrameInterval: a.cfg.Server.FrameInterval,
				Render:        *a.renderOptions(a.cfg.Render.Format),
			}, a.logger)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}
