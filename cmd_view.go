package main

import (
	"github.com/TFMV/forcefield/terminal"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [input]",
		Short: "Explore a layout interactively in the terminal",
		Long: `View runs the simulation live in the terminal.

Drag nodes with the mouse, click empty space to add a node, and hold the
edge modifier (ctrl by default) while dragging from one node to another
to connect them. + and - zoom, the arrow keys pan, p pauses, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the screen owns stdout; logs only go to --log-file
			a, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			var input string
			if len(args) == 1 {
				input = args[0]
			}
			session, err := a.newSession(input)
			if err != nil {
				return err
			}

			screen, err := terminal.Open()
			if err != nil {
				return err
			}
			defer screen.Fini()

			opts := terminal.OptionsFromConfig(a.cfg.View)
			opts.Labels = a.cfg.Render.Labels
			opts.Palette = a.palette

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return terminal.New(session, screen, opts, a.logger).Run(ctx)
		},
	}
	return cmd
}
