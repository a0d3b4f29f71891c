// ABOUTME: serve command: prints the startup banner and runs the HTTP server
// ABOUTME: Blocks until SIGINT/SIGTERM, then shuts down gracefully

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/taskboard/internal/server"
)

const banner = `
 _            _    _                         _
| |_ __ _ ___| | _| |__   ___   __ _ _ __ __| |
| __/ _' / __| |/ / '_ \ / _ \ / _' | '__/ _' |
| || (_| \__ \   <| |_) | (_) | (_| | | | (_| |
 \__\__,_|___/_|\_\_.__/ \___/ \__,_|_|  \__,_|
`

func newServeCmd(a *app, version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.HTTPAddr = addr
			}
			out := cmd.OutOrStdout()

			cyan := color.New(color.FgCyan)
			gray := color.New(color.FgHiBlack)
			green := color.New(color.FgGreen)

			cyan.Fprint(out, banner)
			gray.Fprintf(out, "    version: %s\n\n", version)

			configPath := a.usedPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			green.Fprint(out, "    ▶ ")
			fmt.Fprintf(out, "Config:    %s\n", configPath)
			green.Fprint(out, "    ▶ ")
			fmt.Fprintf(out, "Database:  %s (%s)\n", a.cfg.Database.Path, a.cfg.Database.Driver)
			if a.cfg.Tailscale.Enabled {
				green.Fprint(out, "    ▶ ")
				fmt.Fprint(out, "Tailscale: ")
				cyan.Fprint(out, a.cfg.Tailscale.Hostname)
				if a.cfg.Tailscale.Ephemeral {
					gray.Fprint(out, " (ephemeral)")
				}
				fmt.Fprintln(out)
			} else {
				green.Fprint(out, "    ▶ ")
				fmt.Fprintf(out, "HTTP:      http://%s\n", a.cfg.Server.HTTPAddr)
			}
			fmt.Fprintln(out)

			a.logger.Info("starting taskboard",
				"config", configPath,
				"http_addr", a.cfg.Server.HTTPAddr,
				"database", a.cfg.Database.Path,
			)

			srv, err := server.New(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.http_addr")
	return cmd
}
