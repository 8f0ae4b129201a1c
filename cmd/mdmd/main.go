package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yijongkuk/mdmd/internal/logging"
	"github.com/yijongkuk/mdmd/internal/server"
)

// errInvalid marks a run whose findings were already printed.
var errInvalid = errors.New("project has validation errors")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
	logFile  string
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "mdmd",
		Short:         "Zoning envelope and prefab module placement for a land parcel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := logging.Config{Level: opts.logLevel, Filename: opts.logFile, Append: true}
			if cfg.Filename == "" {
				cfg.Filename = "."
				cfg.Console = true
			}
			opts.log = logging.NewWithWriter(cfg, logWriter(cmd, cfg))
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "TRACE, DEBUG, INFO, WARN or ERROR")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "rotate logs into this file instead of stderr")

	rootCmd.AddCommand(envelopeCmd(opts))
	rootCmd.AddCommand(checkCmd(opts))
	rootCmd.AddCommand(alignCmd(opts))
	rootCmd.AddCommand(costCmd(opts))
	rootCmd.AddCommand(sceneCmd(opts))
	rootCmd.AddCommand(meshCmd(opts))
	rootCmd.AddCommand(zonesCmd())
	rootCmd.AddCommand(serveCmd(opts))
	return rootCmd
}

// logWriter sends console logs to the command's error stream so tests can
// capture them.
func logWriter(cmd *cobra.Command, cfg logging.Config) io.Writer {
	if cfg.Filename == "." && cfg.Console {
		return cmd.ErrOrStderr()
	}
	return logging.Writer(cfg)
}

func envelopeCmd(opts *rootOptions) *cobra.Command {
	var asJSON, asGeoJSON bool
	cmd := &cobra.Command{
		Use:   "envelope [project-path]",
		Short: "Derive the buildable envelope and print per-floor areas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvelope(cmd.OutOrStdout(), opts.log, args[0], asJSON, asGeoJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the envelope as JSON")
	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "print the envelope polygons as a GeoJSON FeatureCollection")
	return cmd
}

func checkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [project-path]",
		Short: "Validate the project file, its envelope and every placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), opts.log, args[0])
		},
	}
}

func alignCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "align [project-path]",
		Short: "Find the offset that clears the parcel of neighbouring buildings and roads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd.OutOrStdout(), opts.log, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func costCmd(opts *rootOptions) *cobra.Command {
	var rate float64
	var years int
	cmd := &cobra.Command{
		Use:   "cost [project-path]",
		Short: "Compute and display the module cost estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCost(cmd.OutOrStdout(), opts.log, args[0], rate, years)
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0.045, "annual interest rate for financing")
	cmd.Flags().IntVar(&years, "years", 20, "financing term in years")
	return cmd
}

func sceneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scene [project-path]",
		Short: "Generate the scene graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd.OutOrStdout(), opts.log, args[0])
		},
	}
}

func meshCmd(opts *rootOptions) *cobra.Command {
	var output string
	var cells int
	cmd := &cobra.Command{
		Use:   "mesh [project-path]",
		Short: "Export the envelope as an ASCII STL solid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMesh(cmd.OutOrStdout(), opts.log, args[0], output, cells)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "STL file to write (default stdout)")
	cmd.Flags().IntVar(&cells, "cells", 0, "marching cubes resolution (default 120)")
	return cmd
}

func zonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the use districts and their limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printZones(cmd.OutOrStdout())
			return nil
		},
	}
}

func serveCmd(opts *rootOptions) *cobra.Command {
	cfg := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the design server with the drag websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.ProjectDir = args[0]
			}
			srv, err := server.New(cfg, opts.log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "HTTP listen address")
	cmd.Flags().BoolVar(&cfg.Persist, "persist", false, "write committed drags back to project.yaml")
	cmd.Flags().Uint64Var(&cfg.CacheSize, "cache-size", cfg.CacheSize, "envelope cache capacity")
	cmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "envelope cache entry lifetime")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "gin debug mode")
	return cmd
}
