package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bizcharts/internal/preview"
)

type serveOptions struct {
	ConfigPath string
	Addr       string
	MaxClients int
	NoWatch    bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview that redraws when the data file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to chart document")
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&opts.MaxClients, "max-clients", 32, "Maximum concurrent preview connections")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Do not reload when the data file changes")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, opts.ConfigPath, root.log)
	if err != nil {
		return err
	}
	defer s.chart.Destroy() //nolint:errcheck

	cfg := preview.Config{
		Addr:       opts.Addr,
		MaxClients: opts.MaxClients,
		Logger:     root.log.Zerolog(),
	}
	if !opts.NoWatch {
		cfg.DataPath = s.doc.DataPath()
	}

	server, err := preview.New(s.chart, s.publisher, cfg)
	if err != nil {
		return err
	}

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
