package main

import (
	"context"
	"fmt"

	"github.com/genricoloni/spanwall/internal/config"
	"github.com/genricoloni/spanwall/internal/engine"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const longDescription = `spanwall creates one wallpaper that spans across all monitors from
separate images, one per display, in display order.

Each source is an image file, an http(s) URL, a hex color such as #FF0000,
or an empty string ("") to leave that display black.`

// rootOptions holds flags that are not configuration keys
type rootOptions struct {
	configFile   string
	showDisplays bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "spanwall [flags] [IMAGE|URL|#RRGGBB|\"\"]...",
		Short:         "Create a spanned wallpaper from per-monitor images",
		Long:          longDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.showDisplays {
				return cmd.Help()
			}
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/spanwall/config.yaml)")
	flags.BoolVarP(&opts.showDisplays, "displays", "d", false, "print display information")
	flags.BoolP(config.KeyForce, "f", false, "overwrite output file if it already exists without confirmation")
	flags.StringP(config.KeyOutput, "o", "wallpaper.jpg", "name of the output image")
	flags.StringP(config.KeyMode, "m", "stretch", "resize mode when an image does not match its display (stretch, fill, fit)")
	flags.BoolP(config.KeyApply, "a", false, "set the result as the spanned desktop wallpaper")
	flags.Int(config.KeyQuality, 100, "JPEG quality (1-100)")
	flags.String(config.KeyFilter, "lanczos", "resampling filter (lanczos, catmullrom, linear, box, nearest)")
	flags.Int(config.KeyWorkers, 0, "images decoded in parallel (0 uses all CPUs)")
	flags.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	v, err := config.NewViper(opts.configFile)
	if err != nil {
		return err
	}
	for _, key := range []string{
		config.KeyForce, config.KeyOutput, config.KeyMode, config.KeyApply,
		config.KeyQuality, config.KeyFilter, config.KeyWorkers, config.KeyLogLevel,
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}

	var (
		eng    *engine.Engine
		logger *zap.Logger
	)
	app := fx.New(
		fx.Supply(v),
		AppOptions,
		fx.WithLogger(newFxLogger),
		fx.Populate(&eng, &logger),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Stop(context.Background())

	err = eng.Run(ctx, engine.Request{Tokens: args, ShowDisplays: opts.showDisplays})
	if err != nil {
		logger.Error("Unable to create wallpaper", zap.Error(err))
		if engine.IsUsageError(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.CommandPath())
		}
		return reportedError{err: err}
	}
	return nil
}
