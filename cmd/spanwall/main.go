package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/spanwall/internal/codec"
	"github.com/genricoloni/spanwall/internal/compositor"
	"github.com/genricoloni/spanwall/internal/config"
	"github.com/genricoloni/spanwall/internal/domain"
	"github.com/genricoloni/spanwall/internal/engine"
	"github.com/genricoloni/spanwall/internal/executor"
	"github.com/genricoloni/spanwall/internal/fetcher"
	"github.com/genricoloni/spanwall/internal/monitor"
	"github.com/genricoloni/spanwall/internal/prompt"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// AppOptions is the dependency graph of one run. It expects a *viper.Viper to be supplied.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(monitor.NewEnumerator, fx.As(new(domain.DisplayEnumerator))),
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(codec.NewLoader, fx.As(new(domain.ImageLoader))),
		fx.Annotate(codec.NewFileWriter, fx.As(new(domain.ImageWriter))),
		fx.Annotate(compositor.NewCompositor, fx.As(new(engine.Composer))),
		fx.Annotate(executor.NewExecutor, fx.As(new(domain.Executor))),
		fx.Annotate(prompt.NewTerminal, fx.As(new(domain.Prompter))),
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

// reportedError has already been logged and only needs a non-zero exit
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func main() {
	// Handle Ctrl+C while decoding or writing
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		cancel()
		os.Exit(1)
	}
}

// newLogger creates a human oriented console logger on stderr
func newLogger(v *viper.Viper) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(v.GetString(config.KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return cfg.Build()
}

func newFxLogger(log *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: log}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Debug("spanwall started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Sync fails on terminals with EINVAL; nothing to recover there
			_ = logger.Sync()
			return nil
		},
	})
}
