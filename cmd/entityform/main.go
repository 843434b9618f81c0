// Command entityform fills and submits admin entity forms from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	entityform "github.com/goliatone/go-entityform"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// annotationNoApp marks commands that only need the configuration.
const annotationNoApp = "entityform/no-app"

type cli struct {
	configPath string
	locale     string
	shop       string
	verbose    bool

	logger  *zap.Logger
	cfg     entityform.Config
	app     *entityform.App
	metrics *http.Server
}

func newRootCommand() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "entityform",
		Short:         "Create, edit and translate admin entities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.teardown()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVarP(&c.locale, "locale", "l", "", "content language (overrides the configuration)")
	root.PersistentFlags().StringVar(&c.shop, "shop", "", "shop slug the operator acts for")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	for _, name := range entityform.Entities() {
		root.AddCommand(c.entityCommand(name))
	}
	root.AddCommand(c.suggestCommand(), c.filterCommand(), c.configCommand())
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	logCfg := zap.NewProductionConfig()
	if c.verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger

	cfg, err := entityform.ReadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.locale != "" {
		cfg.Locale.Active = c.locale
	}
	c.cfg = cfg
	if cmd.Annotations[annotationNoApp] != "" {
		return nil
	}
	app, err := entityform.New(cfg, entityform.WithLogger(logger))
	if err != nil {
		return err
	}
	c.app = app

	if addr := cfg.Metrics.Addr; addr != "" && app.Registry() != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Registry(), promhttp.HandlerOpts{}))
		c.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := c.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Debug("serving metrics", zap.String("addr", addr))
	}
	return nil
}

func (c *cli) teardown() {
	if c.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = c.metrics.Shutdown(ctx)
		cancel()
	}
	_ = c.logger.Sync()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
