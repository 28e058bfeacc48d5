package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/beandoc/internal/config"
	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
	"git.home.luguber.info/inful/beandoc/internal/generate"
	"git.home.luguber.info/inful/beandoc/internal/metrics"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output     string `short:"o" help:"Output directory (overrides output.directory)"`
	Format     string `short:"f" help:"Output format: asciidoc or markdown (overrides output.format)"`
	Clean      bool   `help:"Remove documents from an earlier run first"`
	NoManifest bool   `name:"no-manifest" help:"Do not write manifest.json"`
	Metrics    string `name:"metrics-textfile" help:"Write Prometheus metrics to this file"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return dberrors.WrapError(err, dberrors.CategoryConfig, "failed to load configuration").Build()
	}
	if err := g.apply(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := generate.NewService().WithStdout(stdout(global))
	if cfg.Metrics.Textfile != "" {
		svc = svc.WithRecorder(metrics.NewPrometheusRecorder(prom.NewRegistry()))
	}
	_, err = svc.Run(ctx, cfg)
	return err
}

// apply layers the command line flags over the loaded configuration.
func (g *GenerateCmd) apply(cfg *config.Config) error {
	if g.Output != "" {
		cfg.Output.Directory = g.Output
	}
	if g.Format != "" {
		f, err := config.ParseOutputFormat(g.Format)
		if err != nil {
			return dberrors.WrapError(err, dberrors.CategoryValidation, "invalid --format").Build()
		}
		cfg.Output.Format = f
	}
	if g.Clean {
		cfg.Output.Clean = true
	}
	if g.NoManifest {
		off := false
		cfg.Output.Manifest = &off
	}
	if g.Metrics != "" {
		cfg.Metrics.Textfile = g.Metrics
	}
	return nil
}
