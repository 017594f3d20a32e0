package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/styleext/internal/config"
	"git.home.luguber.info/inful/styleext/internal/errors"
)

// BuildFlags override the build section of the configuration file.
type BuildFlags struct {
	Source string `short:"s" help:"Override build.source"`
	Output string `short:"o" help:"Override build.output"`
	Hooks  string `name:"hooks" help:"Override build.hooks (tap|legacy)"`
}

func (f BuildFlags) apply(cfg *config.AppConfig) {
	if f.Source != "" {
		cfg.Build.Source = f.Source
	}
	if f.Output != "" {
		cfg.Build.Output = f.Output
	}
	if f.Hooks != "" {
		cfg.Build.Hooks = f.Hooks
	}
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	BuildFlags  `embed:""`
	FailOnError bool `name:"fail-on-error" help:"Exit non-zero when the compilation recorded errors"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	b.apply(cfg)

	p, err := NewPipeline(cfg, g.logger())
	if err != nil {
		return err
	}
	res, err := p.Build(context.Background())
	if err != nil {
		return err
	}
	PrintReport(os.Stdout, res)

	if b.FailOnError && res.Stats.HasErrors() {
		comp := res.Stats.Compilation
		return errors.Wrap(comp.Err(), errors.CategoryMutation, errors.SeverityError,
			fmt.Sprintf("compilation finished with %d error(s)", len(comp.Errors())))
	}
	return nil
}
