package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/styleext/cmd/styleext/commands"
	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("styleext"),
		kong.Description("Inline generated stylesheets into generated HTML pages"),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		os.Exit(adapter.Report(os.Stderr, err))
	}
}
