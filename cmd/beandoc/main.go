package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/beandoc/cmd/beandoc/commands"
	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
	"git.home.luguber.info/inful/beandoc/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("beandoc"),
		kong.Description("Generate reference documentation for the management beans of the embedded graph database."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(commands.NewGlobal(), cli); err != nil {
		dberrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
