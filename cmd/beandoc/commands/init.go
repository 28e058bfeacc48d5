package commands

import (
	"fmt"

	"git.home.luguber.info/inful/beandoc/internal/config"
	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	out := stdout(global)
	fmt.Fprintf(out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return dberrors.WrapError(err, dberrors.CategoryConfig, "initialization failed").
			WithContext("path", root.Config).Build()
	}
	fmt.Fprintln(out, "initialized successfully")
	return nil
}
