package commands

import (
	"context"
	"fmt"

	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
	"git.home.luguber.info/inful/beandoc/internal/generate"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Values bool `help:"Also read and print the current attribute values"`
}

func (l *ListCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return dberrors.WrapError(err, dberrors.CategoryConfig, "failed to load configuration").Build()
	}

	listing, err := generate.NewService().List(context.Background(), cfg, l.Values)
	if err != nil {
		return err
	}

	out := stdout(global)
	fmt.Fprintf(out, "%d beans\n", len(listing))
	for _, item := range listing {
		fmt.Fprintf(out, "%s\t%s\t%s\n", item.ID, item.Name, item.ClassName)
		if item.Description != "" {
			fmt.Fprintf(out, "    %s\n", item.Description)
		}
		for _, v := range item.Values {
			fmt.Fprintf(out, "    %s = %s\n", v.Name, v)
		}
	}
	return nil
}
