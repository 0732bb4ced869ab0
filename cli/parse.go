package cli

// This file contains the parse command: a dry run over a collection file.

import (
	"fmt"
	"os"

	"al.essio.dev/pkg/shellescape"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/mtrbatch/mtrbatch/collection"
	"github.com/mtrbatch/mtrbatch/exitcodes"
)

func (a *App) parse(ctx *cli.Context) error {
	path := ctx.String("collection")
	if path == "" {
		return cli.Exit("missing required option: --collection", exitcodes.UsageError)
	}

	invs, err := collection.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.ConfigError)
	}
	if len(invs) == 0 {
		fmt.Printf("No invocations in %s\n", path)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "LINE", "COMMENT", "VARDIR", "COMMAND"})
	for i, inv := range invs {
		t.AppendRow(table.Row{
			i + 1,
			inv.Line,
			inv.Comment,
			inv.Vardir,
			shellescape.QuoteCommand(inv.Args),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	return nil
}
