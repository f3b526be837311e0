package root

import (
	"github.com/artuross/lepton/internal/commands/derive"
	"github.com/artuross/lepton/internal/commands/eval"
	"github.com/artuross/lepton/internal/commands/functions"
	"github.com/artuross/lepton/internal/commands/inspect"
	"github.com/artuross/lepton/internal/commands/pathinfo"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "lepton",
		Usage: "Compiles and evaluates math expressions.",
		Commands: []*cli.Command{
			derive.NewCommand(),
			eval.NewCommand(),
			functions.NewCommand(),
			inspect.NewCommand(),
			pathinfo.NewCommand(),
		},
	}
}
