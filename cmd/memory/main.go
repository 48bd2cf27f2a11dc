package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play a two-player game in the terminal"`
	New     NewCmd           `cmd:"" help:"Deal a new game and write it to a save file"`
	Check   CheckCmd         `cmd:"" help:"Validate a save file and summarise it"`
	Scores  ScoresCmd        `cmd:"" help:"List recently finished games"`
	Serve   ServeCmd         `cmd:"" help:"Run a headless game played over HTTP"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("memory"),
		kong.Description("Two-player memory matching game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
