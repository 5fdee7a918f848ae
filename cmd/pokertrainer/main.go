package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Practice PracticeCmd `cmd:"" help:"Play practice hands against configured bots"`
	Replay   ReplayCmd   `cmd:"" help:"Replay a recorded hand and print the hand log"`
	Verify   VerifyCmd   `cmd:"" help:"Replay a directory of recorded hands and report failures"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertrainer"),
		kong.Description("Texas hold'em training: practice tables and hand-history replay"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(setupLogger(cli.Debug))
	ctx.FatalIfErrorf(err)
}

func setupLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}
