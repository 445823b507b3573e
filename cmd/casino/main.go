package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the casino server"`
	Bot      BotCmd           `cmd:"" help:"Join a session and play it with a built-in strategy"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot-vs-bot rounds locally and report scores"`
	Config   ConfigCmd        `cmd:"" help:"Manage configuration files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("casino"),
		kong.Description("Authoritative server for the 40-card Casino game"),
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
