package main

import (
	"github.com/machlink/machlink/internal/cli"
	"github.com/machlink/machlink/internal/cli/commands"
)

func main() {
	app := cli.NewApp()
	app.Initialize()

	runner := cli.NewRunner()
	runner.RegisterCommand("order", commands.OrderCommand)
	runner.RegisterCommand("cycles", commands.CyclesCommand)
	runner.RegisterCommand("lint", commands.LintCommand)
	runner.RegisterCommand("merge", commands.MergeCommand)
	runner.RegisterCommand("resolve", commands.ResolveCommand)
	runner.RegisterCommand("watch", commands.WatchCommand)
	runner.RegisterCommand("version", commands.VersionCommand)
	runner.RegisterCommand("help", commands.HelpCommand)

	app.Run(runner)
}
