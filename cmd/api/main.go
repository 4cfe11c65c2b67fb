package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging (overrides LOG_LEVEL)"`
	EnvFile string           `name:"env-file" default:".env" help:"Optional .env file loaded before the environment is read"`

	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Run the HTTP and websocket server"`
	Migrate MigrateCmd `cmd:"" help:"Apply the database schema and exit"`
	Play    PlayCmd    `cmd:"" help:"Play one headless match and print it to the log"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("arena"),
		kong.Description("Connect four arena for LLMs, engines and humans"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	if err := godotenv.Load(cli.EnvFile); err != nil {
		log.Debug("No .env file found", "path", cli.EnvFile)
	}

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
