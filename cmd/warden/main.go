package main

import (
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "warden",
		Usage:   "automod daemon (keeps the peace)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			Value:   "info",
			EnvVars: []string{"WARDEN_LOG_LEVEL", "LOG_LEVEL"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:   "run",
	Usage:  "run the automod daemon",
	Action: runServer,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "gateway-host",
			Usage:   "websocket URL of the gateway event stream",
			Value:   "ws://localhost:6100",
			EnvVars: []string{"WARDEN_GATEWAY_HOST"},
		},
		&cli.StringFlag{
			Name:    "api-host",
			Usage:   "base URL of the platform REST API (invites, moderation actions)",
			Value:   "http://localhost:6110",
			EnvVars: []string{"WARDEN_API_HOST"},
		},
		&cli.StringFlag{
			Name:    "archive-host",
			Usage:   "base URL of the evidence archive service",
			EnvVars: []string{"WARDEN_ARCHIVE_HOST"},
		},
		&cli.StringFlag{
			Name:    "rules-dir",
			Usage:   "directory of per-community rule files (YAML)",
			Value:   "data/rules",
			EnvVars: []string{"WARDEN_RULES_DIR"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection for persisted antiraid levels, eg redis://localhost:6379/0 (empty: in-memory)",
			EnvVars: []string{"WARDEN_REDIS_URL", "REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":6120",
			EnvVars: []string{"WARDEN_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "incoming webhook for internal bot-alerts",
			EnvVars: []string{"SLACK_WEBHOOK_URL"},
		},
	},
}
