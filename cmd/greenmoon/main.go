// Command greenmoon runs the demo scenes in a window, plays JSON scripts
// against them headless, or serves them to the remote console.
//
//	greenmoon run
//	greenmoon script steps.json
//	greenmoon serve --addr :7777
//
// A .env file in the working directory is loaded first; every flag can also
// be set from its GREENMOON_* variable.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phanxgames/greenmoon"
	"github.com/phanxgames/greenmoon/console"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		greenmoon.Logger().Warn("loading .env", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		greenmoon.Logger().Error("greenmoon", "err", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "greenmoon",
		Usage: "run, script or serve the greenmoon demo scenes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON config file",
				Sources: cli.EnvVars("GREENMOON_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("GREENMOON_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable ObjectManager debug checks",
				Sources: cli.EnvVars("GREENMOON_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "open a window and run the demo",
				Action: runWindow,
			},
			{
				Name:      "script",
				Usage:     "play a JSON script headless and report failed expectations",
				ArgsUsage: "FILE",
				Action:    runScript,
			},
			{
				Name:  "serve",
				Usage: "run headless with the remote console",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "console listen address (default: config console_addr, then " + console.DefaultAddr + ")",
						Sources: cli.EnvVars("GREENMOON_CONSOLE_ADDR"),
					},
				},
				Action: runServe,
			},
		},
	}
}

// loadConfig reads --config when given and applies the flag overrides.
func loadConfig(cmd *cli.Command) (greenmoon.Config, error) {
	cfg := greenmoon.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = greenmoon.LoadConfigFile(path); err != nil {
			return cfg, err
		}
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	return cfg, cfg.Validate()
}

func runWindow(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sm, err := demoScenes(cfg)
	if err != nil {
		return err
	}
	return greenmoon.Run(sm, cfg)
}

func runScript(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return cli.Exit("script: missing FILE", 2)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	runner, err := greenmoon.LoadScript(data)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sm, err := demoScenes(cfg)
	if err != nil {
		return err
	}

	err = runner.Run(sm, greenmoon.FrameContext{Frame: 1, Delta: greenmoon.NewPacer(cfg.FrameRate).Frame()})
	for _, r := range runner.Results() {
		if r.Err != nil {
			fmt.Fprintf(cmd.Root().Writer, "step %d %s: error: %v\n", r.Step, r.Action, r.Err)
			continue
		}
		fmt.Fprintf(cmd.Root().Writer, "step %d %s: %v\n", r.Step, r.Action, r.Value)
	}
	for _, f := range runner.Failures() {
		fmt.Fprintf(cmd.Root().ErrWriter, "FAIL %s\n", f)
	}
	if errors.Is(err, greenmoon.ErrExpectationFailed) {
		return cli.Exit(err.Error(), 1)
	}
	return err
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sm, err := demoScenes(cfg)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = cfg.ConsoleAddr
	}
	if addr == "" {
		addr = console.DefaultAddr
	}

	srv := console.NewServer(0)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, addr) }()

	err = greenmoon.RunHeadless(ctx, sm, cfg, 0, func(uint64) error {
		select {
		case err := <-errc:
			return err
		default:
		}
		srv.Drain(sm)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
