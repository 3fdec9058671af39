package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"soyorin/pkg/state"
)

func run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if err := env.Prepare(cmd.String("config"), cmd.Bool("debug")); err != nil {
		return err
	}
	defer env.Close()

	start := cmd.Args().Get(0)
	if start == "" {
		start = env.Cfg.Browser.Home
	}

	conn, err := env.Connection()
	if err != nil {
		return err
	}

	a := app.New()
	w := a.NewWindow("soyorin")
	vp := env.Viewport()
	w.Resize(fyne.NewSize(float32(vp.Width), float32(vp.Height)+40))

	s := newShell(ctx, env.Log, conn, vp, w)
	s.open(start)

	env.Log.Debug("Window opened", zap.String("url", start))
	w.ShowAndRun()
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "soyorin-gui",
		Usage:     "browse the web in a window",
		ArgsUsage: "[URL]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to the console"},
		},
		Action: run,
	}
	if err := cmd.Run(state.ContextWithEnv(context.Background()), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		os.Exit(1)
	}
}
