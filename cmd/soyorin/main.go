package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"soyorin/pkg/state"
)

const appName = "soyorin"

// initializeAppContext loads configuration and starts logging once the
// command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	configFile := cmd.String("config")
	if err := env.Prepare(configFile, cmd.Bool("debug")); err != nil {
		return ctx, err
	}

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	return env.Close()
}

// Errors from subcommands are logged here, before the log is closed.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "minimal web browser engine",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to the console"},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Renders a page to a PNG image",
				ArgsUsage: "URL [DESTINATION]",
				Action:    renderPage,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "scroll", Usage: "scroll the page down by `PIXELS` before rendering"},
					&cli.BoolFlag{Name: "full", Usage: "render the whole page instead of one window"},
					&cli.BoolFlag{Name: "chrome", Usage: "draw the tab strip above the page"},
				},
			},
			{
				Name:      "tree",
				Usage:     "Prints the styled element tree of a page",
				ArgsUsage: "URL",
				Action:    printTree,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "property", Aliases: []string{"p"}, Usage: "show computed `PROPERTY` values (repeatable)"},
					&cli.BoolFlag{Name: "html", Usage: "print the parsed document as markup instead"},
				},
			},
			{
				Name:      "layout",
				Usage:     "Prints the box tree and display list of a page",
				ArgsUsage: "URL",
				Action:    printLayout,
			},
			{
				Name:   "dumpconfig",
				Usage:  "Dumps either default or actual configuration (YAML)",
				Action: outputConfiguration,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				ArgsUsage: "DESTINATION",
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	var err error
	// os.Exit below skips deferred calls, so nothing else may be deferred.
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}
