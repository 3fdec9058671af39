package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"soyorin/pkg/config"
	"soyorin/pkg/display"
	"soyorin/pkg/layout"
	"soyorin/pkg/render"
	"soyorin/pkg/resource"
	"soyorin/pkg/state"
	"soyorin/pkg/url"
)

var errNoURL = errors.New("no URL given")

func urlArg(cmd *cli.Command) (*url.URL, error) {
	if cmd.Args().Len() == 0 {
		return nil, errNoURL
	}
	return url.Parse(cmd.Args().Get(0))
}

// loadTab loads the URL named by the first argument into a lone tab.
func loadTab(ctx context.Context, cmd *cli.Command) (*state.LocalEnv, *resource.Tab, error) {
	env := state.EnvFromContext(ctx)
	u, err := urlArg(cmd)
	if err != nil {
		return nil, nil, err
	}
	conn, err := env.Connection()
	if err != nil {
		return nil, nil, err
	}

	tab := resource.NewTab(conn, env.Log, env.Viewport())
	if err := tab.Load(ctx, u); err != nil {
		return nil, nil, err
	}
	env.Log.Info("Page loaded", zap.Stringer("url", u), zap.String("title", tab.Title()))
	return env, tab, nil
}

// outputName derives a PNG file name from a URL.
func outputName(u *url.URL) string {
	var name string
	switch u.Kind {
	case url.HTTP:
		name = slug.Make(u.Host + " " + u.Path)
	case url.File:
		name = slug.Make(u.Path)
	default:
		name = u.Kind.String()
	}
	if name == "" {
		name = "page"
	}
	return name + ".png"
}

func renderPage(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	u, err := urlArg(cmd)
	if err != nil {
		return err
	}
	dest := cmd.Args().Get(1)
	if dest == "" {
		dest = outputName(u)
	}

	vp := env.Viewport()
	var r *render.Renderer
	if cmd.Bool("chrome") {
		conn, err := env.Connection()
		if err != nil {
			return err
		}
		b := resource.NewBrowser(conn, env.Log, vp, nil)
		tab, err := b.NewTab(ctx, u)
		if err != nil {
			return err
		}
		tab.ScrollBy(float64(cmd.Int("scroll")))
		r = render.NewRenderer(int(vp.Width), int(vp.Height), env.Log)
		r.DrawFrame(b.Frame())
	} else {
		_, tab, err := loadTab(ctx, cmd)
		if err != nil {
			return err
		}
		if cmd.Bool("full") {
			height := int(math.Ceil(tab.Document.Height + 2*layout.VStep))
			r = render.NewRenderer(int(vp.Width), height, env.Log)
			r.Clear()
			r.Execute(tab.DisplayList, 0)
		} else {
			tab.ScrollBy(float64(cmd.Int("scroll")))
			r = render.NewRenderer(int(vp.Width), int(vp.Height), env.Log)
			r.Clear()
			r.Execute(tab.Visible(), -tab.Scroll())
		}
	}

	if err := r.SavePNG(dest); err != nil {
		return fmt.Errorf("unable to save %s: %w", dest, err)
	}
	env.Log.Info("Page rendered", zap.String("file", dest))
	return nil
}

func printTree(ctx context.Context, cmd *cli.Command) error {
	_, tab, err := loadTab(ctx, cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("html") {
		fmt.Fprintln(cmd.Root().Writer, tab.Nodes.SerializeOuter())
		return nil
	}
	writeTree(cmd.Root().Writer, tab.Nodes, cmd.StringSlice("property"))
	return nil
}

func printLayout(ctx context.Context, cmd *cli.Command) error {
	_, tab, err := loadTab(ctx, cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	fmt.Fprint(w, layout.Dump(tab.Document))
	fmt.Fprintln(w)
	for _, c := range tab.DisplayList {
		fmt.Fprintln(w, display.Describe(c))
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := cmd.Root().Writer
	if len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputting configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
