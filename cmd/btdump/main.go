package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rigado/btdump"
	"github.com/rigado/btdump/config"
	"github.com/rigado/btdump/dissect"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "btdump"
	app.Usage = "dissect Bluetooth traffic from usbmon and HCI captures"
	app.ArgsUsage = "[capture ...]"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "load settings from `FILE` (yaml, toml or json)"},
		cli.StringFlag{Name: "format, f", Usage: "trace format: text or json"},
		cli.IntFlag{Name: "buffer-size", Usage: "payload bytes kept per record"},
		cli.StringFlag{Name: "log-level", Usage: "diagnostics level (debug, info, warn, error)"},
		cli.StringFlag{Name: "log-file", Usage: "write diagnostics to a rotating `FILE`"},
		cli.BoolFlag{Name: "strict-channels", Usage: "bind only the destination CID of new L2CAP channels"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := load(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	if err := btdump.SetLogLevel(cfg.Log.Level); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	if w := cfg.LogWriter(); w != nil {
		defer w.Close()
		btdump.SetLogOutput(w)
	}

	s, err := dissect.NewSession(append(cfg.Options(), btdump.OptOutput(os.Stdout))...)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := []string(c.Args())
	if len(sources) == 0 {
		sources = []string{"-"}
	}
	for _, name := range sources {
		if err := dump(ctx, s, name); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	return nil
}

// load reads the configuration and applies command line overrides.
func load(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("buffer-size") {
		cfg.BufferSize = c.Int("buffer-size")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.Log.File.Filename = c.String("log-file")
	}
	if c.Bool("strict-channels") {
		cfg.BindBothChannels = false
	}
	return cfg, cfg.Validate()
}

func dump(ctx context.Context, s *dissect.Session, name string) error {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(btdump.ErrOpenSource, "%v", err)
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}
	return s.Run(ctx, name, r)
}
