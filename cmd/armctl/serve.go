package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.bug.st/serial"

	"github.com/example/armctl/pkg/arm"
	"github.com/example/armctl/pkg/control"
	"github.com/example/armctl/pkg/store"
)

type ServeCommand struct {
	Config  string `long:"config" description:"Config file (default armctl.json if present)"`
	Sim     bool   `long:"sim" description:"Drive a simulated arm instead of servo hardware"`
	Stdio   bool   `long:"stdio" description:"Serve the protocol on stdin/stdout instead of the host serial port"`
	DB      string `long:"db" description:"SQLite sequence database (overrides config)"`
	Verbose bool   `short:"v" long:"verbose" description:"Debug logging"`
}

// stdio joins stdin and stdout into the controller's byte stream.
type stdio struct {
	io.Reader
	io.Writer
}

func (c *ServeCommand) Execute(args []string) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := c.loadConfig(logger)
	if err != nil {
		return err
	}

	hw, err := c.openHardware(cfg, logger)
	if err != nil {
		return err
	}
	defer hw.Close()

	st, closeStore, err := c.openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctrl, err := control.New(cfg, hw, st, control.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rw, closeStream, err := c.openStream(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStream()

	if err := ctrl.Run(ctx, rw); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("controller stopped")
	return nil
}

func (c *ServeCommand) loadConfig(logger *slog.Logger) (*arm.Config, error) {
	if c.Config != "" {
		cfg, err := arm.LoadConfigFrom(c.Config)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	if arm.ConfigExists() {
		cfg, err := arm.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		logger.Info("loaded config", "file", arm.DefaultConfigFile)
		return cfg, nil
	}
	logger.Warn("no config file, using defaults; run 'armctl setup' to calibrate")
	return arm.DefaultConfig(), nil
}

func (c *ServeCommand) openHardware(cfg *arm.Config, logger *slog.Logger) (arm.Hardware, error) {
	if c.Sim || cfg.Bus.Sim {
		logger.Info("using simulated arm")
		return arm.NewSim(cfg), nil
	}
	if cfg.Bus.Device == "" {
		return nil, errors.New("no servo bus configured; run 'armctl setup' or pass --sim")
	}
	hw, err := arm.NewFeetechArm(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect arm on %s: %w", cfg.Bus.Device, err)
	}
	logger.Info("connected to arm", "device", cfg.Bus.Device)
	return hw, nil
}

func (c *ServeCommand) openStore(cfg *arm.Config, logger *slog.Logger) (store.Store, func(), error) {
	path := cfg.DBPath
	if c.DB != "" {
		path = c.DB
	} else if c.Sim {
		// A simulated arm gets an ephemeral store unless --db asks otherwise.
		path = ""
	}
	if path == "" {
		logger.Info("using in-memory sequence store")
		return store.NewMemoryStore(), func() {}, nil
	}
	sq, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sequence database: %w", err)
	}
	logger.Info("sequence database open", "path", path)
	return sq, func() { sq.Close() }, nil
}

func (c *ServeCommand) openStream(cfg *arm.Config, logger *slog.Logger) (io.ReadWriter, func(), error) {
	if c.Stdio {
		logger.Info("serving on stdio")
		return stdio{os.Stdin, os.Stdout}, func() {}, nil
	}
	if cfg.Host.Device == "" {
		return nil, nil, errors.New("no host serial port configured; run 'armctl setup' or pass --stdio")
	}
	port, err := serial.Open(cfg.Host.Device, &serial.Mode{BaudRate: cfg.Host.Baud})
	if err != nil {
		return nil, nil, fmt.Errorf("open host port %s: %w", cfg.Host.Device, err)
	}
	logger.Info("serving on serial port", "device", cfg.Host.Device, "baud", cfg.Host.Baud)
	return port, func() { port.Close() }, nil
}
