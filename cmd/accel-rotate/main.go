package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	screenrotation "github.com/imrisaac/iio-accel-screen-rotation"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/logging"
)

const defaultConfig = "./data/config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "state":
		err = stateCommand(os.Args[2:])
	case "rotate":
		err = rotateCommand(os.Args[2:])
	case "scale":
		err = scaleCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("accel-rotate %s: %v", cmd, err)
	}
}

func loadConfig(fs *flag.FlagSet, args []string) (*screenrotation.Config, error) {
	cfgPath := fs.String("config", defaultConfig, "Path to configuration file")
	logLevel := fs.String("log-level", "", "Override log.level from the config")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := screenrotation.LoadConfig(*cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	replay := fs.String("replay", "", "Read sensor lines from a file (\"-\" for stdin) instead of the serial device")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *replay != "" {
		cfg.Sensor.Device = ""
		cfg.Sensor.ReplayFile = *replay
	}

	flow, err := screenrotation.ConfFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfig, "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := screenrotation.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func stateCommand(args []string) error {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	rt, err := screenrotation.NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	l, err := rt.Snapshot(context.Background())
	if err != nil {
		return err
	}
	printLayout(l)
	return nil
}

func rotateCommand(args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ExitOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one of normal, left, right, inverted")
	}
	t, err := screenrotation.ParseTransform(fs.Arg(0))
	if err != nil {
		return err
	}

	rt, err := screenrotation.NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	l, err := rt.Rotate(context.Background(), t)
	if err != nil {
		return err
	}
	printLayout(l)
	return nil
}

func scaleCommand(args []string) error {
	fs := flag.NewFlagSet("scale", flag.ExitOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected a scale factor such as 1.25")
	}
	scale, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil || scale <= 0 {
		return fmt.Errorf("invalid scale %q", fs.Arg(0))
	}

	rt, err := screenrotation.NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	l, err := rt.SetScale(context.Background(), scale)
	if err != nil {
		return err
	}
	printLayout(l)
	return nil
}

func printLayout(l screenrotation.Layout) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "serial %d\n", l.Serial)
	fmt.Fprintln(w, "CONNECTOR\tPOSITION\tMODE\tSCALE\tTRANSFORM\tPRIMARY")
	for _, d := range l.Displays {
		for _, m := range d.Monitors {
			mode := "-"
			if cur, ok := m.CurrentMode(); ok {
				mode = fmt.Sprintf("%dx%d@%.2f", cur.Width, cur.Height, cur.RefreshRate)
			}
			fmt.Fprintf(w, "%s\t%d,%d\t%s\t%.2f\t%s\t%t\n",
				m.Connector, d.X, d.Y, mode, d.Scale, d.Transform, d.Primary)
		}
	}
	_ = w.Flush()
}

func printUsage() {
	fmt.Printf(`accel-rotate

Usage:
  accel-rotate <command> [flags]

Commands:
  run        Follow the accelerometer and rotate the configured display
  validate   Load and validate a config file without starting the runtime
  state      Print the current display layout
  rotate     Rotate the configured display once (normal, left, right, inverted)
  scale      Apply a scale factor to every display that supports it
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  accel-rotate run -config ./data/config.yaml
  accel-rotate run -replay ./capture.txt
  accel-rotate rotate -config ./data/config.yaml left
  accel-rotate scale 1.25
  accel-rotate stats -url http://localhost:9101/metrics -interval 1s
`)
}
