package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	screenrotation "github.com/imrisaac/iio-accel-screen-rotation"
)

// Replays a captured sensor log and prints each applied rotation from a
// separate goroutine.
func main() {
	cfg, err := screenrotation.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.Sensor.Device = ""
	cfg.Sensor.ReplayFile = "-"
	cfg.Metrics.Disabled = true

	flow, err := screenrotation.ConfFromConfig(cfg)
	if err != nil {
		log.Fatalf("build flow: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier, transitions, closeTransitions := screenrotation.NewChannelNotifier("fanout", 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tr := range transitions {
			fmt.Printf("rotated %s: %s\n", tr.To, tr.Transform)
		}
	}()

	err = flow.Run(ctx, screenrotation.WithNotifier(notifier))
	closeTransitions()
	<-done
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
