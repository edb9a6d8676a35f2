package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/imrisaac/iio-accel-screen-rotation/pkg/screenrotation"
)

func main() {
	flow, err := screenrotation.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(tr screenrotation.Transition) error {
		fmt.Printf("%s %s -> %s transform=%s sample=(%.0f, %.0f, %.0f)\n",
			tr.Sample.Received.Format(time.RFC3339Nano),
			tr.From, tr.To, tr.Transform,
			tr.Sample.X, tr.Sample.Y, tr.Sample.Z,
		)
		return nil
	}

	if err := flow.Run(ctx, screenrotation.OnTransition("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
