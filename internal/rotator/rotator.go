// Package rotator emits the periodic ticks that advance the wall.
package rotator

import (
	"context"
	"log/slog"
	"time"

	"github.com/MaTriXy/videowall/internal/bus"
	"github.com/MaTriXy/videowall/internal/config"
)

type Rotator struct {
	store config.Store
}

func New(store config.Store) Rotator {
	return Rotator{
		store: store,
	}
}

func (r Rotator) String() string {
	return "rotator.Rotator"
}

func (r Rotator) Serve(ctx context.Context) error {
	cfg, err := r.store.GetConfig()
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.Rotation.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Rotation ticking", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			bus.Publish(bus.RotateTick{})
		}
	}
}
