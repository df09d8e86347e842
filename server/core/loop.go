package core

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Janitor ticks the coordinator at a fixed rate so empty rooms get pruned.
type Janitor struct {
	coord    *Coordinator
	tickRate int
	logger   *log.Logger
}

func NewJanitor(coord *Coordinator, tickRate int, logger *log.Logger) *Janitor {
	if tickRate <= 0 {
		tickRate = 1
	}
	return &Janitor{coord: coord, tickRate: tickRate, logger: logger}
}

func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(j.tickRate))
	defer ticker.Stop()

	j.logger.Debug("janitor started", "tick_rate", j.tickRate)
	for {
		select {
		case <-ctx.Done():
			j.logger.Debug("janitor stopped")
			return
		case <-ticker.C:
			j.coord.Tick()
		}
	}
}
