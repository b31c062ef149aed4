// Package worker runs the background feedback email dispatcher.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"
)

// DefaultInterval matches the original system's one-minute check cadence.
const DefaultInterval = time.Minute

// Dispatcher ticks the scheduled email checker. One instance per process;
// overlapping ticks are collapsed by an in-flight guard, so a slow SMTP
// conversation can never stack passes.
type Dispatcher struct {
	dispatchService services.DispatchService
	interval        time.Duration
	inFlight        atomic.Bool
	lastRun         atomic.Int64 // unix seconds of the last completed pass
}

// NewDispatcher creates a new Dispatcher. A non-positive interval falls back
// to DefaultInterval.
func NewDispatcher(dispatchService services.DispatchService, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Dispatcher{
		dispatchService: dispatchService,
		interval:        interval,
	}
}

// Start blocks until ctx is cancelled, running one checker pass per tick.
// Run it on its own goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	utils.LogInfo("Feedback dispatcher started", map[string]interface{}{
		"interval": d.interval.String(),
	})

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Feedback dispatcher stopped", nil)
			return
		case <-ticker.C:
			d.RunOnce(time.Now())
		}
	}
}

// RunOnce executes a single pass unless one is already in flight. It backs
// both the ticker and the manual trigger endpoint.
func (d *Dispatcher) RunOnce(now time.Time) *services.DispatchResult {
	if !d.inFlight.CompareAndSwap(false, true) {
		utils.LogInfo("Feedback dispatch pass already in flight, skipping", nil)
		return nil
	}
	defer d.inFlight.Store(false)

	result, err := d.dispatchService.RunPass(now)
	if err != nil {
		utils.LogError(err, "Feedback dispatch pass failed")
		return nil
	}
	d.lastRun.Store(now.Unix())

	if result.FirstSent > 0 || result.SecondSent > 0 || len(result.Failed) > 0 {
		utils.LogInfo("Feedback dispatch pass finished", map[string]interface{}{
			"checked":     result.Checked,
			"first_sent":  result.FirstSent,
			"second_sent": result.SecondSent,
			"skipped":     result.Skipped,
			"failed":      len(result.Failed),
		})
	}
	return result
}

// Status reports whether a pass is running and when the last one finished.
func (d *Dispatcher) Status() (running bool, lastRun time.Time) {
	unix := d.lastRun.Load()
	if unix > 0 {
		lastRun = time.Unix(unix, 0)
	}
	return d.inFlight.Load(), lastRun
}
