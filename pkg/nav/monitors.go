package nav

import (
	"sync"
	"time"
)

// startMonitor runs tick on the controller loop at the given cadence and
// returns a handle that cancels it. Every firing is posted, so ticks always
// observe current stage/flag state and stale ticks self-discard in their
// guards.
func (c *Controller) startMonitor(interval time.Duration, tick func()) func() {
	stop := make(chan struct{})

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				c.post(tick)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
	}
}

// stopMonitors cancels every running monitor and the scan timer.
// Runs on the controller loop.
func (c *Controller) stopMonitors() {
	if c.stopTargetMonitor != nil {
		c.stopTargetMonitor()
		c.stopTargetMonitor = nil
	}
	if c.stopHandoffMonitor != nil {
		c.stopHandoffMonitor()
		c.stopHandoffMonitor = nil
	}
	if c.scanTimer != nil {
		c.scanTimer.Stop()
		c.scanTimer = nil
	}
	if c.guidanceStartTimer != nil {
		c.guidanceStartTimer.Stop()
		c.guidanceStartTimer = nil
	}
}
