package universe

import "time"

//startAutoRun sets the engine's auto-run flag and starts the driver if none is running.
//Returns the channel closed when this auto-run ends.
func (u *Session) startAutoRun() chan struct{} {
	u.engine.Start()
	if u.driverDone == nil {
		u.driverID++
		u.driverDone = make(chan struct{})
		go u.drive(u.driverID)
		u.logger.Debug("auto-run started", "generation", u.engine.Generation())
	}
	u.switchRunningState(RunningStateRun)
	return u.driverDone
}

//stopAutoRun clears the auto-run flag
func (u *Session) stopAutoRun() {
	if !u.engine.AutoRunning() && u.driverDone == nil {
		return
	}
	u.engine.Stop()
	u.logger.Debug("auto-run stopped", "generation", u.engine.Generation())
	u.switchRunningState(RunningStateManual)
	u.stopDriver()
}

//stopDriver releases the current driver, its next tick is rejected
func (u *Session) stopDriver() {
	if u.driverDone != nil {
		close(u.driverDone)
		u.driverDone = nil
	}
}

//finish ends auto-run when a boundary condition is reached.
//Viewers see the Finished state before Run returns.
func (u *Session) finish(reason string, args ...any) {
	u.engine.Stop()
	u.logger.Info(reason, append(args,
		"generation", u.engine.Generation(),
		"live", u.engine.LiveCellCount(),
	)...)
	u.switchRunningState(RunningStateFinished)
	u.stopDriver()
}

func (u *Session) maxStepsReached() bool {
	return u.options.MaxSteps > 0 && u.engine.Generation() >= u.options.MaxSteps
}

//tick is one auto-run iteration executed on the control goroutine,
//it reports whether the driver should keep going
func (u *Session) tick(id int, skipped int) bool {
	if id != u.driverID || u.driverDone == nil || !u.engine.AutoRunning() {
		return false
	}
	if u.options.MaxSkippedTicks > 0 && skipped > u.options.MaxSkippedTicks {
		u.finish("auto-run is falling behind", "skipped", skipped)
		return false
	}
	if u.maxStepsReached() {
		u.finish("max steps reached")
		return false
	}
	u.step()
	if u.maxStepsReached() {
		u.finish("max steps reached")
		return false
	}
	if u.options.StopWhenStable && (u.engine.Stable() || u.engine.LiveCellCount() == 0) {
		u.finish("grid is stable")
		return false
	}
	u.switchRunningState(RunningStateRun)
	return true
}

//drive posts one tick per Interval until the tick is rejected or the session is closed.
//A tick taking longer than Interval counts the missed ticks as skipped.
func (u *Session) drive(id int) {
	skipped := 0
	for {
		reply := make(chan bool, 1)
		start := time.Now()
		n := skipped
		if !u.post(func() { reply <- u.tick(id, n) }) {
			return
		}
		select {
		case ok := <-reply:
			if !ok {
				return
			}
		case <-u.closeCh:
			return
		}

		interval := u.options.Interval
		if interval <= 0 {
			continue
		}
		elapsed := time.Since(start)
		if elapsed > interval {
			skipped += int(elapsed / interval)
			continue
		}
		skipped = 0
		select {
		case <-time.After(interval - elapsed):
		case <-u.closeCh:
			return
		}
	}
}
