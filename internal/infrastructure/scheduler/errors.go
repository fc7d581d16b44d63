package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a sweep on a stopped sweeper
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)
