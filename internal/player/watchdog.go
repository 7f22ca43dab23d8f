package player

import "time"

func NewWatchDog(timeout time.Duration) *WatchDog {
	return &WatchDog{
		deadline: time.Now().Add(timeout),
		timeout:  timeout,
	}
}

// WatchDog trips when Ping has not been called within the timeout.
type WatchDog struct {
	deadline time.Time
	timeout  time.Duration
}

func (w *WatchDog) Ping() {
	w.deadline = time.Now().Add(w.timeout)
}

func (w *WatchDog) Dead() bool {
	return time.Now().After(w.deadline)
}
