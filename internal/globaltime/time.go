package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

// Now returns the current time, honoring any mock installed by tests.
func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

// UTC returns Now() in UTC.
func UTC() time.Time {
	return Now().UTC()
}

// SetMockTime pins the clock for tests.
func SetMockTime(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = func() time.Time { return t }
}

// ResetTime restores the real clock.
func ResetTime() {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = time.Now
}
