package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	loginFailureLimit  = 10
	loginFailureWindow = 15 * time.Minute
)

// loginThrottle tracks failed credential attempts per client key so token
// requests can be rejected after repeated failures.
type loginThrottle struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

func newLoginThrottle() *loginThrottle {
	return &loginThrottle{failures: make(map[string][]time.Time)}
}

func (throttle *loginThrottle) blocked(key string, now time.Time) bool {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	return len(throttle.pruneLocked(key, now)) >= loginFailureLimit
}

func (throttle *loginThrottle) recordFailure(key string, now time.Time) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	throttle.failures[key] = append(throttle.pruneLocked(key, now), now)
}

func (throttle *loginThrottle) reset(key string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, key)
}

func (throttle *loginThrottle) pruneLocked(key string, now time.Time) []time.Time {
	recorded := throttle.failures[key]
	if len(recorded) == 0 {
		return nil
	}

	threshold := now.Add(-loginFailureWindow)
	recent := recorded[:0]
	for _, at := range recorded {
		if at.After(threshold) {
			recent = append(recent, at)
		}
	}
	if len(recent) == 0 {
		delete(throttle.failures, key)
		return nil
	}
	throttle.failures[key] = recent
	return recent
}

func throttleKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
