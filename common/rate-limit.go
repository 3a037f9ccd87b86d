package common

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryRateLimiter keeps one token bucket per key. A key may make
// maxRequestNum requests per duration seconds.
type InMemoryRateLimiter struct {
	store              map[string]*limiterEntry
	mutex              sync.Mutex
	expirationDuration time.Duration
	now                func() time.Time
}

func (l *InMemoryRateLimiter) Init(expirationDuration time.Duration) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.store != nil {
		return
	}
	l.store = make(map[string]*limiterEntry)
	l.expirationDuration = expirationDuration
	if l.now == nil {
		l.now = time.Now
	}
	if expirationDuration > 0 {
		go l.clearExpiredItems()
	}
}

func (l *InMemoryRateLimiter) clearExpiredItems() {
	for {
		time.Sleep(l.expirationDuration)
		l.sweep()
	}
}

func (l *InMemoryRateLimiter) sweep() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	now := l.now()
	for key, entry := range l.store {
		if now.Sub(entry.lastSeen) > l.expirationDuration {
			delete(l.store, key)
		}
	}
}

// Request reports whether the key may proceed now.
func (l *InMemoryRateLimiter) Request(key string, maxRequestNum int, duration int64) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	now := l.now()
	entry, ok := l.store[key]
	if !ok {
		every := time.Duration(duration) * time.Second / time.Duration(maxRequestNum)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(every), maxRequestNum)}
		l.store[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
