package studio

import (
	"sync"
	"time"
)

const BannerDuration = 5 * time.Second

// Scheduler runs f after d. It exists so tests can drive time.
type Scheduler func(d time.Duration, f func())

func timerScheduler(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type Banner struct {
	Id      uint64
	Message string
}

// Banners is a stack of transient error messages, newest first. Each one
// removes itself after its duration.
type Banners struct {
	mutex    sync.Mutex
	items    []Banner
	nextId   uint64
	duration time.Duration
	schedule Scheduler
}

func NewBanners(duration time.Duration, schedule Scheduler) *Banners {
	if duration <= 0 {
		duration = BannerDuration
	}
	if schedule == nil {
		schedule = timerScheduler
	}
	return &Banners{duration: duration, schedule: schedule}
}

func (b *Banners) Show(message string) uint64 {
	b.mutex.Lock()
	b.nextId++
	id := b.nextId
	b.items = append([]Banner{{Id: id, Message: message}}, b.items...)
	b.mutex.Unlock()

	b.schedule(b.duration, func() { b.remove(id) })
	return id
}

func (b *Banners) remove(id uint64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for i, item := range b.items {
		if item.Id == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

func (b *Banners) Active() []Banner {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]Banner(nil), b.items...)
}
