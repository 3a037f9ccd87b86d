package studio

import (
	"sync"
	"time"
)

type Card struct {
	Image     GeneratedImage
	CreatedAt time.Time
}

// Gallery keeps cards newest first. Cards are never removed.
type Gallery struct {
	mutex sync.RWMutex
	cards []Card
}

func (g *Gallery) AddCard(image GeneratedImage) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.cards = append([]Card{{Image: image, CreatedAt: time.Now()}}, g.cards...)
}

func (g *Gallery) Cards() []Card {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]Card(nil), g.cards...)
}

func (g *Gallery) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.cards)
}
