package studio

import (
	"sync"
)

// HeadlessRenderer records what would have been drawn.
type HeadlessRenderer struct {
	mutex      sync.Mutex
	Width      int
	Height     int
	ClearColor uint32
	Frames     int
	LastScene  Scene
	LastCamera PerspectiveCamera
}

func (r *HeadlessRenderer) SetSize(width, height int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Width, r.Height = width, height
}

func (r *HeadlessRenderer) SetClearColor(color uint32) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.ClearColor = color
}

func (r *HeadlessRenderer) Render(scene Scene, camera PerspectiveCamera) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Frames++
	r.LastScene = scene
	r.LastCamera = camera
	return nil
}

func (r *HeadlessRenderer) FrameCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.Frames
}
