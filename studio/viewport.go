package studio

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	CameraFov      = 75
	CameraNear     = 0.1
	CameraFar      = 1000
	InitialCameraZ = 5
	RotationStep   = 0.01 // radians per frame
	FrameInterval  = time.Second / 60
)

var ErrInvalidCanvas = errors.New("3D canvas is missing or has no size")

// Canvas is the layout box the viewport renders into.
type Canvas struct {
	Width  int
	Height int
}

type Renderer interface {
	SetSize(width, height int)
	SetClearColor(color uint32)
	Render(scene Scene, camera PerspectiveCamera) error
}

// Viewport owns the scene graph, camera and render loop. It is safe for
// concurrent use: the render loop, loads and resets may run on different
// goroutines.
type Viewport struct {
	mutex    sync.Mutex
	renderer Renderer
	camera   PerspectiveCamera
	controls *OrbitControls
	lights   []Light
	model    *Object3D
	frames   uint64

	// the latest load request; older loads may not commit
	loadToken uint64
}

func NewViewport(canvas *Canvas, renderer Renderer) (*Viewport, error) {
	if canvas == nil || canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, ErrInvalidCanvas
	}
	if renderer == nil {
		return nil, errors.New("renderer is nil")
	}
	v := &Viewport{
		renderer: renderer,
		camera: PerspectiveCamera{
			Fov:    CameraFov,
			Aspect: float64(canvas.Width) / float64(canvas.Height),
			Near:   CameraNear,
			Far:    CameraFar,
		},
		lights: []Light{
			{Kind: LightAmbient, Color: ColorWhite, Intensity: 0.5},
			{Kind: LightDirectional, Color: ColorWhite, Intensity: 1, Position: Vec3{5, 5, 5}},
		},
	}
	renderer.SetSize(canvas.Width, canvas.Height)
	renderer.SetClearColor(ClearColorStudio)
	v.camera.Position[2] = InitialCameraZ
	v.controls = NewOrbitControls(&v.camera)
	return v, nil
}

// Frame advances the scene by one tick and renders it.
func (v *Viewport) Frame() error {
	v.mutex.Lock()
	if v.model != nil {
		v.model.Rotation[1] += RotationStep
	}
	v.controls.Update(&v.camera)
	scene := v.snapshotLocked()
	camera := v.camera
	v.frames++
	v.mutex.Unlock()

	return v.renderer.Render(scene, camera)
}

// Run renders frames at ~60 per second until ctx is done.
func (v *Viewport) Run(ctx context.Context) error {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	for {
		if err := v.Frame(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Reset puts the camera and controls back where they started.
func (v *Viewport) Reset() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.controls.Reset(&v.camera)
}

// Rotate turns the camera around the model on the next frame, as dragging
// the canvas would.
func (v *Viewport) Rotate(azimuth, polar float64) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.controls.Rotate(azimuth, polar)
}

// Zoom moves the camera towards the model by scale on the next frame.
func (v *Viewport) Zoom(scale float64) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.controls.Dolly(scale)
}

func (v *Viewport) Pan(delta Vec3) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.controls.Pan(delta)
}

func (v *Viewport) Camera() PerspectiveCamera {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.camera
}

// CurrentModel returns a copy of the model in the scene, or nil.
func (v *Viewport) CurrentModel() *Object3D {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	if v.model == nil {
		return nil
	}
	model := *v.model
	return &model
}

func (v *Viewport) Snapshot() Scene {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.snapshotLocked()
}

func (v *Viewport) Frames() uint64 {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.frames
}

func (v *Viewport) snapshotLocked() Scene {
	scene := Scene{
		ClearColor: ClearColorStudio,
		Lights:     append([]Light(nil), v.lights...),
	}
	if v.model != nil {
		model := *v.model
		scene.Model = &model
	}
	return scene
}

// beginLoad removes the current model and returns a token for the new load.
func (v *Viewport) beginLoad() uint64 {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.loadToken++
	v.model = nil
	return v.loadToken
}

// commitModel attaches model if token is still the latest load.
func (v *Viewport) commitModel(token uint64, model *Object3D) bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	if token != v.loadToken {
		return false
	}
	v.model = model
	return true
}
