package studio

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	ColorWhite       uint32 = 0xffffff
	ClearColorStudio uint32 = 0x1a1a1a
)

type LightKind string

const (
	LightAmbient     LightKind = "ambient"
	LightDirectional LightKind = "directional"
)

type Light struct {
	Kind      LightKind
	Color     uint32
	Intensity float64
	Position  Vec3
}

// Object3D is a loaded model. LocalBounds are in model space; Position,
// Rotation (Euler, radians) and Scale place it in the scene.
type Object3D struct {
	Name        string
	Position    Vec3
	Rotation    Vec3
	Scale       Vec3
	LocalBounds Box3
	MeshCount   int
	VertexCount int
}

// WorldBounds ignores rotation. It matches the box the loader centres on,
// which is computed before the model starts spinning.
func (o *Object3D) WorldBounds() Box3 {
	if o.LocalBounds.IsEmpty() {
		return o.LocalBounds
	}
	return Box3{
		Min: mulElem(o.LocalBounds.Min, o.Scale).Add(o.Position),
		Max: mulElem(o.LocalBounds.Max, o.Scale).Add(o.Position),
	}
}

// PerspectiveCamera looks from Position at Target.
type PerspectiveCamera struct {
	Fov      float64
	Aspect   float64
	Near     float64
	Far      float64
	Position Vec3
	Target   Vec3
}

const (
	MinOrbitDistance = 0.5
	MaxOrbitDistance = 100
	// keeps the camera off the poles, where the azimuth is undefined
	polarMargin      = 1e-6
)

// OrbitControls turns pointer input into camera motion around Target.
// Rotate, Dolly and Pan queue input; Update applies it. SaveState marks what
// Reset returns to.
type OrbitControls struct {
	Target      Vec3
	MinDistance float64
	MaxDistance float64

	azimuth float64
	polar   float64
	scale   float64
	pan     Vec3

	savedTarget   Vec3
	savedPosition Vec3
}

func NewOrbitControls(camera *PerspectiveCamera) *OrbitControls {
	c := &OrbitControls{
		Target:      camera.Target,
		MinDistance: MinOrbitDistance,
		MaxDistance: MaxOrbitDistance,
		scale:       1,
	}
	c.SaveState(camera)
	return c
}

func (c *OrbitControls) SaveState(camera *PerspectiveCamera) {
	c.savedTarget = c.Target
	c.savedPosition = camera.Position
}

// Reset restores the saved state and drops pending input.
func (c *OrbitControls) Reset(camera *PerspectiveCamera) {
	c.Target = c.savedTarget
	camera.Position = c.savedPosition
	camera.Target = c.savedTarget
	c.azimuth, c.polar, c.scale, c.pan = 0, 0, 1, Vec3{}
}

// Rotate queues a turn around the target, in radians: azimuth around the
// vertical axis, polar towards the poles.
func (c *OrbitControls) Rotate(azimuth, polar float64) {
	c.azimuth += azimuth
	c.polar += polar
}

// Dolly queues a change of distance to the target. Scale below 1 moves in.
func (c *OrbitControls) Dolly(scale float64) {
	if scale > 0 {
		c.scale *= scale
	}
}

// Pan queues a translation of both target and camera.
func (c *OrbitControls) Pan(delta Vec3) {
	c.pan = c.pan.Add(delta)
}

// Update applies queued input to camera in spherical coordinates around the
// target, clamping the polar angle and the distance.
func (c *OrbitControls) Update(camera *PerspectiveCamera) {
	if c.azimuth == 0 && c.polar == 0 && c.scale == 1 && c.pan == (Vec3{}) {
		return
	}
	offset := camera.Position.Sub(c.Target)
	radius := offset.Len()
	theta := math.Atan2(offset[0], offset[2])
	phi := math.Pi / 2
	if radius > 0 {
		phi = math.Acos(mgl64.Clamp(offset[1]/radius, -1, 1))
	}

	theta += c.azimuth
	phi = mgl64.Clamp(phi+c.polar, polarMargin, math.Pi-polarMargin)
	radius = mgl64.Clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	c.Target = c.Target.Add(c.pan)
	sinPhi := math.Sin(phi)
	offset = Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	}
	camera.Position = c.Target.Add(offset)
	camera.Target = c.Target
	c.azimuth, c.polar, c.scale, c.pan = 0, 0, 1, Vec3{}
}

// Scene is a snapshot handed to the renderer.
type Scene struct {
	ClearColor uint32
	Lights     []Light
	Model      *Object3D
}
