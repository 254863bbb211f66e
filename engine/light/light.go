package light

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults of the tracked light marker.
var (
	DefaultMarkerPosition = mgl32.Vec3{0, 10, 10}
	DefaultMarkerColor    = mgl32.Vec3{1, 105.0 / 255.0, 180.0 / 255.0}
)

const (
	// DefaultMarkerRotation is the yaw of the marker's parent group, in radians.
	DefaultMarkerRotation float32 = 5.37

	// DefaultMarkerScale is the uniform scale of the marker sphere.
	DefaultMarkerScale float32 = 0.2
)

// marker is the implementation of the Marker interface.
type marker struct {
	mu       sync.RWMutex
	position mgl32.Vec3
	rotation float32
	visible  bool
	color    mgl32.Vec3
	scale    float32
}

// Marker is the tracked light source of the toon pass. It is a small sphere positioned
// inside a parent group that rotates about the vertical axis; the toon shaders light the
// character from the sphere's world position, which the frame updater re-samples every
// frame. The marker itself is only drawn when visible is set, as a debugging aid.
//
// Marker is safe for concurrent use.
type Marker interface {
	// Position returns the marker position in the parent group's space.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// SetPosition moves the marker within its parent group.
	//
	// Parameters:
	//   - p: the new local position
	SetPosition(p mgl32.Vec3)

	// Rotation returns the parent group's yaw in radians, in [0, 2π).
	Rotation() float32

	// SetRotation sets the parent group's yaw. The angle is wrapped into [0, 2π).
	//
	// Parameters:
	//   - radians: the yaw angle
	SetRotation(radians float32)

	// Visible reports whether the marker sphere is drawn.
	Visible() bool

	// SetVisible shows or hides the marker sphere. Lighting is unaffected.
	SetVisible(visible bool)

	// Color returns the marker sphere color.
	Color() mgl32.Vec3

	// Scale returns the marker sphere scale.
	Scale() float32

	// WorldPosition returns the marker's world-space position: the local position rotated by
	// the group yaw about the vertical axis.
	//
	// Returns:
	//   - mgl32.Vec3: the world-space light position
	WorldPosition() mgl32.Vec3
}

var _ Marker = &marker{}

// NewMarker creates a light marker configured with the provided options.
//
// Parameters:
//   - options: variadic list of MarkerBuilderOption functions to configure the marker
//
// Returns:
//   - Marker: the new marker
func NewMarker(options ...MarkerBuilderOption) Marker {
	m := &marker{
		position: DefaultMarkerPosition,
		rotation: DefaultMarkerRotation,
		color:    DefaultMarkerColor,
		scale:    DefaultMarkerScale,
	}
	for _, opt := range options {
		opt(m)
	}
	m.rotation = wrapAngle(m.rotation)
	return m
}

func (m *marker) Position() mgl32.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

func (m *marker) SetPosition(p mgl32.Vec3) {
	m.mu.Lock()
	m.position = p
	m.mu.Unlock()
}

func (m *marker) Rotation() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rotation
}

func (m *marker) SetRotation(radians float32) {
	m.mu.Lock()
	m.rotation = wrapAngle(radians)
	m.mu.Unlock()
}

func (m *marker) Visible() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible
}

func (m *marker) SetVisible(visible bool) {
	m.mu.Lock()
	m.visible = visible
	m.mu.Unlock()
}

func (m *marker) Color() mgl32.Vec3 {
	return m.color
}

func (m *marker) Scale() float32 {
	return m.scale
}

func (m *marker) WorldPosition() mgl32.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return mgl32.Rotate3DY(m.rotation).Mul3x1(m.position)
}

func wrapAngle(radians float32) float32 {
	a := math.Mod(float64(radians), 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return float32(a)
}
