package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMarkerDefaults(t *testing.T) {
	m := NewMarker()
	assert.Equal(t, mgl32.Vec3{0, 10, 10}, m.Position())
	assert.InDelta(t, 5.37, m.Rotation(), 1e-6)
	assert.False(t, m.Visible())
	assert.Equal(t, DefaultMarkerScale, m.Scale())
}

func TestWorldPositionRotatesAboutY(t *testing.T) {
	m := NewMarker(WithPosition(0, 2, 1), WithRotation(math.Pi/2))
	got := m.WorldPosition()
	assert.InDelta(t, 1, got.X(), 1e-5)
	assert.InDelta(t, 2, got.Y(), 1e-5)
	assert.InDelta(t, 0, got.Z(), 1e-5)

	m.SetRotation(0)
	assert.True(t, m.WorldPosition().ApproxEqual(mgl32.Vec3{0, 2, 1}))
}

func TestWorldPositionKeepsDistance(t *testing.T) {
	m := NewMarker()
	assert.InDelta(t, m.Position().Len(), m.WorldPosition().Len(), 1e-4)
	assert.InDelta(t, 10, m.WorldPosition().Y(), 1e-5)
}

func TestSetRotationWraps(t *testing.T) {
	m := NewMarker()
	m.SetRotation(-math.Pi / 2)
	assert.InDelta(t, 3*math.Pi/2, m.Rotation(), 1e-5)
	m.SetRotation(5 * math.Pi)
	assert.InDelta(t, math.Pi, m.Rotation(), 1e-5)
}

func TestVisibilityDoesNotAffectLighting(t *testing.T) {
	m := NewMarker()
	before := m.WorldPosition()
	m.SetVisible(true)
	assert.True(t, m.Visible())
	assert.Equal(t, before, m.WorldPosition())
}

func TestAmbient(t *testing.T) {
	a := NewAmbient()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, a.Color)
	assert.InDelta(t, 1.1, a.Intensity, 1e-6)
	assert.True(t, a.Radiance().ApproxEqual(mgl32.Vec3{1.1, 1.1, 1.1}))

	c := Ambient{Color: mgl32.Vec3{2, -1, 0.5}, Intensity: 5}.Clamped()
	assert.Equal(t, mgl32.Vec3{1, 0, 0.5}, c.Color)
	assert.Equal(t, MaxAmbientIntensity, c.Intensity)
}
