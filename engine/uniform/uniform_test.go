package uniform

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedSettersDeclareAndRead(t *testing.T) {
	s := NewSet("test")
	tex := common.NewTextureAsset("ramp")

	require.NoError(t, s.SetFloat("f", 1.5))
	require.NoError(t, s.SetColor("c", mgl32.Vec3{1, 0, 0}))
	require.NoError(t, s.SetVec2("v2", mgl32.Vec2{3, 4}))
	require.NoError(t, s.SetVec3("v3", mgl32.Vec3{0, 0, 1}))
	require.NoError(t, s.SetTexture("t", tex))
	require.NoError(t, s.SetBool("b", true))

	assert.Equal(t, float32(1.5), s.Float("f"))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, s.Color("c"))
	assert.Equal(t, mgl32.Vec2{3, 4}, s.Vec2("v2"))
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, s.Vec3("v3"))
	assert.Same(t, tex, s.Texture("t"))
	assert.True(t, s.Bool("b"))
	assert.Equal(t, []string{"f", "c", "v2", "v3", "t", "b"}, s.Names())
	assert.Equal(t, uint64(6), s.Version())
}

func TestKindMismatchIsRejected(t *testing.T) {
	s := NewSet("test")
	require.NoError(t, s.SetFloat("x", 1))

	err := s.SetBool("x", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKindMismatch))
	assert.Equal(t, float32(1), s.Float("x"))
	assert.False(t, s.Bool("x"))
}

func TestGettersReturnZeroForMissingOrWrongKind(t *testing.T) {
	s := NewSet("test")
	require.NoError(t, s.SetFloat("x", 2))

	assert.Equal(t, mgl32.Vec3{}, s.Color("x"))
	assert.Nil(t, s.Texture("missing"))
	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestDrainAppliesQueuedWritesInOrder(t *testing.T) {
	s := NewSet("test")
	require.NoError(t, s.SetFloat("x", 0))

	s.Enqueue(func(s Set) error { return s.SetFloat("x", 1) })
	s.Enqueue(func(s Set) error { return s.SetFloat("x", 2) })
	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, float32(0), s.Float("x"), "queued writes are not visible before Drain")

	n, err := s.Drain()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, float32(2), s.Float("x"))
	assert.Equal(t, 0, s.Pending())
}

func TestDrainContinuesPastFailures(t *testing.T) {
	s := NewSet("test")
	require.NoError(t, s.SetFloat("x", 0))

	s.Enqueue(func(s Set) error { return s.SetBool("x", true) })
	s.Enqueue(func(s Set) error { return s.SetFloat("y", 3) })

	n, err := s.Drain()
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Equal(t, float32(3), s.Float("y"))
}

func TestEnqueueIsSafeForConcurrentWriters(t *testing.T) {
	s := NewSet("test")
	require.NoError(t, s.SetFloat("count", 0))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Enqueue(func(s Set) error {
				return s.SetFloat("count", s.Float("count")+1)
			})
		}()
	}
	wg.Wait()

	n, err := s.Drain()
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.Equal(t, float32(32), s.Float("count"))
}

func TestOverridesShadowSharedValues(t *testing.T) {
	shared := NewToonSet()
	ramp := common.NewTextureAsset("body.ramp")
	view := WithOverrides(shared,
		Entry{RampMap, Texture(ramp)},
		Entry{IsDay, Float(-1)},
	)

	assert.Equal(t, float32(-1), view.Float(IsDay))
	assert.Same(t, ramp, view.Texture(RampMap))
	assert.Equal(t, DefaultIsDay, shared.Float(IsDay))

	require.NoError(t, shared.SetFloat(Metallic, 4))
	assert.Equal(t, float32(4), view.Float(Metallic), "shared writes stay visible through the view")
	assert.Contains(t, view.Names(), RampMap)
}

func TestDefaultSets(t *testing.T) {
	toon := NewToonSet()
	outline := NewOutlineSet()

	assert.Equal(t, DefaultRimLightWidth, toon.Float(RimLightWidth))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, toon.Color(ShadowColor))
	_, ok := toon.Get(FaceLightMap)
	assert.True(t, ok, "texture slots are declared even when unset")
	assert.Equal(t, DefaultOutlineWidth, outline.Float(OutlineWidth))
	assert.Equal(t, []string{Resolution, OutlineWidth}, outline.Names())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Float(1).Equal(Float(1)))
	assert.False(t, Float(1).Equal(Bool(true)))
	assert.True(t, Texture(nil).Equal(Texture(nil)))
	assert.Equal(t, "vec3", Vec3(mgl32.Vec3{}).Kind().String())
}
