package uniform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// ErrKindMismatch is returned when a write targets an existing entry with a different kind.
var ErrKindMismatch = errors.New("uniform: kind mismatch")

// Mutation is a deferred write against a Set. Mutations are queued with Enqueue and
// applied in FIFO order by Drain on the render thread.
type Mutation func(s Set) error

// View is the read side of a uniform set.
type View interface {
	// Name returns the identifier of the set (e.g. "toon", "outline").
	Name() string

	// Get retrieves the value stored under name.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - Value: the stored value, or the zero Value if absent
	//   - bool: true if the entry exists
	Get(name string) (Value, bool)

	// Names returns the entry names in declaration order.
	Names() []string

	// Float returns the scalar stored under name, or 0 if absent or not a float.
	Float(name string) float32

	// Color returns the color stored under name, or black if absent or not a color.
	Color(name string) mgl32.Vec3

	// Vec2 returns the vector stored under name, or the zero vector.
	Vec2(name string) mgl32.Vec2

	// Vec3 returns the vector stored under name, or the zero vector.
	Vec3(name string) mgl32.Vec3

	// Texture returns the texture stored under name, or nil.
	Texture(name string) *common.TextureAsset

	// Bool returns the flag stored under name, or false.
	Bool(name string) bool
}

// Set is a typed, named parameter bag shared by every material of a shading pass.
//
// All mutation goes through the typed setters so write sites stay auditable. Writers that
// do not run on the render thread (configuration reloads, control panels) must use
// Enqueue instead; the frame updater drains the queue once at the start of each frame,
// which keeps every material observing the same values for the whole frame.
type Set interface {
	View

	// Declare adds an entry, or replaces an existing entry of the same kind.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the initial value
	//
	// Returns:
	//   - error: ErrKindMismatch if the entry exists with another kind
	Declare(name string, v Value) error

	// SetFloat writes a scalar entry.
	SetFloat(name string, f float32) error

	// SetColor writes a color entry.
	SetColor(name string, c mgl32.Vec3) error

	// SetVec2 writes a 2-component vector entry.
	SetVec2(name string, v mgl32.Vec2) error

	// SetVec3 writes a 3-component vector entry.
	SetVec3(name string, v mgl32.Vec3) error

	// SetTexture writes a texture entry. nil leaves the slot declared but unset.
	SetTexture(name string, t *common.TextureAsset) error

	// SetBool writes a boolean entry.
	SetBool(name string, b bool) error

	// Enqueue schedules a mutation for the next Drain. Safe for concurrent use.
	//
	// Parameters:
	//   - m: the mutation to apply
	Enqueue(m Mutation)

	// Pending returns the number of queued mutations.
	Pending() int

	// Drain applies all queued mutations in FIFO order. A failing mutation does not stop
	// the remaining ones; all failures are joined into the returned error.
	//
	// Returns:
	//   - int: the number of mutations applied successfully
	//   - error: the joined mutation errors, or nil
	Drain() (int, error)

	// Version returns the number of writes applied since creation.
	Version() uint64

	// Snapshot returns a copy of every entry.
	Snapshot() map[string]Value
}

// set is the implementation of the Set interface.
type set struct {
	name string

	mu      sync.RWMutex
	values  map[string]Value
	order   []string
	version uint64

	queueMu sync.Mutex
	queue   []Mutation

	logger zerolog.Logger
}

var _ Set = &set{}

// NewSet creates an empty uniform set configured with the provided options.
//
// Parameters:
//   - name: the identifier of the set
//   - options: variadic list of SetBuilderOption functions to configure the set
//
// Returns:
//   - Set: the new uniform set
func NewSet(name string, options ...SetBuilderOption) Set {
	s := &set{
		name:   name,
		values: make(map[string]Value),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *set) Name() string {
	return s.name
}

func (s *set) Get(name string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

func (s *set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *set) Float(name string) float32 {
	v, _ := s.Get(name)
	if v.kind != KindFloat {
		return 0
	}
	return v.f
}

func (s *set) Color(name string) mgl32.Vec3 {
	v, _ := s.Get(name)
	if v.kind != KindColor {
		return mgl32.Vec3{}
	}
	return v.v3
}

func (s *set) Vec2(name string) mgl32.Vec2 {
	v, _ := s.Get(name)
	if v.kind != KindVec2 {
		return mgl32.Vec2{}
	}
	return v.v2
}

func (s *set) Vec3(name string) mgl32.Vec3 {
	v, _ := s.Get(name)
	if v.kind != KindVec3 {
		return mgl32.Vec3{}
	}
	return v.v3
}

func (s *set) Texture(name string) *common.TextureAsset {
	v, _ := s.Get(name)
	if v.kind != KindTexture {
		return nil
	}
	return v.texture
}

func (s *set) Bool(name string) bool {
	v, _ := s.Get(name)
	if v.kind != KindBool {
		return false
	}
	return v.b
}

func (s *set) Declare(name string, v Value) error {
	return s.write(name, v)
}

func (s *set) SetFloat(name string, f float32) error {
	return s.write(name, Float(f))
}

func (s *set) SetColor(name string, c mgl32.Vec3) error {
	return s.write(name, Color(c))
}

func (s *set) SetVec2(name string, v mgl32.Vec2) error {
	return s.write(name, Vec2(v))
}

func (s *set) SetVec3(name string, v mgl32.Vec3) error {
	return s.write(name, Vec3(v))
}

func (s *set) SetTexture(name string, t *common.TextureAsset) error {
	return s.write(name, Texture(t))
}

func (s *set) SetBool(name string, b bool) error {
	return s.write(name, Bool(b))
}

// write stores v under name, declaring the entry on first use.
func (s *set) write(name string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.values[name]; ok {
		if old.kind != v.kind {
			return fmt.Errorf("%w: %s.%s is %s, not %s", ErrKindMismatch, s.name, name, old.kind, v.kind)
		}
	} else {
		s.order = append(s.order, name)
	}
	s.values[name] = v
	s.version++
	return nil
}

func (s *set) Enqueue(m Mutation) {
	if m == nil {
		return
	}
	s.queueMu.Lock()
	s.queue = append(s.queue, m)
	s.queueMu.Unlock()
}

func (s *set) Pending() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

func (s *set) Drain() (int, error) {
	s.queueMu.Lock()
	pending := s.queue
	s.queue = nil
	s.queueMu.Unlock()

	applied := 0
	var errs []error
	for _, m := range pending {
		if err := m(s); err != nil {
			errs = append(errs, err)
			s.logger.Warn().Err(err).Str("set", s.name).Msg("queued uniform write failed")
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

func (s *set) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *set) Snapshot() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
