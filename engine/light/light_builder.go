package light

import "github.com/go-gl/mathgl/mgl32"

// MarkerBuilderOption is a function that configures a Marker instance during construction.
type MarkerBuilderOption func(*marker)

// WithPosition is an option builder that sets the local position of the marker.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - MarkerBuilderOption: a function that applies the position option to a marker
func WithPosition(x, y, z float32) MarkerBuilderOption {
	return func(m *marker) {
		m.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation is an option builder that sets the parent group's yaw in radians.
//
// Parameters:
//   - radians: the yaw angle
//
// Returns:
//   - MarkerBuilderOption: a function that applies the rotation option to a marker
func WithRotation(radians float32) MarkerBuilderOption {
	return func(m *marker) {
		m.rotation = radians
	}
}

// WithVisible is an option builder that shows the marker sphere.
func WithVisible(visible bool) MarkerBuilderOption {
	return func(m *marker) {
		m.visible = visible
	}
}

// WithColor is an option builder that sets the marker sphere color.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - MarkerBuilderOption: a function that applies the color option to a marker
func WithColor(r, g, b float32) MarkerBuilderOption {
	return func(m *marker) {
		m.color = mgl32.Vec3{r, g, b}
	}
}
