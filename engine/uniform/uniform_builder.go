package uniform

import "github.com/rs/zerolog"

// SetBuilderOption is a function that configures a uniform set during construction.
type SetBuilderOption func(*set)

// WithLogger sets the logger used to report failed queued writes.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - SetBuilderOption: a function that applies the logger option to a set
func WithLogger(logger zerolog.Logger) SetBuilderOption {
	return func(s *set) {
		s.logger = logger
	}
}

// WithValues declares the given entries, in the order provided, when the set is created.
// Entries are given as name/value pairs so declaration order stays deterministic.
//
// Parameters:
//   - entries: the initial entries
//
// Returns:
//   - SetBuilderOption: a function that declares the entries on a set
func WithValues(entries ...Entry) SetBuilderOption {
	return func(s *set) {
		for _, e := range entries {
			if _, ok := s.values[e.Name]; !ok {
				s.order = append(s.order, e.Name)
			}
			s.values[e.Name] = e.Value
		}
	}
}

// Entry pairs a uniform name with its value.
type Entry struct {
	Name  string
	Value Value
}
