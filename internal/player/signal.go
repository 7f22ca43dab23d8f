package player

func NewState[T comparable](value T) *State[T] {
	return &State[T]{V: value}
}

// State holds a value and runs effects when it changes.
type State[T comparable] struct {
	V       T
	effects []func()
}

// AddEffect registers fn to run after every change of V.
func (s *State[T]) AddEffect(fn func()) {
	s.effects = append(s.effects, fn)
}

// Update sets V and runs the effects. Setting the current value again is a
// no-op.
func (s *State[T]) Update(value T) {
	if value == s.V {
		return
	}
	s.V = value

	for _, fn := range s.effects {
		fn()
	}
}
