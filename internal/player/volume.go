package player

func NewVolume() Volume {
	return Volume{V: 100}
}

// Volume is a percentage clamped between 0 and 100.
type Volume struct {
	V int
}

func (v *Volume) Add(delta int) {
	v.V = min(max(v.V+delta, 0), 100)
}
