package bus

// RotateTick asks the wall to load the next piece of media into a slot.
type RotateTick struct{}

// MediaChanged announces that the media library was rescanned.
type MediaChanged struct {
	Count int
}

// StateChanged carries a summary of the wall after something changed.
type StateChanged struct {
	Columns    int  `json:"columns"`
	Rows       int  `json:"rows"`
	Slots      int  `json:"slots"`
	Assigned   int  `json:"assigned"`
	Paused     bool `json:"paused"`
	Fullscreen bool `json:"fullscreen"`
}
