package app

// RotateMsg loads the next media into a slot. Force bypasses pause, for
// explicit requests from the keyboard or the API.
type RotateMsg struct {
	Force bool
}

type PauseMsg struct{}

type ResumeMsg struct{}

// MediaChangedMsg arrives after the library was rescanned.
type MediaChangedMsg struct {
	Count int
}

// SnapshotRequestMsg asks the update loop for a copy of the wall state.
type SnapshotRequestMsg struct {
	ReplyC chan<- Snapshot
}

type Snapshot struct {
	Columns    int
	Rows       int
	Assigned   int
	Paused     bool
	Fullscreen bool
	Panes      []PaneInfo
}

type PaneInfo struct {
	Col      int
	Row      int
	UUID     string
	Path     string
	Kind     string
	OnScreen bool
	Hidden   bool
}
