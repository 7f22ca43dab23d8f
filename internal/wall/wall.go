// Package wall lays out a diagonally staggered grid of media slots.
package wall

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// ErrNoEligibleSlot is returned by NextTarget when no slot satisfies the
// visibility predicate, e.g. every slot is hidden.
var ErrNoEligibleSlot = errors.New("wall: no eligible slot")

type (
	// Config holds the fixed slot geometry. All values are in pixels and
	// immutable after New.
	Config struct {
		SlotWidth  int
		SlotHeight int
		Padding    int
	}

	// Rect is a slot's position rectangle in root window coordinates.
	// X1/Y1 may be negative for slots hanging off the left or top edge.
	Rect struct {
		X1, Y1, X2, Y2 int
	}

	slot[T any] struct {
		content  T
		assigned bool
		hidden   bool
		onScreen bool
		rect     Rect
	}
)

// Grid owns the slot arena and the grid arithmetic. Content handles are
// opaque; the zero T is returned for slots that never received content.
//
// All methods must run on a single goroutine. The arena only grows: a resize
// to a smaller grid detaches trailing records without destroying them, so
// their content survives a later resize back.
type Grid[T any] struct {
	cfg Config

	displayWidth  int
	displayHeight int

	cols int
	rows int

	slots         []slot[T]
	uninitialized []int

	rng *rand.Rand
}

// New creates an unsized grid. displayWidth and displayHeight are the host
// display bounds used for the fully-on-screen test, queried once and fixed.
// Resize must be called before any other operation is meaningful.
func New[T any](cfg Config, displayWidth, displayHeight int) (*Grid[T], error) {
	if cfg.SlotWidth <= 0 || cfg.SlotHeight <= 0 || cfg.Padding <= 0 {
		return nil, fmt.Errorf("wall: invalid slot geometry %dx%d padding %d: all values must be greater than zero",
			cfg.SlotWidth, cfg.SlotHeight, cfg.Padding)
	}

	return &Grid[T]{
		cfg:           cfg,
		displayWidth:  displayWidth,
		displayHeight: displayHeight,
		slots:         []slot[T]{},
		uninitialized: []int{},
		rng:           rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

// Resize derives the grid dimensions from the new viewport size: enough
// columns to fill the width plus an extra column at either side so slots can
// run diagonally off screen, and enough rows to fill the height with an extra
// row at the bottom when the height is not an exact multiple.
//
// The arena grows to hold the new grid when needed; existing records keep
// their flat index and content. Records beyond the new grid stay in the arena
// detached.
func (g *Grid[T]) Resize(width, height int) error {
	cols := width/(g.cfg.SlotWidth+g.cfg.Padding) + 2
	rows := height / (g.cfg.SlotHeight + g.cfg.Padding)
	if height%(g.cfg.SlotHeight+g.cfg.Padding) != 0 {
		rows++
	}

	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("wall: cannot fit a grid of %d columns by %d rows: both must be greater than zero", cols, rows)
	}

	g.cols = cols
	g.rows = rows

	for idx := len(g.slots); idx < cols*rows; idx++ {
		g.slots = append(g.slots, slot[T]{})
		g.uninitialized = append(g.uninitialized, idx)
	}

	return nil
}

// Layout positions every slot in the current grid. Each row shifts right by
// row*(SlotWidth/rows), walking the columns diagonally across the screen; the
// division truncates, matching the stepped look of the original wall. The
// cached fully-on-screen flag is recomputed per slot.
//
// Resize must run before Layout whenever the viewport changed, otherwise
// positions are stale.
func (g *Grid[T]) Layout() {
	for col := 0; col < g.cols; col++ {
		for row := 0; row < g.rows; row++ {
			x := (col-1)*(g.cfg.SlotWidth+g.cfg.Padding) + row*(g.cfg.SlotWidth/g.rows)
			y := row * (g.cfg.SlotHeight + g.cfg.Padding)

			s := &g.slots[g.Index(col, row)]
			s.rect = Rect{X1: x, Y1: y, X2: x + g.cfg.SlotWidth, Y2: y + g.cfg.SlotHeight}
			s.onScreen = g.totallyVisible(s.rect)
		}
	}
}

// Index maps (col, row) to the slot's flat arena index. The index is the
// stable key for host-side display primitives; it is only valid for the
// current grid dimensions.
func (g *Grid[T]) Index(col, row int) int {
	return col*g.rows + row
}

// Coords is the inverse of Index under the current grid dimensions. The
// column is at or beyond Columns() for detached records.
func (g *Grid[T]) Coords(idx int) (col, row int) {
	return idx / g.rows, idx % g.rows
}

// Columns reports the current column count.
func (g *Grid[T]) Columns() int { return g.cols }

// Rows reports the current row count.
func (g *Grid[T]) Rows() int { return g.rows }

// Len reports the arena size, which can exceed Columns()*Rows() after a
// shrinking resize. Arena indices at or beyond Columns()*Rows() are detached.
func (g *Grid[T]) Len() int { return len(g.slots) }

// Position returns the slot's current top-left layout coordinates.
func (g *Grid[T]) Position(col, row int) (x, y int) {
	r := g.slots[g.Index(col, row)].rect
	return r.X1, r.Y1
}

// Rect returns the slot's full position rectangle.
func (g *Grid[T]) Rect(col, row int) Rect {
	return g.slots[g.Index(col, row)].rect
}

// OnScreen reports the slot's cached fully-on-screen flag as of the last
// Layout.
func (g *Grid[T]) OnScreen(col, row int) bool {
	return g.slots[g.Index(col, row)].onScreen
}

// Hidden reports whether the slot is hidden.
func (g *Grid[T]) Hidden(col, row int) bool {
	return g.slots[g.Index(col, row)].hidden
}

// Hide marks the slot hidden and returns its current content so the caller
// can tear down playback. The second return is false when the slot never
// received content.
func (g *Grid[T]) Hide(col, row int) (T, bool) {
	s := &g.slots[g.Index(col, row)]
	s.hidden = true
	return s.content, s.assigned
}

// Show marks the slot visible again.
func (g *Grid[T]) Show(col, row int) {
	g.slots[g.Index(col, row)].hidden = false
}

// SetContent assigns content to the slot. The first assignment removes the
// slot from the uninitialized set; repeated assignments just replace the
// content.
func (g *Grid[T]) SetContent(col, row int, content T) {
	idx := g.Index(col, row)

	if i := slices.Index(g.uninitialized, idx); i >= 0 {
		g.uninitialized = slices.Delete(g.uninitialized, i, i+1)
	}

	s := &g.slots[idx]
	s.content = content
	s.assigned = true
}

// Content returns the slot's current content, or the zero T and false when
// the slot never received content.
func (g *Grid[T]) Content(col, row int) (T, bool) {
	s := g.slots[g.Index(col, row)]
	return s.content, s.assigned
}

// AllAssigned reports whether every slot in the arena has received content at
// least once.
func (g *Grid[T]) AllAssigned() bool {
	return len(g.uninitialized) == 0
}

// Detached returns the content of assigned records that fall outside the
// active grid after a shrinking resize, so the host can take their display
// primitives off screen.
func (g *Grid[T]) Detached() []T {
	var detached []T
	for idx := g.cols * g.rows; idx < len(g.slots); idx++ {
		if g.slots[idx].assigned {
			detached = append(detached, g.slots[idx].content)
		}
	}
	return detached
}

// NextTarget picks a pseudo-random slot to load new content into, preferring
// slots that never received content. Candidates are drawn uniformly from the
// uninitialized set when non-empty, otherwise from the whole arena, and
// accepted when not hidden and, with requireFullyVisible, fully on screen as
// of the last Layout.
//
// Sampling is bounded: after enough failed random attempts a scan runs
// over the uninitialized set and then the whole arena, and ErrNoEligibleSlot
// is returned when nothing qualifies.
func (g *Grid[T]) NextTarget(requireFullyVisible bool) (col, row int, err error) {
	for attempt := 4 * len(g.slots); attempt > 0; attempt-- {
		var idx int
		if len(g.uninitialized) == 0 {
			if g.cols*g.rows == 0 {
				break
			}
			idx = g.rng.Intn(g.cols * g.rows)
		} else {
			idx = g.uninitialized[g.rng.Intn(len(g.uninitialized))]
		}

		if g.eligible(idx, requireFullyVisible) {
			return idx / g.rows, idx % g.rows, nil
		}
	}

	for _, idx := range g.uninitialized {
		if g.eligible(idx, requireFullyVisible) {
			return idx / g.rows, idx % g.rows, nil
		}
	}
	for idx := 0; idx < g.cols*g.rows; idx++ {
		if g.eligible(idx, requireFullyVisible) {
			return idx / g.rows, idx % g.rows, nil
		}
	}

	return 0, 0, ErrNoEligibleSlot
}

func (g *Grid[T]) eligible(idx int, requireFullyVisible bool) bool {
	// Detached records are kept for a future grow but never targeted.
	if idx >= g.cols*g.rows {
		return false
	}
	s := g.slots[idx]
	if s.hidden {
		return false
	}
	if requireFullyVisible && !s.onScreen {
		return false
	}
	return true
}

func (g *Grid[T]) totallyVisible(r Rect) bool {
	if r.X1 < 0 || r.X2 < 0 || r.Y1 < 0 || r.Y2 < 0 {
		return false
	}
	if r.X1 > g.displayWidth || r.X2 > g.displayWidth {
		return false
	}
	if r.Y1 > g.displayHeight || r.Y2 > g.displayHeight {
		return false
	}
	return true
}
