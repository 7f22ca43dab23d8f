package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MaTriXy/videowall/internal/bus"
	"github.com/MaTriXy/videowall/internal/config"
	"github.com/MaTriXy/videowall/internal/media"
	"github.com/MaTriXy/videowall/internal/player"
	"github.com/MaTriXy/videowall/internal/wall"
	"github.com/MaTriXy/videowall/internal/xwm"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const fillDelay = 250 * time.Millisecond

// Pane is one slot's display primitive: an X subwindow with an mpv instance
// bound to it.
type Pane struct {
	WID    xproto.Window
	Player player.Player
	Media  media.Media
}

type Model struct {
	Store   config.Store
	Library *media.Library

	RootWID    xproto.Window
	RootWidth  uint16
	RootHeight uint16

	Grid          *wall.Grid[Pane]
	Paused        bool
	Muted         bool
	Volume        player.Volume
	Fullscreen    int // arena index, -1 when no pane is fullscreen
	PlayerOptions player.Options
}

func NewModel(conn *xgb.Conn, store config.Store, library *media.Library) (Model, error) {
	window, err := xwm.CreateWindow(conn)
	if err != nil {
		return Model{}, err
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return Model{}, err
	}

	grid, err := wall.New[Pane](wall.Config{
		SlotWidth:  cfg.Wall.SlotWidth,
		SlotHeight: cfg.Wall.SlotHeight,
		Padding:    cfg.Wall.Padding,
	}, int(window.Width), int(window.Height))
	if err != nil {
		return Model{}, err
	}
	if err := grid.Resize(int(window.Width), int(window.Height)); err != nil {
		return Model{}, err
	}
	grid.Layout()

	return Model{
		Store:      store,
		Library:    library,
		RootWID:    window.WID,
		RootWidth:  window.Width,
		RootHeight: window.Height,
		Grid:       grid,
		Paused:     cfg.Rotation.Paused,
		Volume:     player.NewVolume(),
		Fullscreen: -1,
		PlayerOptions: player.Options{
			HWDec: cfg.Player.HWDec,
			Flags: cfg.Player.Flags,
		},
	}, nil
}

func (m Model) Init(ctx context.Context, conn *xgb.Conn) (xwm.Model, xwm.Cmd) {
	slog.Info("Wall ready",
		"columns", m.Grid.Columns(),
		"rows", m.Grid.Rows(),
		"media", m.Library.Len(),
	)
	m.publish()

	return m, func() xwm.Msg { return RotateMsg{} }
}

func (m Model) Update(ctx context.Context, conn *xgb.Conn, msg xwm.Msg) (xwm.Model, xwm.Cmd) {
	switch ev := msg.(type) {
	case xproto.ConfigureNotifyEvent:
		slog.Debug("ConfigureNotifyEvent:", "event", ev.String())

		if ev.Window != m.RootWID {
			return m, nil
		}
		if ev.Width == m.RootWidth && ev.Height == m.RootHeight {
			return m, nil
		}

		m.RootWidth = ev.Width
		m.RootHeight = ev.Height
		if err := m.Grid.Resize(int(ev.Width), int(ev.Height)); err != nil {
			slog.Warn("Keeping previous grid dimensions", "error", err)
			return m, nil
		}
		m.Grid.Layout()
		m.publish()

		return m, nil
	case xproto.ButtonPressEvent:
		slog.Debug("ButtonPressEvent", "detail", ev.String())

		switch ev.Detail {
		case xproto.ButtonIndex1: // Left click
			if idx, ok := m.paneIndexByWindow(ev.Child); ok {
				return m.fullscreen(ctx, idx), nil
			}
			return m, nil
		case xproto.ButtonIndex3: // Right click
			return m.fullscreen(ctx, -1), nil
		}

		return m, nil
	case xproto.KeyPressEvent:
		slog.Debug("KeyPressEvent", "detail", ev.String())

		switch ev.Detail {
		case 24: // q
			slog.Debug("exit: quit key pressed")
			return m.close(ctx), xwm.Quit
		case 9: // <esc>
			return m.fullscreen(ctx, -1), nil
		case 166: // <back>
			return m.fullscreen(ctx, -1), nil
		case 65: // <space>
			return m.rotate(ctx, conn)
		case 33: // p
			if m.Paused {
				return m.Update(ctx, conn, ResumeMsg{})
			}
			return m.Update(ctx, conn, PauseMsg{})
		case 58: // m
			m.Muted = !m.Muted
			m.applyVolume(ctx)
			return m, nil
		case 111: // <up>
			m.Volume.Add(10)
			m.applyVolume(ctx)
			return m, nil
		case 116: // <down>
			m.Volume.Add(-10)
			m.applyVolume(ctx)
			return m, nil
		case 113: // <left>
			return m.fullscreenStep(ctx, -1), nil
		case 114: // <right>
			return m.fullscreenStep(ctx, 1), nil
		default:
			return m, nil
		}
	case RotateMsg:
		if m.Paused && !ev.Force {
			return m, nil
		}
		return m.rotate(ctx, conn)
	case PauseMsg:
		m.Paused = true
		m.publish()
		return m, nil
	case ResumeMsg:
		m.Paused = false
		m.publish()
		return m.rotate(ctx, conn)
	case MediaChangedMsg:
		slog.Info("Media library changed", "count", ev.Count)
		if !m.Grid.AllAssigned() {
			return m.rotate(ctx, conn)
		}
		return m, nil
	case SnapshotRequestMsg:
		ev.ReplyC <- m.snapshot()
		return m, nil
	case xwm.ErrorMsg:
		slog.Error("Update failed", "error", ev.Err)
		return m, nil
	case xproto.DestroyNotifyEvent:
		// Depending on the user's desktop environment (especially
		// window manager), killing a window might close the
		// client's X connection (e. g. the default Ubuntu
		// desktop environment).
		//
		// If that's the case for your environment, closing this example's window
		// will also close the underlying Go program (because closing the X
		// connection gives a nil event and EOF error).
		//
		// Consider how a single application might have multiple windows
		// (e.g. an open popup or dialog, ...)
		//
		// With other DEs, the X connection will still stay open even after the
		// X window is closed. For these DEs (e.g. i3) we have to check whether
		// the WM sent us a DestroyNotifyEvent and close our program.
		//
		// For more information about closing windows while maintaining
		// the X connection see
		// https://github.com/jezek/xgbutil/blob/master/_examples/graceful-window-close/main.go
		slog.Debug("exit: destroy notify event")

		return m.close(ctx), xwm.Quit
	default:
		slog.Debug("unknown event", "event", ev)
		return m, nil
	}
}

func (m Model) Render(ctx context.Context, conn *xgb.Conn) error {
	for col := 0; col < m.Grid.Columns(); col++ {
		for row := 0; row < m.Grid.Rows(); row++ {
			pane, ok := m.Grid.Content(col, row)
			if !ok {
				continue
			}

			if m.Fullscreen == m.Grid.Index(col, row) {
				continue
			}

			r := m.Grid.Rect(col, row)
			if err := xwm.MapSubWindow(conn, pane.WID); err != nil {
				return err
			}
			if err := xwm.ConfigureSubWindow(conn, pane.WID,
				int16(r.X1), int16(r.Y1), uint16(r.X2-r.X1), uint16(r.Y2-r.Y1)); err != nil {
				return err
			}
		}
	}

	for _, pane := range m.Grid.Detached() {
		if m.Fullscreen >= 0 {
			if fullscreenPane, ok := m.fullscreenPane(); ok && fullscreenPane.WID == pane.WID {
				continue
			}
		}
		if err := xwm.UnmapSubWindow(conn, pane.WID); err != nil {
			return err
		}
	}

	if pane, ok := m.fullscreenPane(); ok {
		if err := xwm.MapSubWindow(conn, pane.WID); err != nil {
			return err
		}
		if err := xwm.ConfigureSubWindow(conn, pane.WID, 0, 0, m.RootWidth, m.RootHeight); err != nil {
			return err
		}
		if err := xwm.RaiseSubWindow(conn, pane.WID); err != nil {
			return err
		}
	}

	return nil
}

func (m Model) rotate(ctx context.Context, conn *xgb.Conn) (Model, xwm.Cmd) {
	item, ok := m.Library.Next()
	if !ok {
		slog.Debug("Rotation skipped: media library is empty")
		return m, nil
	}

	col, row, err := m.Grid.NextTarget(item.IsVideo())
	if err != nil {
		slog.Debug("Rotation skipped", "error", err)
		return m, nil
	}

	pane, ok := m.Grid.Content(col, row)
	if !ok {
		wid, err := xwm.CreateSubWindow(conn, m.RootWID)
		if err != nil {
			return m, xwm.Error(err)
		}

		p, err := player.NewPlayer(ctx, fmt.Sprintf("slot-%d", m.Grid.Index(col, row)), wid, m.PlayerOptions)
		if err != nil {
			xwm.DestroySubWindow(conn, wid)
			return m, xwm.Error(err)
		}

		pane = Pane{WID: wid, Player: p}
	}

	pane.Media = item
	m.Grid.SetContent(col, row, pane)

	if err := pane.Player.Send(ctx,
		player.CommandLoad{File: item.Path},
		player.CommandPlayback{Playing: true},
	); err != nil {
		return m, xwm.Error(err)
	}

	slog.Debug("Rotated slot", "col", col, "row", row, "media", item.Path)
	m.publish()

	// Keep filling until every slot got content once, then settle into the
	// tick pace.
	if !m.Grid.AllAssigned() {
		return m, func() xwm.Msg {
			time.Sleep(fillDelay)
			return RotateMsg{}
		}
	}
	return m, nil
}

func (m Model) fullscreen(ctx context.Context, idx int) Model {
	if m.Fullscreen == idx {
		return m
	}
	m = m.exitFullscreen(ctx)
	if idx < 0 {
		return m
	}

	col, row := m.Grid.Coords(idx)
	if _, ok := m.Grid.Hide(col, row); !ok {
		m.Grid.Show(col, row)
		return m
	}

	m.Fullscreen = idx
	m.applyVolume(ctx)
	m.publish()
	return m
}

func (m Model) exitFullscreen(ctx context.Context) Model {
	if m.Fullscreen < 0 {
		return m
	}

	col, row := m.Grid.Coords(m.Fullscreen)
	if pane, ok := m.Grid.Content(col, row); ok && pane.Media.IsVideo() {
		if err := pane.Player.Send(ctx, player.CommandVolume{Volume: 0}); err != nil {
			slog.Error("Failed to mute pane", "error", err)
		}
	}
	m.Grid.Show(col, row)
	m.Fullscreen = -1
	m.publish()
	return m
}

// fullscreenStep moves fullscreen to the previous or next assigned slot in
// arena order.
func (m Model) fullscreenStep(ctx context.Context, step int) Model {
	assigned := m.assignedIndices()
	if len(assigned) == 0 {
		return m
	}

	pos := -1
	for i, idx := range assigned {
		if idx == m.Fullscreen {
			pos = i
			break
		}
	}

	if pos == -1 {
		if step > 0 {
			return m.fullscreen(ctx, assigned[0])
		}
		return m.fullscreen(ctx, assigned[len(assigned)-1])
	}

	return m.fullscreen(ctx, assigned[(pos+step+len(assigned))%len(assigned)])
}

func (m Model) assignedIndices() []int {
	var indices []int
	for col := 0; col < m.Grid.Columns(); col++ {
		for row := 0; row < m.Grid.Rows(); row++ {
			if _, ok := m.Grid.Content(col, row); ok {
				indices = append(indices, m.Grid.Index(col, row))
			}
		}
	}
	return indices
}

func (m Model) paneIndexByWindow(wid xproto.Window) (int, bool) {
	for col := 0; col < m.Grid.Columns(); col++ {
		for row := 0; row < m.Grid.Rows(); row++ {
			if pane, ok := m.Grid.Content(col, row); ok && pane.WID == wid {
				return m.Grid.Index(col, row), true
			}
		}
	}
	return 0, false
}

func (m Model) fullscreenPane() (Pane, bool) {
	if m.Fullscreen < 0 {
		return Pane{}, false
	}
	col, row := m.Grid.Coords(m.Fullscreen)
	return m.Grid.Content(col, row)
}

// applyVolume pushes the effective volume to the fullscreen pane. Grid panes
// stay muted.
func (m Model) applyVolume(ctx context.Context) {
	pane, ok := m.fullscreenPane()
	if !ok || !pane.Media.IsVideo() {
		return
	}

	volume := m.Volume.V
	if m.Muted {
		volume = 0
	}
	if err := pane.Player.Send(ctx, player.CommandVolume{Volume: volume}); err != nil {
		slog.Error("Failed to set pane volume", "error", err)
	}
}

func (m Model) close(ctx context.Context) Model {
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, idx := range m.assignedIndices() {
		col, row := m.Grid.Coords(idx)
		if pane, ok := m.Grid.Content(col, row); ok {
			if err := pane.Player.Close(closeCtx); err != nil {
				slog.Error("Failed to close player", "error", err)
			}
		}
	}
	for _, pane := range m.Grid.Detached() {
		if err := pane.Player.Close(closeCtx); err != nil {
			slog.Error("Failed to close player", "error", err)
		}
	}
	return m
}

func (m Model) snapshot() Snapshot {
	var panes []PaneInfo
	assigned := 0
	for col := 0; col < m.Grid.Columns(); col++ {
		for row := 0; row < m.Grid.Rows(); row++ {
			pane, ok := m.Grid.Content(col, row)
			if !ok {
				continue
			}
			assigned++
			panes = append(panes, PaneInfo{
				Col:      col,
				Row:      row,
				UUID:     pane.Media.UUID,
				Path:     pane.Media.Path,
				Kind:     string(pane.Media.Kind),
				OnScreen: m.Grid.OnScreen(col, row),
				Hidden:   m.Grid.Hidden(col, row),
			})
		}
	}

	return Snapshot{
		Columns:    m.Grid.Columns(),
		Rows:       m.Grid.Rows(),
		Assigned:   assigned,
		Paused:     m.Paused,
		Fullscreen: m.Fullscreen >= 0,
		Panes:      panes,
	}
}

func (m Model) publish() {
	s := m.snapshot()
	bus.Publish(bus.StateChanged{
		Columns:    s.Columns,
		Rows:       s.Rows,
		Slots:      s.Columns * s.Rows,
		Assigned:   s.Assigned,
		Paused:     s.Paused,
		Fullscreen: s.Fullscreen,
	})
}
