package xwm

import (
	"github.com/MaTriXy/videowall/internal/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type Window struct {
	WID    xproto.Window
	Width  uint16
	Height uint16
}

// CreateWindow creates and maps a root-sized top-level window that receives
// resize, key and button events.
func CreateWindow(conn *xgb.Conn) (Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)

	cursor, err := xcursor.CreateCursor(conn, xcursor.LeftPtr)
	if err != nil {
		return Window{}, err
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return Window{}, err
	}

	// The value list order follows the mask bits.
	err = xproto.CreateWindowChecked(conn, screen.RootDepth,
		wid, screen.Root,
		0, 0, screen.WidthInPixels, screen.HeightInPixels, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor,
		[]uint32{
			0,
			xproto.EventMaskStructureNotify | xproto.EventMaskKeyPress | xproto.EventMaskButtonPress,
			uint32(cursor),
		}).Check()
	if err != nil {
		return Window{}, err
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return Window{}, err
	}

	return Window{
		WID:    wid,
		Width:  screen.WidthInPixels,
		Height: screen.HeightInPixels,
	}, nil
}

// CreateSubWindow creates and maps a child window at 1x1. Geometry comes
// later through ConfigureSubWindow.
func CreateSubWindow(conn *xgb.Conn, root xproto.Window) (xproto.Window, error) {
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	if err := xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent,
		wid, root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, xproto.WindowClassCopyFromParent, 0, []uint32{}).Check(); err != nil {
		return 0, err
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, err
	}

	return wid, nil
}

func ConfigureSubWindow(conn *xgb.Conn, wid xproto.Window, x, y int16, w, h uint16) error {
	return xproto.ConfigureWindowChecked(conn, wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(x), uint32(y), uint32(w), uint32(h)}).
		Check()
}

// RaiseSubWindow moves the child window above its siblings.
func RaiseSubWindow(conn *xgb.Conn, wid xproto.Window) error {
	return xproto.ConfigureWindowChecked(conn, wid,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove}).
		Check()
}

func MapSubWindow(conn *xgb.Conn, wid xproto.Window) error {
	return xproto.MapWindowChecked(conn, wid).Check()
}

func UnmapSubWindow(conn *xgb.Conn, wid xproto.Window) error {
	return xproto.UnmapWindowChecked(conn, wid).Check()
}

func DestroySubWindow(conn *xgb.Conn, wid xproto.Window) error {
	return xproto.DestroyWindowChecked(conn, wid).Check()
}
