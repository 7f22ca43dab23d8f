// Package xwm runs an update loop for a model rendered onto X windows.
package xwm

import (
	"context"
	"log/slog"

	"github.com/jezek/xgb"
)

// Msg contain data from the result of a IO operation. Msgs trigger the update
// function and, henceforth, the UI.
type Msg any

// Cmd is IO scheduled by an update. Its result is fed back into the loop.
type Cmd func() Msg

type QuitMsg struct{}

// Quit is a Cmd that stops the loop.
func Quit() Msg {
	return QuitMsg{}
}

type ErrorMsg struct {
	Err error
}

func Error(err error) Cmd {
	return func() Msg {
		return ErrorMsg{Err: err}
	}
}

type Model interface {
	// Init is the first function that will be called.
	Init(ctx context.Context, conn *xgb.Conn) (Model, Cmd)

	// Update is called when a message is received. Use it to inspect messages
	// and, in response, update the model.
	Update(ctx context.Context, conn *xgb.Conn, msg Msg) (Model, Cmd)

	// Render is called after every update.
	Render(ctx context.Context, conn *xgb.Conn) error
}

// Loop owns the model. X events and messages sent on msgC are applied one at
// a time, so the model never needs locks.
func Loop(ctx context.Context, conn *xgb.Conn, model Model, msgC chan Msg) error {
	eventC := make(chan xgb.Event)
	go ReceiveEvents(ctx, conn, eventC)

	model, cmd := model.Init(ctx, conn)
	exec(ctx, cmd, msgC)
	if err := model.Render(ctx, conn); err != nil {
		return err
	}

	for {
		var msg Msg
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg = <-msgC:
		case ev, ok := <-eventC:
			if !ok {
				return nil
			}
			msg = ev
		}

		if _, ok := msg.(QuitMsg); ok {
			return nil
		}

		model, cmd = model.Update(ctx, conn, msg)
		exec(ctx, cmd, msgC)

		if err := model.Render(ctx, conn); err != nil {
			return err
		}
	}
}

func exec(ctx context.Context, cmd Cmd, msgC chan<- Msg) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if msg == nil {
			return
		}
		select {
		case <-ctx.Done():
		case msgC <- msg:
		}
	}()
}

// ReceiveEvents forwards X events to eventC until the connection dies.
func ReceiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	defer close(eventC)
	slog := slog.With("func", "xwm.ReceiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}

		if err != nil {
			slog.Error("Failed to read event", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}
