// Package player drives one mpv instance bound to an X subwindow.
package player

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/MaTriXy/videowall/internal/media"
	"github.com/gen2brain/go-mpv"
	"github.com/jezek/xgb/xproto"
)

// MaxPlaybackDelay is how far a stream may lag, in seconds, before playback
// speeds up to catch the live edge.
const MaxPlaybackDelay = 0.5

const catchUpSpeed = 1.5

// https://mpv.io/manual/master/#property-list
const (
	PropertyDemuxerCacheTime = "demuxer-cache-time"
	PropertyTimeRemaining    = "time-remaining"
)

var ErrPlayerClosed = errors.New("player closed")

type (
	CommandLoad struct {
		File string
	}
	CommandPlayback struct {
		Playing bool
	}
	CommandVolume struct {
		Volume int
	}
)

type Options struct {
	HWDec string
	Flags []string
}

func NewPlayer(ctx context.Context, id string, wid xproto.Window, opts Options) (Player, error) {
	m := mpv.New()

	// Base options
	_ = m.SetOption("wid", mpv.FormatInt64, int64(wid))    // render into the slot's subwindow
	_ = m.SetOptionString("input-vo-keyboard", "no")       // keys go to the wall, not mpv
	_ = m.SetOption("input-cursor", mpv.FormatFlag, false) // clicks go to the wall, not mpv
	_ = m.SetOption("osc", mpv.FormatFlag, false)          // no on-screen controls
	_ = m.SetOption("force-window", mpv.FormatFlag, true)  // keep the slot filled before the first load
	_ = m.SetOption("idle", mpv.FormatFlag, true)          // survive between loads
	_ = m.SetOptionString("loop-file", "inf")              // videos repeat until replaced
	_ = m.SetOptionString("image-display-duration", "inf") // photos stay until replaced
	_ = m.SetOption("mute", mpv.FormatFlag, true)          // slots start silent

	// Custom options
	if opts.HWDec != "" {
		_ = m.SetOptionString("hwdec", opts.HWDec)
	}
	for _, flag := range opts.Flags {
		if key, value, ok := splitFlag(flag); ok {
			_ = m.SetOptionString(key, value)
		}
	}

	_ = m.RequestLogMessages("info")
	_ = m.ObserveProperty(0, PropertyDemuxerCacheTime, mpv.FormatDouble)
	_ = m.ObserveProperty(0, PropertyTimeRemaining, mpv.FormatDouble)

	if err := m.Initialize(); err != nil {
		return Player{}, err
	}

	p := Player{
		ID:       id,
		commandC: make(chan any),
		doneC:    make(chan struct{}),
		closeC:   make(chan struct{}),
	}

	go p.run(ctx, m)

	return p, nil
}

type Player struct {
	ID       string
	commandC chan any
	doneC    chan struct{}
	closeC   chan struct{}
}

// Send queues commands on the player's actor loop, in order.
func (p Player) Send(ctx context.Context, cmds ...any) error {
	for _, cmd := range cmds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.doneC:
			return ErrPlayerClosed
		case p.commandC <- cmd:
		}
	}
	return nil
}

// Close stops the actor loop and destroys the mpv instance.
func (p Player) Close(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.doneC:
		return nil
	case p.closeC <- struct{}{}:
		<-p.doneC
		return nil
	}
}

func (p Player) run(ctx context.Context, m *mpv.Mpv) {
	log := slog.With("player", p.ID)

	defer close(p.doneC)
	defer m.TerminateDestroy()

	eventTicker := time.NewTicker(time.Second)
	defer eventTicker.Stop()

	watchTicker := time.NewTicker(time.Second)
	defer watchTicker.Stop()

	var (
		playing  = NewState(false)
		file     = NewState("")
		volume   = NewState(0)
		speed    = NewState(1.0)
		watchDog = NewWatchDog(5 * time.Second)
	)

	applyPlayback := func() {
		if playing.V && file.V != "" {
			if err := m.Command([]string{"loadfile", file.V}); err != nil {
				log.Error("Failed to play file", "error", err)
			}
		} else {
			if err := m.Command([]string{"stop"}); err != nil {
				log.Error("Failed to stop", "error", err)
			}
		}
		watchDog.Ping()
	}
	playing.AddEffect(applyPlayback)
	file.AddEffect(applyPlayback)

	volume.AddEffect(func() {
		if err := m.SetProperty("volume", mpv.FormatInt64, int64(volume.V)); err != nil {
			log.Error("Failed to set volume", "error", err)
		}
		if err := m.SetProperty("mute", mpv.FormatFlag, volume.V == 0); err != nil {
			log.Error("Failed to set mute", "error", err)
		}
	})

	speed.AddEffect(func() {
		if err := m.SetProperty("speed", mpv.FormatDouble, speed.V); err != nil {
			log.Error("Failed to set speed", "error", err)
		}
	})

	onProperty := func(name string, data any) {
		switch name {
		case PropertyDemuxerCacheTime:
			watchDog.Ping()
		case PropertyTimeRemaining:
			// Catch-up only makes sense against a live edge.
			if !media.IsStream(file.V) {
				return
			}
			if lag, ok := data.(float64); ok {
				if lag > MaxPlaybackDelay {
					speed.Update(catchUpSpeed)
				} else {
					speed.Update(1)
				}
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.closeC:
			return
		case <-watchTicker.C:
			// Stall recovery is only meaningful for live streams.
			if media.IsStream(file.V) && watchDog.Dead() {
				applyPlayback()
			}
		case <-eventTicker.C:
			pumpEvents(log, m, onProperty)
		case c := <-p.commandC:
			switch c := c.(type) {
			case CommandPlayback:
				playing.Update(c.Playing)
			case CommandLoad:
				file.Update(c.File)
			case CommandVolume:
				volume.Update(c.Volume)
			}
		}
	}
}

// pumpEvents drains mpv's event queue until it reports none pending.
func pumpEvents(log *slog.Logger, m *mpv.Mpv, onProperty func(name string, data any)) {
	for {
		e := m.WaitEvent(0)
		if e.Error != nil {
			log.Error("Failed to listen for events", "error", e.Error)
			return
		}

		switch e.EventID {
		case mpv.EventNone, mpv.EventShutdown:
			return
		case mpv.EventPropertyChange:
			prop := e.Property()
			log.Debug("property-change", "name", prop.Name, "data", prop.Data)
			onProperty(prop.Name, prop.Data)
		case mpv.EventLogMsg:
			msg := e.LogMessage()
			switch msg.Level {
			case "fatal", "error":
				log.Error(msg.Text, "prefix", msg.Prefix)
			case "warn":
				log.Warn(msg.Text, "prefix", msg.Prefix)
			case "info":
				log.Info(msg.Text, "prefix", msg.Prefix)
			}
		default:
			log.Debug("MPV event", "event-id", e.EventID)
		}
	}
}

func splitFlag(flag string) (string, string, bool) {
	return strings.Cut(strings.TrimPrefix(flag, "--"), "=")
}
