package api

import (
	"context"
	"net/http"

	"github.com/MaTriXy/videowall/internal/app"
	"github.com/MaTriXy/videowall/internal/build"
	"github.com/MaTriXy/videowall/internal/bus"
	"github.com/MaTriXy/videowall/internal/xwm"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
)

type BuildOutput struct {
	Body build.Build
}

type StateOutput struct {
	Body StateBody
}

type StateBody struct {
	Columns    int        `json:"columns"`
	Rows       int        `json:"rows"`
	Assigned   int        `json:"assigned"`
	Paused     bool       `json:"paused"`
	Fullscreen bool       `json:"fullscreen"`
	Panes      []PaneBody `json:"panes"`
}

type PaneBody struct {
	Col      int    `json:"col"`
	Row      int    `json:"row"`
	UUID     string `json:"uuid"`
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	OnScreen bool   `json:"on_screen"`
	Hidden   bool   `json:"hidden"`
}

func stateBody(s app.Snapshot) StateBody {
	panes := make([]PaneBody, 0, len(s.Panes))
	for _, p := range s.Panes {
		panes = append(panes, PaneBody{
			Col:      p.Col,
			Row:      p.Row,
			UUID:     p.UUID,
			Path:     p.Path,
			Kind:     p.Kind,
			OnScreen: p.OnScreen,
			Hidden:   p.Hidden,
		})
	}
	return StateBody{
		Columns:    s.Columns,
		Rows:       s.Rows,
		Assigned:   s.Assigned,
		Paused:     s.Paused,
		Fullscreen: s.Fullscreen,
		Panes:      panes,
	}
}

// Register mounts every operation on the given API.
func (s Server) Register(api huma.API) {
	huma.Get(api, "/api/build", func(ctx context.Context, input *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: build.Current}, nil
	})

	huma.Get(api, "/api/state", func(ctx context.Context, input *struct{}) (*StateOutput, error) {
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			return nil, huma.Error503ServiceUnavailable("wall is not responding", err)
		}
		return &StateOutput{Body: stateBody(snapshot)}, nil
	})

	huma.Post(api, "/api/rotate", func(ctx context.Context, input *struct{}) (*StateOutput, error) {
		return s.command(ctx, app.RotateMsg{Force: true})
	})

	huma.Post(api, "/api/pause", func(ctx context.Context, input *struct{}) (*StateOutput, error) {
		return s.command(ctx, app.PauseMsg{})
	})

	huma.Post(api, "/api/resume", func(ctx context.Context, input *struct{}) (*StateOutput, error) {
		return s.command(ctx, app.ResumeMsg{})
	})

	sse.Register(api, huma.Operation{
		OperationID: "events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Stream wall state changes",
	}, map[string]any{
		"state": bus.StateChanged{},
	}, s.events)
}

func (s Server) command(ctx context.Context, msg xwm.Msg) (*StateOutput, error) {
	if err := s.send(ctx, msg); err != nil {
		return nil, huma.Error503ServiceUnavailable("wall is not responding", err)
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, huma.Error503ServiceUnavailable("wall is not responding", err)
	}
	return &StateOutput{Body: stateBody(snapshot)}, nil
}

func (s Server) events(ctx context.Context, input *struct{}, send sse.Sender) {
	c, unsub := s.hub.Subscribe()
	defer unsub()

	// The hub must never wait on a slow client, so a forwarder keeps only
	// the latest state when the connection cannot keep up.
	latestC := make(chan bus.StateChanged, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-c:
				select {
				case latestC <- ev:
				default:
					select {
					case <-latestC:
					default:
					}
					latestC <- ev
				}
			}
		}
	}()

	if snapshot, err := s.snapshot(ctx); err == nil {
		body := stateBody(snapshot)
		_ = send.Data(bus.StateChanged{
			Columns:    body.Columns,
			Rows:       body.Rows,
			Slots:      body.Columns * body.Rows,
			Assigned:   body.Assigned,
			Paused:     body.Paused,
			Fullscreen: body.Fullscreen,
		})
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-latestC:
			if err := send.Data(ev); err != nil {
				return
			}
		}
	}
}
