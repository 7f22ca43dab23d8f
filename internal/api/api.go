// Package api serves the HTTP control surface for the wall.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/MaTriXy/videowall/internal/app"
	"github.com/MaTriXy/videowall/internal/build"
	"github.com/MaTriXy/videowall/internal/bus"
	"github.com/MaTriXy/videowall/internal/xwm"
	"github.com/MaTriXy/videowall/pkg/chiext"
	"github.com/MaTriXy/videowall/web"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const snapshotTimeout = 5 * time.Second

type Server struct {
	address string
	msgC    chan<- xwm.Msg
	hub     *bus.Hub[bus.StateChanged]
}

func NewServer(address string, msgC chan<- xwm.Msg) Server {
	return Server{
		address: address,
		msgC:    msgC,
		hub:     bus.NewHub[bus.StateChanged]().Register(),
	}
}

func (s Server) String() string {
	return "api.Server"
}

func (s Server) Serve(ctx context.Context) error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chiext.Logger())
	router.Use(chiext.StaticEmbedFS(chiext.StaticFSConfig{
		FileSystem: web.DistFS,
		Root:       "dist",
	}))

	s.Register(humachi.New(router, huma.DefaultConfig("videowall", build.Current.Version)))

	server := &http.Server{
		Addr:        s.address,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errC := make(chan error, 1)
	go func() { errC <- server.ListenAndServe() }()

	slog.Info("API listening", "address", s.address)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down API server", "error", err)
		}
		<-errC
		return ctx.Err()
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// send queues a message for the update loop.
func (s Server) send(ctx context.Context, msg xwm.Msg) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.msgC <- msg:
		return nil
	}
}

// snapshot asks the update loop for the current wall state. Because msgC is
// ordered, a snapshot queued after a command observes that command's effect.
func (s Server) snapshot(ctx context.Context) (app.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	replyC := make(chan app.Snapshot, 1)
	if err := s.send(ctx, app.SnapshotRequestMsg{ReplyC: replyC}); err != nil {
		return app.Snapshot{}, err
	}

	select {
	case <-ctx.Done():
		return app.Snapshot{}, ctx.Err()
	case snapshot := <-replyC:
		return snapshot, nil
	}
}
