package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MaTriXy/videowall/internal/api"
	"github.com/MaTriXy/videowall/internal/app"
	"github.com/MaTriXy/videowall/internal/build"
	"github.com/MaTriXy/videowall/internal/bus"
	"github.com/MaTriXy/videowall/internal/config"
	"github.com/MaTriXy/videowall/internal/core"
	"github.com/MaTriXy/videowall/internal/media"
	"github.com/MaTriXy/videowall/internal/rotator"
	"github.com/MaTriXy/videowall/internal/xwm"
	"github.com/MaTriXy/videowall/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jezek/xgb"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug  bool   `doc:"enable debug logging"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".videowall.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		InitLogger(options.Debug)

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			var driver config.Driver
			if filepath.Ext(configFilePath) == ".json" {
				driver = config.NewJSON(configFilePath)
			} else {
				driver = config.NewYAML(configFilePath)
			}

			store, err := config.NewStore(driver)
			if err != nil {
				return err
			}
			if err := store.Normalize(); err != nil {
				return err
			}

			if options.Debug {
				cfg, err := store.GetConfig()
				if err != nil {
					return err
				}
				pp.Println(cfg)
			}

			library := media.NewLibrary(store)
			count, err := library.Reload()
			if err != nil {
				return err
			}
			slog.Info("Media library loaded", "count", count)

			conn, err := xgb.NewConn()
			if err != nil {
				return err
			}
			defer conn.Close()

			model, err := app.NewModel(conn, store, library)
			if err != nil {
				return err
			}

			msgC := make(chan xwm.Msg)
			bus.Subscribe("main.rotate", func(ctx context.Context, event bus.RotateTick) error {
				select {
				case msgC <- app.RotateMsg{}:
				case <-ctx.Done():
				}
				return nil
			})
			bus.Subscribe("main.media", func(ctx context.Context, event bus.MediaChanged) error {
				select {
				case msgC <- app.MediaChangedMsg{Count: event.Count}:
				case <-ctx.Done():
				}
				return nil
			})

			supervisor := sutureext.NewSimple("videowall")
			sutureext.Add(supervisor, api.NewServer(core.Address(options.Host, options.Port), msgC))
			sutureext.Add(supervisor, rotator.New(store))
			sutureext.Add(supervisor, media.NewWatcher(library))
			supervisor.ServeBackground(ctx)

			return xwm.Loop(ctx, conn, model, msgC)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func InitLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

// OnServe runs serveFn for the life of the command. Shutdown cancels the
// context and waits for serveFn to return before the process exits.
func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	doneC := make(chan error, 1)

	hooks.OnStart(func() {
		err := serveFn(ctx)
		doneC <- err
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal(err)
		}
	})
	hooks.OnStop(func() {
		cancel()
		<-doneC
	})
}
