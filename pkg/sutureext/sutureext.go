// Package sutureext adapts suture supervision to slog and guards service
// errors against suture's context-error semantics.
package sutureext

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

func NewSimple(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: EventHook(),
	})
}

// EventHook routes supervisor events to slog.
func EventHook() suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			slog.Warn("Service did not stop in time", slog.String("supervisor", e.SupervisorName), slog.String("service", e.ServiceName))
		case suture.EventServicePanic:
			slog.Error("Service panicked", slog.String("supervisor", e.SupervisorName), slog.String("service", e.ServiceName), slog.String("panic", e.PanicMsg))
			slog.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			slog.Error("Service failed", slog.Any("error", e.Err), slog.String("supervisor", e.SupervisorName), slog.String("service", e.ServiceName))
		case suture.EventBackoff:
			slog.Debug("Entering backoff", slog.String("supervisor", e.SupervisorName))
		case suture.EventResume:
			slog.Debug("Leaving backoff", slog.String("supervisor", e.SupervisorName))
		default:
			slog.Warn("Unknown supervisor event", slog.Int("type", int(e.Type())))
		}
	}
}

// Service is a suture.Service that also names itself for supervisor logs.
type Service interface {
	String() string
	suture.Service
}

// Add registers service with the supervisor, sanitizing its errors.
func Add(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitized{Service: service})
}

type sanitized struct {
	Service
}

func (s sanitized) Serve(ctx context.Context) error {
	return SanitizeError(ctx, s.Service.Serve(ctx))
}

// SanitizeError keeps suture from reading a service's wrapped context error
// as a stop request. While the context is live, context sentinels are
// stripped from the error; the message and suture's control markers survive.
func SanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	errs := []error{errors.New(err.Error())}

	if errors.Is(err, suture.ErrDoNotRestart) {
		errs = append(errs, suture.ErrDoNotRestart)
	}

	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		errs = append(errs, suture.ErrTerminateSupervisorTree)
	}

	return errors.Join(errs...)
}

// ServiceFunc lifts a bare function into a named Service.
type ServiceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func NewServiceFunc(name string, fn func(ctx context.Context) error) ServiceFunc {
	return ServiceFunc{
		name: name,
		fn:   fn,
	}
}

func (s ServiceFunc) String() string {
	return s.name
}

func (s ServiceFunc) Serve(ctx context.Context) error {
	return s.fn(ctx)
}
