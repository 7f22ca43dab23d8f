package sutureext

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want func(t *testing.T, got error)
	}{
		{
			name: "nil error",
			ctx:  context.Background(),
			err:  nil,
			want: func(t *testing.T, got error) {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
			},
		},
		{
			name: "plain error passes through",
			ctx:  context.Background(),
			err:  errors.New("boom"),
			want: func(t *testing.T, got error) {
				if got == nil || got.Error() != "boom" {
					t.Errorf("got %v, want boom", got)
				}
			},
		},
		{
			name: "context error with live context is stripped",
			ctx:  context.Background(),
			err:  fmt.Errorf("dial: %w", context.Canceled),
			want: func(t *testing.T, got error) {
				if errors.Is(got, context.Canceled) {
					t.Errorf("got %v, still matches context.Canceled", got)
				}
				if got == nil || got.Error() == "" {
					t.Error("original message was lost")
				}
			},
		},
		{
			name: "context error with done context is kept",
			ctx:  canceledCtx,
			err:  context.Canceled,
			want: func(t *testing.T, got error) {
				if !errors.Is(got, context.Canceled) {
					t.Errorf("got %v, want context.Canceled", got)
				}
			},
		},
		{
			name: "do not restart marker survives stripping",
			ctx:  context.Background(),
			err:  errors.Join(suture.ErrDoNotRestart, context.Canceled),
			want: func(t *testing.T, got error) {
				if !errors.Is(got, suture.ErrDoNotRestart) {
					t.Errorf("got %v, want suture.ErrDoNotRestart preserved", got)
				}
				if errors.Is(got, context.Canceled) {
					t.Errorf("got %v, still matches context.Canceled", got)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.want(t, SanitizeError(tc.ctx, tc.err))
		})
	}
}

func TestServiceFunc(t *testing.T) {
	called := false
	s := NewServiceFunc("test.Service", func(ctx context.Context) error {
		called = true
		return nil
	})

	if s.String() != "test.Service" {
		t.Errorf("String() = %q, want %q", s.String(), "test.Service")
	}
	if err := s.Serve(context.Background()); err != nil {
		t.Errorf("Serve() = %v, want nil", err)
	}
	if !called {
		t.Error("Serve() did not call the wrapped function")
	}
}
