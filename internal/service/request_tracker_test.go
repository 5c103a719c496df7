package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
)

func TestRequestTracker(t *testing.T) {
	t.Run("newer request cancels and supersedes the older", func(t *testing.T) {
		tracker := service.NewRequestTracker(nil)
		errBoom := errors.New("boom")

		ctx1, finish1 := tracker.Begin(context.Background(), "u1", service.KindSearch)
		ctx2, finish2 := tracker.Begin(context.Background(), "u1", service.KindSearch)

		if ctx1.Err() == nil {
			t.Error("Expected first context to be cancelled")
		}
		if ctx2.Err() != nil {
			t.Error("Expected second context to be live")
		}

		if err := finish1(nil); !errors.Is(err, apperrors.ErrSuperseded) {
			t.Errorf("Expected ErrSuperseded for the older request, got %v", err)
		}
		if err := finish2(errBoom); !errors.Is(err, errBoom) {
			t.Errorf("Expected the newer request's own error, got %v", err)
		}
		if n := tracker.InFlight(); n != 0 {
			t.Errorf("Expected no requests in flight, got %d", n)
		}
	})

	t.Run("users and kinds are independent", func(t *testing.T) {
		tracker := service.NewRequestTracker(nil)

		ctxA, finishA := tracker.Begin(context.Background(), "u1", service.KindSearch)
		_, finishB := tracker.Begin(context.Background(), "u2", service.KindSearch)
		_, finishC := tracker.Begin(context.Background(), "u1", service.KindScreener)

		if ctxA.Err() != nil {
			t.Error("Expected u1 search to survive other users and kinds")
		}
		for _, finish := range []func(error) error{finishA, finishB, finishC} {
			if err := finish(nil); err != nil {
				t.Errorf("Expected nil, got %v", err)
			}
		}
	})

	t.Run("finish cancels the request context", func(t *testing.T) {
		tracker := service.NewRequestTracker(nil)
		ctx, finish := tracker.Begin(context.Background(), "u1", service.KindSearch)
		_ = finish(nil)

		if ctx.Err() == nil {
			t.Error("Expected context to be cancelled after finish")
		}
	})
}
