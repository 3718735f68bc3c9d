package bot_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lojasmm/whatsapp/internal/bot"
	"github.com/lojasmm/whatsapp/internal/session"
	"github.com/lojasmm/whatsapp/internal/store"
	"github.com/lojasmm/whatsapp/internal/whatsapp"
)

func TestRouterFallback(t *testing.T) {
	router := bot.NewRouter(store.NewMemoryStore(), zerolog.Nop())

	var called bool
	router.Fallback(func(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error {
		called = true
		return nil
	})

	msg := &whatsapp.Message{From: "0987654321", Text: "hi"}
	if err := router.Dispatch(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected fallback to run")
	}
}

func TestRouterArmsNextHandler(t *testing.T) {
	st := store.NewMemoryStore()
	router := bot.NewRouter(st, zerolog.Nop())

	var order []string
	router.Fallback(func(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error {
		order = append(order, "fallback")
		return sess.Set(ctx, bot.NextHandlerField, "confirm")
	})
	router.Handle("confirm", func(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error {
		order = append(order, "confirm")
		return nil
	})

	msg := &whatsapp.Message{From: "0987654321"}
	if err := router.Dispatch(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := router.Dispatch(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Handler disarms after one turn, so the third message falls back again.
	if err := router.Dispatch(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"fallback", "confirm", "fallback"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestRouterUnknownHandlerFallsBack(t *testing.T) {
	st := store.NewMemoryStore()
	router := bot.NewRouter(st, zerolog.Nop())

	var called bool
	router.Fallback(func(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error {
		called = true
		return nil
	})

	ctx := context.Background()
	if err := session.New(st, "0987654321").Set(ctx, bot.NextHandlerField, "gone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := router.Dispatch(ctx, &whatsapp.Message{From: "0987654321"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected fallback for unknown handler")
	}
}

func TestRouterNoHandlersIsNoop(t *testing.T) {
	router := bot.NewRouter(store.NewMemoryStore(), zerolog.Nop())
	if err := router.Dispatch(context.Background(), &whatsapp.Message{From: "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
