package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/lojasmm/whatsapp/internal/account"
	"github.com/lojasmm/whatsapp/internal/bot"
	"github.com/lojasmm/whatsapp/internal/config"
	"github.com/lojasmm/whatsapp/internal/logger"
	"github.com/lojasmm/whatsapp/internal/session"
	"github.com/lojasmm/whatsapp/internal/store"
	"github.com/lojasmm/whatsapp/internal/whatsapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	sessions, closeStore, err := buildSessionStore(cfg)
	if err != nil {
		zl.Fatal().Err(err).Msg("session store")
	}
	defer closeStore()

	resolver, err := account.NewFileResolver(cfg.AccountsFile)
	if err != nil {
		zl.Fatal().Err(err).Msg("account resolver")
	}

	opts := []whatsapp.Option{
		whatsapp.WithLogger(zl),
		whatsapp.WithObserver(eventLogger{logger: zl}),
		whatsapp.WithReadOnReply(readOnReplyMode(cfg.ReadOnReply)),
	}
	if cfg.WAAPIBaseURL != "" {
		opts = append(opts, whatsapp.WithBaseURL(cfg.WAAPIBaseURL))
	}
	wa := whatsapp.New(resolver, opts...)

	router := bot.NewRouter(sessions, zl)
	router.Fallback(greet)
	router.Handle("echo", echo)

	// Periodic cleanup of stale per-conversation locks
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			router.Locker().Cleanup(1 * time.Hour)
		}
	}()

	webhookHandler := whatsapp.NewWebhookHandler(wa, cfg.WAVerifyToken, func(msg *whatsapp.Message) {
		if err := router.Dispatch(context.Background(), msg); err != nil {
			zl.Error().Err(err).Str("from", msg.From).Msg("dispatch failed")
		}
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/webhook", webhookHandler.HandleVerify)
	r.Post("/webhook", webhookHandler.HandleIncoming)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info().Str("port", cfg.Port).Msg("whatsappd: listening")
		zl.Info().Str("verify_token", cfg.WAVerifyToken).Msg("whatsappd: webhook verify token")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info().Msg("whatsappd: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Fatal().Err(err).Msg("shutdown")
	}
	zl.Info().Msg("whatsappd: stopped")
}

func buildSessionStore(cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		s, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "bolt":
		s, err := store.NewBoltStore(cfg.DataDir + "/sessions.db")
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func readOnReplyMode(mode string) whatsapp.ReadOnReply {
	switch mode {
	case "off":
		return whatsapp.ReadOnReplyOff
	case "strict":
		return whatsapp.ReadOnReplyStrict
	default:
		return whatsapp.ReadOnReplyBestEffort
	}
}

// greet is the fallback handler: it welcomes the sender and arms the echo
// handler for the next message.
func greet(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error {
	if _, err := msg.Reply(ctx, &whatsapp.Content{
		Header:  "whatsappd",
		Text:    "Hi! Send me anything and I'll echo it back.",
		Caption: "demo bot",
	}); err != nil {
		return err
	}
	return sess.Set(ctx, bot.NextHandlerField, "echo")
}

func echo(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error {
	if _, err := msg.Reply(ctx, "You said: "+msg.Text); err != nil {
		return err
	}
	return sess.Set(ctx, bot.NextHandlerField, "echo")
}

// eventLogger is an Observer that logs message lifecycle events.
type eventLogger struct {
	logger zerolog.Logger
}

func (l eventLogger) MessageReceived(ev whatsapp.ReceivedEvent) {
	l.logger.Info().
		Str("event_id", ev.EventID).
		Str("from", ev.Message.From).
		Str("type", ev.Message.Type).
		Msg("message received")
}

func (l eventLogger) MessageSent(ev whatsapp.SentEvent) {
	l.logger.Info().
		Str("event_id", ev.EventID).
		Str("to", ev.To).
		Str("type", ev.Payload.Type).
		Str("message_id", ev.MessageID).
		Msg("message sent")
}
