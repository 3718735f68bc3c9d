package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lojasmm/whatsapp/internal/session"
	"github.com/lojasmm/whatsapp/internal/whatsapp"
)

// NextHandlerField is the session field naming the handler that should
// receive the conversation's next message.
const NextHandlerField = "next_handler"

// HandlerFunc processes one inbound message with its conversation session.
// Handlers that expect a follow-up set NextHandlerField on the session;
// otherwise the conversation falls back to the default handler.
type HandlerFunc func(ctx context.Context, msg *whatsapp.Message, sess *session.Session) error

// Router dispatches inbound messages to named handlers based on session
// state, implementing simple multi-turn conversations on top of the
// stateless webhook.
type Router struct {
	handlers map[string]HandlerFunc
	fallback HandlerFunc
	sessions session.Store
	locker   *session.Locker
	logger   zerolog.Logger
}

func NewRouter(sessions session.Store, logger zerolog.Logger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		sessions: sessions,
		locker:   session.NewLocker(),
		logger:   logger,
	}
}

// Handle registers a named handler that can be armed via NextHandlerField.
func (r *Router) Handle(name string, fn HandlerFunc) {
	r.handlers[name] = fn
}

// Fallback registers the handler for conversations with no armed handler.
func (r *Router) Fallback(fn HandlerFunc) {
	r.fallback = fn
}

// Locker exposes the per-conversation lock manager so the caller can run
// periodic cleanup.
func (r *Router) Locker() *session.Locker {
	return r.locker
}

// Dispatch routes one message. Deliveries for the same sender are serialized;
// the armed handler is disarmed before it runs, so it must re-arm itself to
// keep the conversation going.
func (r *Router) Dispatch(ctx context.Context, msg *whatsapp.Message) error {
	return r.locker.WithLock(msg.From, func() error {
		sess := session.New(r.sessions, msg.From)

		next, err := sess.Get(ctx, NextHandlerField, "")
		if err != nil {
			return err
		}
		name, _ := next.(string)

		fn := r.handlers[name]
		if fn == nil {
			if name != "" {
				r.logger.Warn().Str("handler", name).Str("from", msg.From).Msg("unknown next handler, using fallback")
			}
			fn = r.fallback
		}
		if fn == nil {
			return nil
		}

		if name != "" {
			if err := sess.Forget(ctx, NextHandlerField); err != nil {
				return err
			}
		}

		if err := fn(ctx, msg, sess); err != nil {
			return fmt.Errorf("handler %q: %w", name, err)
		}
		return nil
	})
}
