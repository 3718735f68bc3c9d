package whatsapp

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReceivedEvent is published after a webhook payload yields a message.
type ReceivedEvent struct {
	EventID    string
	Message    *Message
	ReceivedAt time.Time
}

// SentEvent is published after the provider accepts an outbound message.
type SentEvent struct {
	EventID   string
	To        string
	Payload   *Payload
	MessageID string
	SentAt    time.Time
}

// Observer receives message lifecycle notifications. Implementations are
// invoked synchronously on the request path and must not block; a panicking
// observer is recovered and logged, it never fails the operation.
type Observer interface {
	MessageReceived(ReceivedEvent)
	MessageSent(SentEvent)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) MessageReceived(ReceivedEvent) {}

func (NopObserver) MessageSent(SentEvent) {}

func notifyReceived(obs Observer, logger zerolog.Logger, msg *Message) {
	defer recoverObserver(logger, "message_received")
	obs.MessageReceived(ReceivedEvent{
		EventID:    uuid.NewString(),
		Message:    msg,
		ReceivedAt: time.Now().UTC(),
	})
}

func notifySent(obs Observer, logger zerolog.Logger, to string, payload *Payload, messageID string) {
	defer recoverObserver(logger, "message_sent")
	obs.MessageSent(SentEvent{
		EventID:   uuid.NewString(),
		To:        to,
		Payload:   payload,
		MessageID: messageID,
		SentAt:    time.Now().UTC(),
	})
}

func recoverObserver(logger zerolog.Logger, event string) {
	if r := recover(); r != nil {
		logger.Error().Str("event", event).Any("panic", r).Msg("observer panicked")
	}
}
