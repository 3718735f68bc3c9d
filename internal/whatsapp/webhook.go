package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"
)

// Message types accepted from webhooks. Everything else (reactions, stickers,
// unsupported) is ignored.
var acceptedTypes = map[string]bool{
	"text":        true,
	"interactive": true,
	"media":       true,
	"document":    true,
	"image":       true,
	"video":       true,
	"order":       true,
}

// HandleWebhook extracts the first message from a webhook envelope, resolves
// the owning account and returns the message bound to a client for that
// account.
//
// A malformed or irrelevant envelope is not an error: it returns (nil, nil),
// meaning "nothing to process". A failed account resolution is an error, the
// whole delivery failed.
func (w *Whatsapp) HandleWebhook(raw []byte) (*Message, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		w.logger.Debug().Err(err).Msg("webhook: undecodable payload")
		return nil, nil
	}

	if len(payload.Entry) == 0 {
		return nil, nil
	}
	entry := payload.Entry[0]

	if len(entry.Changes) == 0 || entry.Changes[0].Field != "messages" {
		return nil, nil
	}
	change := entry.Changes[0]

	if len(change.Value.Messages) == 0 {
		return nil, nil
	}
	data := change.Value.Messages[0]

	if !acceptedTypes[stringField(data, "type")] {
		return nil, nil
	}

	client, err := w.UseNumberID(change.Value.Metadata.PhoneNumberID)
	if err != nil {
		return nil, err
	}

	msg := newMessage(data, client)
	notifyReceived(w.observer, w.logger, msg)
	return msg, nil
}

// MessageHandler is invoked for each inbound message parsed from a webhook.
type MessageHandler func(msg *Message)

// WebhookHandler exposes the Meta webhook endpoints over HTTP.
type WebhookHandler struct {
	wa          *Whatsapp
	verifyToken string
	onMessage   MessageHandler
}

func NewWebhookHandler(wa *Whatsapp, verifyToken string, onMessage MessageHandler) *WebhookHandler {
	return &WebhookHandler{
		wa:          wa,
		verifyToken: verifyToken,
		onMessage:   onMessage,
	}
}

// HandleVerify handles the GET webhook verification from Meta.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/get-started#webhook-verification
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications. Meta requires
// a fast 200; processing happens synchronously here and failures other than
// account resolution are answered 200 so Meta does not retry them.
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg, err := h.wa.HandleWebhook(raw)
	if err != nil {
		h.wa.logger.Error().Err(err).Msg("webhook: handling failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if msg != nil && h.onMessage != nil {
		h.onMessage(msg)
	}

	w.WriteHeader(http.StatusOK)
}
