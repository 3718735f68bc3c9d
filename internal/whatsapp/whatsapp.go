package whatsapp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultAPIURL = "https://graph.facebook.com/v21.0"

// ReadOnReply controls whether Message.Reply* marks the inbound message as
// read before sending, and how a failed receipt is treated.
type ReadOnReply int

const (
	// ReadOnReplyBestEffort sends the receipt and logs a failure without
	// failing the reply.
	ReadOnReplyBestEffort ReadOnReply = iota
	// ReadOnReplyOff never sends a receipt.
	ReadOnReplyOff
	// ReadOnReplyStrict fails the reply when the receipt fails.
	ReadOnReplyStrict
)

// Whatsapp is the entry point of the adapter. It resolves accounts and hands
// out one immutable Client per outbound operation, so concurrent webhook
// deliveries never share credentials.
type Whatsapp struct {
	resolver    AccountResolver
	baseURL     string
	http        *http.Client
	logger      zerolog.Logger
	observer    Observer
	readOnReply ReadOnReply
}

type Option func(*Whatsapp)

// WithBaseURL overrides the Graph API base URL, mainly for tests.
func WithBaseURL(url string) Option {
	return func(w *Whatsapp) { w.baseURL = url }
}

func WithHTTPClient(client *http.Client) Option {
	return func(w *Whatsapp) { w.http = client }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Whatsapp) { w.logger = logger }
}

// WithObserver registers lifecycle hooks for received and sent messages.
func WithObserver(obs Observer) Option {
	return func(w *Whatsapp) {
		if obs != nil {
			w.observer = obs
		}
	}
}

func WithReadOnReply(mode ReadOnReply) Option {
	return func(w *Whatsapp) { w.readOnReply = mode }
}

func New(resolver AccountResolver, opts ...Option) *Whatsapp {
	w := &Whatsapp{
		resolver: resolver,
		baseURL:  defaultAPIURL,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   zerolog.Nop(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UseNumberID resolves the account for a phone number ID and returns a client
// bound to it.
func (w *Whatsapp) UseNumberID(numberID string) (*Client, error) {
	account, err := w.resolver.Resolve(numberID)
	if err != nil {
		return nil, fmt.Errorf("resolving account for number ID %s: %w", numberID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("number ID %s: %w", numberID, ErrAccountNotFound)
	}
	return &Client{
		account:     *account,
		baseURL:     w.baseURL,
		http:        w.http,
		logger:      w.logger.With().Str("number_id", account.NumberID).Logger(),
		observer:    w.observer,
		readOnReply: w.readOnReply,
	}, nil
}
