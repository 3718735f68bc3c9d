package whatsapp

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound is returned when the resolver has no account for a phone number ID.
	ErrAccountNotFound = errors.New("whatsapp account not found")

	// ErrNotConfigured is returned when a send is attempted before an account is bound.
	ErrNotConfigured = errors.New("whatsapp account not configured")

	// ErrNoCatalog is returned when a product message is composed for an account without a catalog.
	ErrNoCatalog = errors.New("no catalog configured for account")

	// ErrNoProducts is returned when a product message carries no items.
	ErrNoProducts = errors.New("no products found")

	// ErrTooManyProducts is returned when a product message exceeds the provider limit.
	ErrTooManyProducts = errors.New("too many products")

	// ErrFlowCTATooLong is returned when a flow CTA exceeds the provider limit.
	ErrFlowCTATooLong = errors.New("flow cta exceeds 20 characters")

	// ErrUnsupportedContent is returned when content cannot be normalized into a message.
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// APIError carries the provider's status code and response body for a failed call.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp API status %d: %s", e.StatusCode, e.Body)
}
