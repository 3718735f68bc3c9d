package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Client is an immutable view of one account's credentials plus the transport
// needed to talk to the Graph API. Obtain one per operation via
// Whatsapp.UseNumberID; a zero Client fails every call with ErrNotConfigured.
type Client struct {
	account     Account
	baseURL     string
	http        *http.Client
	logger      zerolog.Logger
	observer    Observer
	readOnReply ReadOnReply
}

// Account returns the credentials the client is bound to.
func (c *Client) Account() Account {
	return c.account
}

// SendMessage composes and sends one message. Content may be a string, a
// *Content, or a map using the Content field names. It returns the
// provider-assigned message ID.
func (c *Client) SendMessage(ctx context.Context, to string, content any) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}

	cnt, err := NormalizeContent(content)
	if err != nil {
		return "", err
	}

	payload, err := Compose(cnt, c.account.CatalogID)
	if err != nil {
		return "", err
	}

	return c.send(ctx, to, payload)
}

// SendMedia sends a media message by link. mediaType must be one of image,
// video, audio, document.
func (c *Client) SendMedia(ctx context.Context, to, mediaType, mediaURL, caption string) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}

	link := &MediaLink{Link: mediaURL, Caption: caption}
	payload := &Payload{Type: mediaType}
	switch mediaType {
	case "image":
		payload.Image = link
	case "video":
		payload.Video = link
	case "audio":
		payload.Audio = link
	case "document":
		payload.Document = link
	default:
		return "", fmt.Errorf("media type %q: %w", mediaType, ErrUnsupportedContent)
	}

	return c.send(ctx, to, payload)
}

// SendTemplate sends a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, to, name, languageCode string, components []any) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}

	payload := &Payload{
		Type: "template",
		Template: &Template{
			Name:       name,
			Language:   Language{Code: languageCode},
			Components: components,
		},
	}

	return c.send(ctx, to, payload)
}

// MarkMessageAsRead sends a read receipt for an inbound message.
func (c *Client) MarkMessageAsRead(ctx context.Context, phone, messageID string) error {
	if err := c.configured(); err != nil {
		return err
	}

	_, err := c.send(ctx, phone, &Payload{Status: "read", MessageID: messageID})
	return err
}

// GetMedia fetches the metadata (including the short-lived download URL) for
// a media ID received in a webhook.
func (c *Client) GetMedia(ctx context.Context, mediaID string) (*MediaMetadata, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+mediaID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.account.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching media %s: %w", mediaID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var meta MediaMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decoding media metadata: %w", err)
	}
	return &meta, nil
}

// DownloadMedia fetches the bytes behind a media URL returned by GetMedia.
// The URL is only valid for a few minutes and requires the account token.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.account.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return io.ReadAll(resp.Body)
}

// send stamps the envelope fields and posts the payload to the messages
// endpoint. On success it returns messages[0].id (empty for read receipts).
func (c *Client) send(ctx context.Context, to string, payload *Payload) (string, error) {
	payload.To = to
	payload.MessagingProduct = "whatsapp"
	payload.RecipientType = "individual"

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.account.NumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.account.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending message to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding send response: %w", err)
	}

	var messageID string
	if len(result.Messages) > 0 {
		messageID = result.Messages[0].ID
	}

	c.logger.Debug().Str("to", to).Str("type", payload.Type).Str("message_id", messageID).Msg("message sent")

	// Read receipts are plumbing, not messages; they are not observable events.
	if payload.Status == "" {
		notifySent(c.observer, c.logger, to, payload, messageID)
	}

	return messageID, nil
}

func (c *Client) configured() error {
	if c.account.Token == "" || c.account.NumberID == "" {
		return ErrNotConfigured
	}
	return nil
}
