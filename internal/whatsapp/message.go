package whatsapp

import (
	"context"
	"fmt"
)

// Message is the normalized view over one inbound webhook message. It is
// immutable after construction and carries the client resolved for the
// receiving account, so replies go out through the right credentials.
type Message struct {
	From     string
	ID       string
	Type     string
	Text     string
	MediaID  string
	Media    map[string]any
	IsButton bool
	IsOrder  bool

	client *Client
}

func newMessage(data map[string]any, client *Client) *Message {
	msg := &Message{
		From:   stringField(data, "from"),
		ID:     stringField(data, "id"),
		Type:   stringField(data, "type"),
		client: client,
	}

	// The type-specific sub-object lives under a key named after the type.
	media, _ := data[msg.Type].(map[string]any)
	msg.Media = media

	subtype := stringField(media, "type")
	if subtype == "" {
		subtype = "__"
	}

	msg.MediaID = stringPath(media, subtype, "id")
	if msg.MediaID == "" {
		msg.MediaID = stringField(media, "id")
	}

	// Text precedence: body (text messages), caption (media), then the
	// subtype's title (interactive replies).
	for _, candidate := range []string{
		stringField(media, "body"),
		stringField(media, "caption"),
		stringPath(media, subtype, "title"),
	} {
		if candidate != "" {
			msg.Text = candidate
			break
		}
	}

	msg.IsButton = subtype == "button_reply"
	msg.IsOrder = msg.Type == "order"

	return msg
}

// Reply sends content back to the message's sender. Depending on the
// configured ReadOnReply mode the inbound message is marked read first.
func (m *Message) Reply(ctx context.Context, content any) (string, error) {
	if err := m.markReadForReply(ctx); err != nil {
		return "", err
	}
	return m.client.SendMessage(ctx, m.From, content)
}

// ReplyWithMedia replies with a media message by link.
func (m *Message) ReplyWithMedia(ctx context.Context, mediaType, mediaURL, caption string) (string, error) {
	if err := m.markReadForReply(ctx); err != nil {
		return "", err
	}
	return m.client.SendMedia(ctx, m.From, mediaType, mediaURL, caption)
}

// ReplyWithTemplate replies with a pre-approved template message.
func (m *Message) ReplyWithTemplate(ctx context.Context, name, languageCode string, components []any) (string, error) {
	if err := m.markReadForReply(ctx); err != nil {
		return "", err
	}
	return m.client.SendTemplate(ctx, m.From, name, languageCode, components)
}

// ReplyWithProducts replies with a product list. The content must carry
// results or related product IDs.
func (m *Message) ReplyWithProducts(ctx context.Context, content any) (string, error) {
	cnt, err := NormalizeContent(content)
	if err != nil {
		return "", err
	}
	if cnt.Results == nil && cnt.Related == nil {
		return "", ErrNoProducts
	}
	return m.Reply(ctx, cnt)
}

// MarkAsRead sends a read receipt for this message.
func (m *Message) MarkAsRead(ctx context.Context) error {
	return m.client.MarkMessageAsRead(ctx, m.From, m.ID)
}

// GetMediaContent fetches the metadata for the message's media, or nil when
// the message carries none.
func (m *Message) GetMediaContent(ctx context.Context) (*MediaMetadata, error) {
	if m.MediaID == "" {
		return nil, nil
	}
	return m.client.GetMedia(ctx, m.MediaID)
}

func (m *Message) IsText() bool {
	return m.Type == "text"
}

func (m *Message) IsMedia() bool {
	switch m.Type {
	case "image", "video", "audio", "document":
		return true
	}
	return false
}

func (m *Message) IsLocation() bool {
	return m.Type == "location"
}

func (m *Message) IsContact() bool {
	return m.Type == "contacts"
}

func (m *Message) markReadForReply(ctx context.Context) error {
	switch m.client.readOnReply {
	case ReadOnReplyOff:
		return nil
	case ReadOnReplyStrict:
		if err := m.MarkAsRead(ctx); err != nil {
			return fmt.Errorf("marking message %s as read: %w", m.ID, err)
		}
		return nil
	default:
		if err := m.MarkAsRead(ctx); err != nil {
			m.client.logger.Warn().Err(err).Str("message_id", m.ID).Msg("read receipt failed")
		}
		return nil
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func stringPath(m map[string]any, key, nested string) string {
	sub, _ := m[key].(map[string]any)
	return stringField(sub, nested)
}
