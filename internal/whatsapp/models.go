package whatsapp

// --- Incoming webhook payload ---
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/webhooks/components

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Value ChangeValue `json:"value"`
	Field string      `json:"field"`
}

// Messages are kept loosely typed: the interesting sub-object lives under a
// key named after the message type ("text", "image", "order", ...) and its
// shape varies per type.
type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts"`
	Messages         []map[string]any `json:"messages"`
	Statuses         []Status         `json:"statuses"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	Profile Profile `json:"profile"`
	WaID    string  `json:"wa_id"`
}

type Profile struct {
	Name string `json:"name"`
}

type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// --- Outgoing message payload ---
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/messages

// Payload is the provider wire format for one outbound message. Exactly one
// of the type-specific fields is set, matching Type.
type Payload struct {
	MessagingProduct string       `json:"messaging_product,omitempty"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to,omitempty"`
	Type             string       `json:"type,omitempty"`
	Context          *MessageRef  `json:"context,omitempty"`
	Text             *SendText    `json:"text,omitempty"`
	Interactive      *Interactive `json:"interactive,omitempty"`
	Image            *MediaLink   `json:"image,omitempty"`
	Video            *MediaLink   `json:"video,omitempty"`
	Audio            *MediaLink   `json:"audio,omitempty"`
	Document         *MediaLink   `json:"document,omitempty"`
	Template         *Template    `json:"template,omitempty"`

	// Read receipts reuse the messages endpoint with a different shape.
	Status    string `json:"status,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// MessageRef threads a message as a reply to a prior message ID.
type MessageRef struct {
	MessageID string `json:"message_id"`
}

type SendText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type MediaLink struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type Template struct {
	Name       string   `json:"name"`
	Language   Language `json:"language"`
	Components []any    `json:"components"`
}

type Language struct {
	Code string `json:"code"`
}

type Interactive struct {
	Type   string             `json:"type"`
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   *InteractiveBody   `json:"body,omitempty"`
	Footer *InteractiveFooter `json:"footer,omitempty"`
	Action *InteractiveAction `json:"action,omitempty"`
}

type InteractiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveFooter struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Button     string          `json:"button,omitempty"`
	Buttons    []Button        `json:"buttons,omitempty"`
	CatalogID  string          `json:"catalog_id,omitempty"`
	Sections   []Section       `json:"sections,omitempty"`
	Name       string          `json:"name,omitempty"`
	Parameters *FlowParameters `json:"parameters,omitempty"`
}

// Section carries rows for list messages or product items for product lists.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/messages/interactive-list-messages
type Section struct {
	Title        string        `json:"title,omitempty"`
	Rows         []SectionRow  `json:"rows,omitempty"`
	ProductItems []ProductItem `json:"product_items,omitempty"`
}

type SectionRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ProductItem struct {
	ProductRetailerID string `json:"product_retailer_id"`
}

type Button struct {
	Type  string      `json:"type"`
	Reply ButtonReply `json:"reply"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type FlowParameters struct {
	Mode               string             `json:"mode"`
	FlowMessageVersion string             `json:"flow_message_version"`
	FlowToken          string             `json:"flow_token"`
	FlowID             string             `json:"flow_id"`
	FlowCTA            string             `json:"flow_cta"`
	FlowAction         string             `json:"flow_action"`
	FlowActionPayload  *FlowActionPayload `json:"flow_action_payload"`
}

type FlowActionPayload struct {
	Screen string         `json:"screen"`
	Data   map[string]any `json:"data,omitempty"`
}

// --- Media metadata ---
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/reference/media

type MediaMetadata struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}
