package whatsapp

import "encoding/json"

// Content describes an outbound message in a provider-agnostic way. Exactly one
// variant is picked during composition: buttons, products (results/related),
// list, flow, or plain text, in that order of precedence.
type Content struct {
	Text    string `json:"text,omitempty"`
	Header  string `json:"header,omitempty"`
	Caption string `json:"caption,omitempty"`

	// Context is the ID of a prior message; when set, the outbound message is
	// threaded as a reply to it.
	Context string `json:"context,omitempty"`

	Buttons []string `json:"buttons,omitempty"`

	List            []string   `json:"list,omitempty"`
	DescriptionList []ListItem `json:"description_list,omitempty"`
	ListTitle       string     `json:"list_title,omitempty"`
	ListButtonTitle string     `json:"list_button_title,omitempty"`

	Results      []string `json:"results,omitempty"`
	ResultsTitle string   `json:"results_title,omitempty"`
	Related      []string `json:"related,omitempty"`
	RelatedTitle string   `json:"related_title,omitempty"`

	Flow *FlowContent `json:"flow,omitempty"`
}

// ListItem is one row of a description list.
type ListItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// FlowContent describes a WhatsApp Flow to launch.
type FlowContent struct {
	Mode   string         `json:"mode,omitempty"`
	Token  string         `json:"token"`
	ID     string         `json:"id"`
	CTA    string         `json:"cta"`
	Action string         `json:"action"`
	Screen string         `json:"screen"`
	Data   map[string]any `json:"data,omitempty"`
}

// NormalizeContent converts the literal shapes accepted at the API boundary
// into a Content value. Plain strings become text messages; maps are decoded
// using the Content JSON field names. Anything else is rejected with
// ErrUnsupportedContent.
func NormalizeContent(v any) (*Content, error) {
	switch c := v.(type) {
	case nil:
		return nil, ErrUnsupportedContent
	case string:
		return &Content{Text: c}, nil
	case *Content:
		if c == nil {
			return nil, ErrUnsupportedContent
		}
		return c, nil
	case Content:
		return &c, nil
	case map[string]any:
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, ErrUnsupportedContent
		}
		var out Content
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, ErrUnsupportedContent
		}
		return &out, nil
	default:
		return nil, ErrUnsupportedContent
	}
}
