package whatsapp

// Provider limits.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/reference/messages#interactive-object
const (
	maxProductItems  = 30
	maxFlowCTALength = 20
)

// Compose builds one outbound payload from a content description. It is a pure
// function: the only inputs are the content and the account's catalog ID.
//
// The interactive variants are tried in fixed order, first match wins:
// buttons, product list, list, flow. When none match the content is sent as
// plain text with the header and caption inlined into the body. Interactive
// variants instead carry header/caption in dedicated header/footer fields.
func Compose(content *Content, catalogID string) (*Payload, error) {
	if content == nil {
		return nil, ErrUnsupportedContent
	}

	msg, err := composeInteractive(content, catalogID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		msg = composeText(content)
	}

	if content.Context != "" {
		msg.Context = &MessageRef{MessageID: content.Context}
	}
	return msg, nil
}

func composeInteractive(content *Content, catalogID string) (*Payload, error) {
	switch {
	case len(content.Buttons) > 0:
		return composeButtons(content), nil
	case content.Results != nil || content.Related != nil:
		// Presence counts even when empty so that an explicitly empty product
		// set surfaces ErrNoProducts instead of degrading to a text message.
		return composeProductList(content, catalogID)
	case len(content.List) > 0 || len(content.DescriptionList) > 0:
		return composeList(content), nil
	case content.Flow != nil:
		return composeFlow(content)
	default:
		return nil, nil
	}
}

func composeButtons(content *Content) *Payload {
	buttons := make([]Button, len(content.Buttons))
	for i, btn := range content.Buttons {
		buttons[i] = Button{Type: "reply", Reply: ButtonReply{ID: btn, Title: btn}}
	}

	interactive := &Interactive{
		Type:   "button",
		Body:   &InteractiveBody{Text: content.Text},
		Action: &InteractiveAction{Buttons: buttons},
	}
	addHeaderAndFooter(interactive, content)

	return &Payload{Type: "interactive", Interactive: interactive}
}

func composeProductList(content *Content, catalogID string) (*Payload, error) {
	if catalogID == "" {
		return nil, ErrNoCatalog
	}

	total := len(content.Results) + len(content.Related)
	if total == 0 {
		return nil, ErrNoProducts
	}
	if total > maxProductItems {
		return nil, ErrTooManyProducts
	}

	var sections []Section
	if len(content.Results) > 0 {
		sections = append(sections, productSection(content.Results, content.ResultsTitle))
	}
	if len(content.Related) > 0 {
		sections = append(sections, productSection(content.Related, content.RelatedTitle))
	}

	interactive := &Interactive{
		Type: "product_list",
		Body: &InteractiveBody{Text: content.Text},
		Action: &InteractiveAction{
			CatalogID: catalogID,
			Sections:  sections,
		},
	}
	addHeaderAndFooter(interactive, content)

	return &Payload{Type: "interactive", Interactive: interactive}, nil
}

func productSection(productIDs []string, title string) Section {
	items := make([]ProductItem, len(productIDs))
	for i, id := range productIDs {
		items[i] = ProductItem{ProductRetailerID: id}
	}
	return Section{Title: title, ProductItems: items}
}

func composeList(content *Content) *Payload {
	var rows []SectionRow
	if len(content.List) > 0 {
		rows = make([]SectionRow, len(content.List))
		for i, item := range content.List {
			rows[i] = SectionRow{ID: item, Title: item}
		}
	} else {
		rows = make([]SectionRow, len(content.DescriptionList))
		for i, item := range content.DescriptionList {
			rows[i] = SectionRow{ID: item.ID, Title: item.Title, Description: item.Description}
		}
	}

	interactive := &Interactive{
		Type: "list",
		Body: &InteractiveBody{Text: content.Text},
		Action: &InteractiveAction{
			Button:   content.ListButtonTitle,
			Sections: []Section{{Title: content.ListTitle, Rows: rows}},
		},
	}
	addHeaderAndFooter(interactive, content)

	return &Payload{Type: "interactive", Interactive: interactive}
}

func composeFlow(content *Content) (*Payload, error) {
	flow := content.Flow
	if len(flow.CTA) > maxFlowCTALength {
		return nil, ErrFlowCTATooLong
	}

	mode := flow.Mode
	if mode == "" {
		mode = "published"
	}

	interactive := &Interactive{
		Type: "flow",
		Body: &InteractiveBody{Text: content.Text},
		Action: &InteractiveAction{
			Name: "flow",
			Parameters: &FlowParameters{
				Mode:               mode,
				FlowMessageVersion: "3",
				FlowToken:          flow.Token,
				FlowID:             flow.ID,
				FlowCTA:            flow.CTA,
				FlowAction:         flow.Action,
				FlowActionPayload: &FlowActionPayload{
					Screen: flow.Screen,
					Data:   flow.Data,
				},
			},
		},
	}
	addHeaderAndFooter(interactive, content)

	return &Payload{Type: "interactive", Interactive: interactive}, nil
}

// Plain text has no header/footer fields on the wire, so the decoration is
// inlined using WhatsApp markdown: bold header, italic caption.
func composeText(content *Content) *Payload {
	body := content.Text
	if content.Header != "" {
		body = "*" + content.Header + "*\n" + body
	}
	if content.Caption != "" {
		body = body + "\n\n_" + content.Caption + "_"
	}
	return &Payload{Type: "text", Text: &SendText{Body: body}}
}

func addHeaderAndFooter(interactive *Interactive, content *Content) {
	if content.Header != "" {
		interactive.Header = &InteractiveHeader{Type: "text", Text: content.Header}
	}
	if content.Caption != "" {
		interactive.Footer = &InteractiveFooter{Text: content.Caption}
	}
}
