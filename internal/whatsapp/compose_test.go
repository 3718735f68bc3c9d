package whatsapp_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lojasmm/whatsapp/internal/whatsapp"
)

func TestComposePlainText(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{Text: "hi"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Type != "text" {
		t.Fatalf("expected type text, got %q", payload.Type)
	}
	if payload.Text == nil || payload.Text.Body != "hi" {
		t.Fatalf("unexpected text body: %+v", payload.Text)
	}
	if payload.Interactive != nil {
		t.Fatalf("plain text must not carry an interactive object")
	}
}

func TestComposePlainTextDecoration(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{Text: "hi", Header: "H", Caption: "C"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "*H*\nhi\n\n_C_"
	if payload.Text.Body != want {
		t.Fatalf("expected body %q, got %q", want, payload.Text.Body)
	}
}

func TestComposeButtons(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text:    "pick one",
		Header:  "H",
		Caption: "C",
		Buttons: []string{"Yes", "No"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Type != "interactive" || payload.Interactive.Type != "button" {
		t.Fatalf("expected interactive button, got %+v", payload)
	}
	if got := payload.Interactive.Body.Text; got != "pick one" {
		t.Fatalf("expected body text untouched for interactive, got %q", got)
	}
	buttons := payload.Interactive.Action.Buttons
	if len(buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(buttons))
	}
	if buttons[0].Type != "reply" || buttons[0].Reply.ID != "Yes" || buttons[0].Reply.Title != "Yes" {
		t.Fatalf("unexpected button: %+v", buttons[0])
	}
	if payload.Interactive.Header == nil || payload.Interactive.Header.Type != "text" || payload.Interactive.Header.Text != "H" {
		t.Fatalf("expected text header, got %+v", payload.Interactive.Header)
	}
	if payload.Interactive.Footer == nil || payload.Interactive.Footer.Text != "C" {
		t.Fatalf("expected footer, got %+v", payload.Interactive.Footer)
	}
}

func TestComposeVariantPriority(t *testing.T) {
	content := &whatsapp.Content{
		Text:    "all at once",
		Buttons: []string{"b"},
		Results: []string{"p1"},
		List:    []string{"l1"},
		Flow:    &whatsapp.FlowContent{Token: "t", ID: "1", CTA: "Open", Action: "navigate", Screen: "S"},
	}

	payload, err := whatsapp.Compose(content, "cat1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Interactive.Type != "button" {
		t.Fatalf("buttons must win, got %q", payload.Interactive.Type)
	}

	content.Buttons = nil
	if payload, err = whatsapp.Compose(content, "cat1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Interactive.Type != "product_list" {
		t.Fatalf("products must win over list, got %q", payload.Interactive.Type)
	}

	content.Results = nil
	if payload, err = whatsapp.Compose(content, "cat1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Interactive.Type != "list" {
		t.Fatalf("list must win over flow, got %q", payload.Interactive.Type)
	}

	content.List = nil
	if payload, err = whatsapp.Compose(content, "cat1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Interactive.Type != "flow" {
		t.Fatalf("expected flow, got %q", payload.Interactive.Type)
	}
}

func TestComposeProductList(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text:         "our picks",
		Results:      []string{"p1", "p2"},
		ResultsTitle: "Results",
		Related:      []string{"r1"},
		RelatedTitle: "Related",
	}, "cat1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	action := payload.Interactive.Action
	if action.CatalogID != "cat1" {
		t.Fatalf("expected catalog cat1, got %q", action.CatalogID)
	}
	if len(action.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(action.Sections))
	}
	if action.Sections[0].Title != "Results" || len(action.Sections[0].ProductItems) != 2 {
		t.Fatalf("unexpected results section: %+v", action.Sections[0])
	}
	if action.Sections[1].ProductItems[0].ProductRetailerID != "r1" {
		t.Fatalf("unexpected related section: %+v", action.Sections[1])
	}
}

func TestComposeProductListNoCatalog(t *testing.T) {
	_, err := whatsapp.Compose(&whatsapp.Content{Results: []string{"p1", "p2"}}, "")
	if !errors.Is(err, whatsapp.ErrNoCatalog) {
		t.Fatalf("expected ErrNoCatalog, got %v", err)
	}
}

func TestComposeProductListEmpty(t *testing.T) {
	_, err := whatsapp.Compose(&whatsapp.Content{Results: []string{}}, "cat1")
	if !errors.Is(err, whatsapp.ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
}

func TestComposeProductListTooMany(t *testing.T) {
	results := make([]string, 16)
	related := make([]string, 15)
	for i := range results {
		results[i] = "p"
	}
	for i := range related {
		related[i] = "r"
	}
	_, err := whatsapp.Compose(&whatsapp.Content{Results: results, Related: related}, "cat1")
	if !errors.Is(err, whatsapp.ErrTooManyProducts) {
		t.Fatalf("expected ErrTooManyProducts for 31 items, got %v", err)
	}
}

func TestComposeSimpleList(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text:            "choose",
		List:            []string{"a", "b"},
		ListTitle:       "Options",
		ListButtonTitle: "Open",
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	action := payload.Interactive.Action
	if action.Button != "Open" {
		t.Fatalf("expected list button title, got %q", action.Button)
	}
	if len(action.Sections) != 1 || action.Sections[0].Title != "Options" {
		t.Fatalf("unexpected sections: %+v", action.Sections)
	}
	rows := action.Sections[0].Rows
	if len(rows) != 2 || rows[0].ID != "a" || rows[0].Title != "a" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestComposeDescriptionList(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text: "choose",
		DescriptionList: []whatsapp.ListItem{
			{ID: "1", Title: "First", Description: "the first"},
			{ID: "2", Title: "Second"},
		},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := payload.Interactive.Action.Sections[0].Rows
	if rows[0].ID != "1" || rows[0].Title != "First" || rows[0].Description != "the first" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[1].Description != "" {
		t.Fatalf("description must stay optional, got %q", rows[1].Description)
	}
}

func TestComposeSimpleListWinsOverDescriptionList(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text:            "choose",
		List:            []string{"simple"},
		DescriptionList: []whatsapp.ListItem{{ID: "x", Title: "ignored"}},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := payload.Interactive.Action.Sections[0].Rows
	if len(rows) != 1 || rows[0].ID != "simple" {
		t.Fatalf("simple list must win, got %+v", rows)
	}
}

func TestComposeFlow(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text: "start",
		Flow: &whatsapp.FlowContent{
			Token:  "tok",
			ID:     "flow-1",
			CTA:    "Start",
			Action: "navigate",
			Screen: "WELCOME",
			Data:   map[string]any{"step": "one"},
		},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := payload.Interactive.Action.Parameters
	if payload.Interactive.Action.Name != "flow" {
		t.Fatalf("expected action name flow, got %q", payload.Interactive.Action.Name)
	}
	if params.Mode != "published" {
		t.Fatalf("expected default mode published, got %q", params.Mode)
	}
	if params.FlowMessageVersion != "3" {
		t.Fatalf("expected flow_message_version 3, got %q", params.FlowMessageVersion)
	}
	if params.FlowToken != "tok" || params.FlowID != "flow-1" || params.FlowCTA != "Start" || params.FlowAction != "navigate" {
		t.Fatalf("unexpected flow parameters: %+v", params)
	}
	if params.FlowActionPayload.Screen != "WELCOME" || params.FlowActionPayload.Data["step"] != "one" {
		t.Fatalf("unexpected flow action payload: %+v", params.FlowActionPayload)
	}
}

func TestComposeFlowOmitsAbsentData(t *testing.T) {
	payload, err := whatsapp.Compose(&whatsapp.Content{
		Text: "start",
		Flow: &whatsapp.FlowContent{Token: "tok", ID: "1", CTA: "Go", Action: "navigate", Screen: "S"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), `"data"`) {
		t.Fatalf("absent flow data must be omitted from the wire payload: %s", raw)
	}
}

func TestComposeFlowCTATooLong(t *testing.T) {
	_, err := whatsapp.Compose(&whatsapp.Content{
		Text: "start",
		Flow: &whatsapp.FlowContent{Token: "tok", ID: "1", CTA: "this is way too long for a cta button", Action: "navigate", Screen: "S"},
	}, "")
	if !errors.Is(err, whatsapp.ErrFlowCTATooLong) {
		t.Fatalf("expected ErrFlowCTATooLong, got %v", err)
	}
}

func TestComposeContextThreading(t *testing.T) {
	cases := map[string]*whatsapp.Content{
		"text":    {Text: "hi", Context: "abc123"},
		"buttons": {Text: "hi", Buttons: []string{"b"}, Context: "abc123"},
		"list":    {Text: "hi", List: []string{"a"}, Context: "abc123"},
		"flow":    {Text: "hi", Flow: &whatsapp.FlowContent{Token: "t", ID: "1", CTA: "Go", Action: "navigate", Screen: "S"}, Context: "abc123"},
	}
	for name, content := range cases {
		payload, err := whatsapp.Compose(content, "cat1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if payload.Context == nil || payload.Context.MessageID != "abc123" {
			t.Fatalf("%s: expected context message_id abc123, got %+v", name, payload.Context)
		}
	}
}

func TestComposeNilContent(t *testing.T) {
	if _, err := whatsapp.Compose(nil, ""); !errors.Is(err, whatsapp.ErrUnsupportedContent) {
		t.Fatalf("expected ErrUnsupportedContent, got %v", err)
	}
}
