package whatsapp

import (
	"encoding/json"
	"fmt"
	"strings"

	domainWebhook "github.com/wadesk/wadesk/domains/webhook"
	"github.com/wadesk/wadesk/pkg/phone"
)

// Webhook envelope structures, per the Cloud API shape:
// entry[].changes[].value with optional messages[], statuses[], contacts[].

type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string               `json:"messaging_product"`
	Metadata         Metadata             `json:"metadata"`
	Contacts         []EnvelopeContact    `json:"contacts,omitempty"`
	Messages         []IncomingMessage    `json:"messages,omitempty"`
	Statuses         []StatusNotification `json:"statuses,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type EnvelopeContact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

type ContactProfile struct {
	Name string `json:"name"`
}

type IncomingMessage struct {
	From      string         `json:"from"`
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Type      string         `json:"type"`
	Text      *IncomingText  `json:"text,omitempty"`
	Image     *IncomingMedia `json:"image,omitempty"`
	Document  *IncomingMedia `json:"document,omitempty"`
	Video     *IncomingMedia `json:"video,omitempty"`
	Audio     *IncomingMedia `json:"audio,omitempty"`
}

type IncomingText struct {
	Body string `json:"body"`
}

type IncomingMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type StatusNotification struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ParseEnvelope turns one webhook delivery into typed sub-events. Raw maps
// never leave this package. Message events are emitted before status events
// so a status riding in the same payload finds its message row already
// created; the reconciler stays correct when a status arrives first in a
// separate delivery.
func ParseEnvelope(body []byte) (domainWebhook.Events, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domainWebhook.Events{}, fmt.Errorf("malformed webhook envelope: %w", err)
	}

	var events domainWebhook.Events
	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			// contacts[] first: a message and a status can share one
			// envelope, and the profile name rides on contacts.
			names := make(map[string]string, len(value.Contacts))
			for _, contact := range value.Contacts {
				if contact.WaID != "" && contact.Profile.Name != "" {
					names[contact.WaID] = contact.Profile.Name
				}
			}

			for _, msg := range value.Messages {
				ev := domainWebhook.MessageReceived{
					Sender:            msg.From,
					Phone:             phone.Normalize(msg.From),
					ProviderMessageID: msg.ID,
					ProfileName:       names[msg.From],
				}
				ev.Type, ev.Text, ev.MediaID = classify(msg)
				events.Messages = append(events.Messages, ev)
			}

			for _, st := range value.Statuses {
				events.Statuses = append(events.Statuses, domainWebhook.StatusUpdate{
					ProviderMessageID: st.ID,
					Status:            strings.TrimSpace(st.Status),
				})
			}
		}
	}
	return events, nil
}

func classify(msg IncomingMessage) (domainWebhook.MessageType, string, string) {
	switch msg.Type {
	case "text":
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		return domainWebhook.TypeText, body, ""
	case "image":
		return mediaEvent(domainWebhook.TypeImage, msg.Image)
	case "document":
		return mediaEvent(domainWebhook.TypeDocument, msg.Document)
	case "video":
		return mediaEvent(domainWebhook.TypeVideo, msg.Video)
	case "audio":
		return mediaEvent(domainWebhook.TypeAudio, msg.Audio)
	default:
		// Unsupported types (location, contacts, reactions...) become a
		// text-only record so the conversation history stays complete.
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		return domainWebhook.TypeOther, body, ""
	}
}

func mediaEvent(t domainWebhook.MessageType, m *IncomingMedia) (domainWebhook.MessageType, string, string) {
	if m == nil {
		return t, "", ""
	}
	return t, m.Caption, m.ID
}
