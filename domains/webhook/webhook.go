package webhook

import "context"

// MessageType classifies an incoming provider message. Anything beyond the
// supported media kinds collapses to TypeOther and is stored text-only.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeDocument MessageType = "document"
	TypeVideo    MessageType = "video"
	TypeAudio    MessageType = "audio"
	TypeOther    MessageType = "other"
)

// MessageReceived is the typed sub-event for one entry of the envelope's
// messages[] array. Phone is already normalized; ProfileName comes from the
// contacts[] block of the same envelope, when present.
type MessageReceived struct {
	Sender            string
	Phone             string
	ProviderMessageID string
	Type              MessageType
	Text              string
	MediaID           string
	ProfileName       string
}

// StatusUpdate is the typed sub-event for one entry of statuses[].
type StatusUpdate struct {
	ProviderMessageID string
	Status            string
}

// Events holds the sub-events of one envelope. The dispatcher guarantees
// messages are applied before statuses from the same payload; the
// reconciler tolerates the ordering being violated across payloads.
type Events struct {
	Messages []MessageReceived
	Statuses []StatusUpdate
}

// VerifyResult describes the outcome of the provider handshake.
type VerifyResult struct {
	// OK means mode was "subscribe" and the token matched; Challenge must
	// be echoed verbatim with HTTP 200.
	OK        bool
	Challenge string
	// Diagnostic is set when all three handshake inputs were absent (manual
	// browser GET); returned as a 200 payload instead of a mismatch error.
	Diagnostic map[string]any
}

type IWebhookUsecase interface {
	Verify(mode, verifyToken, challenge string) VerifyResult
	// ProcessEnvelope parses and applies one webhook delivery. Only a
	// malformed top-level payload returns an error; per-sub-event failures
	// are logged and isolated so the provider never retries on our internal
	// problems.
	ProcessEnvelope(ctx context.Context, body []byte) error
}
