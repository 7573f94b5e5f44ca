package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadesk/wadesk/core/config"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	domainSend "github.com/wadesk/wadesk/domains/send"
)

const graphBaseURL = "https://graph.facebook.com"

var (
	// ErrNoAccessToken: no credential row and no env fallback; the
	// operator has to configure a token before outbound sends can work.
	ErrNoAccessToken = errors.New("no whatsapp access token configured")
	// ErrNoProviderMessageID: the provider accepted the request but the
	// response did not carry messages[0].id.
	ErrNoProviderMessageID = errors.New("send response has no provider message id")
)

// SendResponse is the single typed schema for the provider's send endpoint.
// Anything that does not fit is a parse error, not a reason to go spelunking
// through alternative shapes.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FbtraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// SendResult is what callers thread into the outbound Message row.
type SendResult struct {
	ProviderMessageID string
}

// Client talks to the Cloud API messages endpoint for one phone number id.
type Client struct {
	apiVersion    string
	phoneNumberID string
	credentials   domainCredential.ICredentialUsecase
	http          *http.Client
}

func NewClient(cfg config.WhatsappConfig, credentials domainCredential.ICredentialUsecase, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.HTTPTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiVersion:    cfg.APIVersion,
		phoneNumberID: cfg.PhoneNumberID,
		credentials:   credentials,
		http:          httpClient,
	}
}

func (c *Client) SendText(ctx context.Context, phone, body string) (SendResult, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "text",
		"text":              map[string]any{"body": body},
	}
	return c.send(ctx, payload)
}

func (c *Client) SendTemplate(ctx context.Context, phone, templateName, language string) (SendResult, error) {
	if language == "" {
		language = "en_US"
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "template",
		"template": map[string]any{
			"name":     templateName,
			"language": map[string]any{"code": language},
		},
	}
	return c.send(ctx, payload)
}

func (c *Client) SendMedia(ctx context.Context, phone, mediaURL string, kind domainSend.MediaKind, caption string) (SendResult, error) {
	media := map[string]any{"link": mediaURL}
	if caption != "" && (kind == domainSend.MediaImage || kind == domainSend.MediaVideo || kind == domainSend.MediaDocument) {
		media["caption"] = caption
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              string(kind),
		string(kind):        media,
	}
	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload map[string]any) (SendResult, error) {
	token := c.credentials.CurrentToken(ctx)
	if token == "" {
		return SendResult{}, ErrNoAccessToken
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, err
	}

	url := fmt.Sprintf("%s/%s/%s/messages", graphBaseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SendResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return SendResult{}, fmt.Errorf("provider rejected send (status %d, code %d): %s",
				resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
		}
		return SendResult{}, fmt.Errorf("provider rejected send: status %d", resp.StatusCode)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(data, &sendResp); err != nil {
		return SendResult{}, fmt.Errorf("unparseable send response: %w", err)
	}
	if len(sendResp.Messages) == 0 || sendResp.Messages[0].ID == "" {
		return SendResult{}, ErrNoProviderMessageID
	}

	logrus.Debugf("[WHATSAPP] send accepted, provider id %s", sendResp.Messages[0].ID)
	return SendResult{ProviderMessageID: sendResp.Messages[0].ID}, nil
}
