package whatsapp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/wadesk/wadesk/core/config"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	domainSend "github.com/wadesk/wadesk/domains/send"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type fakeCredentials struct {
	token string
}

func (f *fakeCredentials) Create(context.Context, domainCredential.CreateCredentialRequest) (domainCredential.Credential, error) {
	return domainCredential.Credential{}, nil
}

func (f *fakeCredentials) List(context.Context) ([]domainCredential.Credential, error) {
	return nil, nil
}

func (f *fakeCredentials) Delete(context.Context, string) error {
	return nil
}

func (f *fakeCredentials) CurrentToken(context.Context) string {
	return f.token
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testClient(rt roundTripperFunc) *Client {
	cfg := config.WhatsappConfig{APIVersion: "v19.0", PhoneNumberID: "12345"}
	return NewClient(cfg, &fakeCredentials{token: "secret-token"}, &http.Client{Transport: rt})
}

func TestSendTextSuccess(t *testing.T) {
	var gotURL, gotAuth string
	client := testClient(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(200, `{"messaging_product":"whatsapp","messages":[{"id":"wamid.sent1"}]}`), nil
	})

	result, err := client.SendText(context.Background(), "+5215512345678", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProviderMessageID != "wamid.sent1" {
		t.Errorf("unexpected provider id: %q", result.ProviderMessageID)
	}
	if gotURL != "https://graph.facebook.com/v19.0/12345/messages" {
		t.Errorf("unexpected URL: %s", gotURL)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
}

func TestSendTextNoToken(t *testing.T) {
	cfg := config.WhatsappConfig{APIVersion: "v19.0", PhoneNumberID: "12345"}
	client := NewClient(cfg, &fakeCredentials{}, &http.Client{})

	_, err := client.SendText(context.Background(), "+5215512345678", "hello")
	if !errors.Is(err, ErrNoAccessToken) {
		t.Fatalf("expected ErrNoAccessToken, got %v", err)
	}
}

func TestSendTextAPIError(t *testing.T) {
	client := testClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(401, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`), nil
	})

	_, err := client.SendText(context.Background(), "+5215512345678", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid OAuth access token") {
		t.Errorf("error should carry the provider message, got: %v", err)
	}
}

func TestSendTextMissingProviderID(t *testing.T) {
	client := testClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"messaging_product":"whatsapp","messages":[]}`), nil
	})

	_, err := client.SendText(context.Background(), "+5215512345678", "hello")
	if !errors.Is(err, ErrNoProviderMessageID) {
		t.Fatalf("expected ErrNoProviderMessageID, got %v", err)
	}
}

func TestSendMediaCaptionRules(t *testing.T) {
	var body string
	client := testClient(func(req *http.Request) (*http.Response, error) {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
		return jsonResponse(200, `{"messages":[{"id":"wamid.m1"}]}`), nil
	})

	_, err := client.SendMedia(context.Background(), "+521555", "https://cdn.example.com/a.ogg", domainSend.MediaAudio, "ignored caption")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(body, "ignored caption") {
		t.Error("audio sends must not carry a caption")
	}

	_, err = client.SendMedia(context.Background(), "+521555", "https://cdn.example.com/a.jpg", domainSend.MediaImage, "the caption")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "the caption") {
		t.Error("image sends should carry the caption")
	}
}
