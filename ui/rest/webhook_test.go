package rest

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	domainWebhook "github.com/wadesk/wadesk/domains/webhook"
)

type fakeWebhookService struct {
	verifyToken string
	processErr  error
	received    [][]byte
}

func (f *fakeWebhookService) Verify(mode, verifyToken, challenge string) domainWebhook.VerifyResult {
	if mode == "" && verifyToken == "" && challenge == "" {
		return domainWebhook.VerifyResult{Diagnostic: map[string]any{"status": "webhook endpoint up"}}
	}
	if mode == "subscribe" && verifyToken == f.verifyToken {
		return domainWebhook.VerifyResult{OK: true, Challenge: challenge}
	}
	return domainWebhook.VerifyResult{}
}

func (f *fakeWebhookService) ProcessEnvelope(_ context.Context, body []byte) error {
	f.received = append(f.received, body)
	return f.processErr
}

func newWebhookApp(svc domainWebhook.IWebhookUsecase) *fiber.App {
	app := fiber.New()
	InitRestWebhook(app, svc)
	return app
}

func TestVerifyWebhookEchoesChallenge(t *testing.T) {
	app := newWebhookApp(&fakeWebhookService{verifyToken: "tok"})

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=tok&hub.challenge=abc123", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "abc123" {
		t.Errorf("challenge must come back verbatim, got %q", body)
	}
}

func TestVerifyWebhookRejectsBadToken(t *testing.T) {
	app := newWebhookApp(&fakeWebhookService{verifyToken: "tok"})

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=abc123", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestVerifyWebhookDiagnostic(t *testing.T) {
	app := newWebhookApp(&fakeWebhookService{verifyToken: "tok"})

	req := httptest.NewRequest("GET", "/webhook", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("bare GET should 200 with a diagnostic, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "webhook endpoint up") {
		t.Errorf("expected diagnostic payload, got %q", body)
	}
}

func TestReceiveWebhookAccepts(t *testing.T) {
	svc := &fakeWebhookService{}
	app := newWebhookApp(svc)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"entry":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(svc.received) != 1 {
		t.Fatalf("expected the body forwarded once, got %d", len(svc.received))
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "received") {
		t.Errorf("unexpected ack body: %q", body)
	}
}

func TestReceiveWebhookMalformed(t *testing.T) {
	svc := &fakeWebhookService{processErr: errors.New("malformed webhook envelope")}
	app := newWebhookApp(svc)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
