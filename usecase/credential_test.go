package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wadesk/wadesk/core/config"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	pkgError "github.com/wadesk/wadesk/pkg/error"
)

func TestCurrentTokenEnvFallback(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Whatsapp.AccessToken = "env-token"
	svc := NewCredentialService(db, cfg)

	if token := svc.CurrentToken(context.Background()); token != "env-token" {
		t.Errorf("expected env fallback, got %q", token)
	}
}

func TestCurrentTokenLatestRowWins(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Whatsapp.AccessToken = "env-token"
	svc := NewCredentialService(db, cfg)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domainCredential.CreateCredentialRequest{Name: "old", AccessToken: "old-token"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := svc.Create(ctx, domainCredential.CreateCredentialRequest{Name: "new", AccessToken: "new-token"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token := svc.CurrentToken(ctx); token != "new-token" {
		t.Errorf("latest-updated credential should win, got %q", token)
	}
}

func TestCredentialListRedactsTokens(t *testing.T) {
	db := newTestDB(t)
	svc := NewCredentialService(db, &config.Config{})
	ctx := context.Background()

	created, err := svc.Create(ctx, domainCredential.CreateCredentialRequest{Name: "prod", AccessToken: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.AccessToken != "" {
		t.Error("create response must not echo the token")
	}

	creds, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(creds) != 1 {
		t.Fatalf("expected 1 credential, got %d", len(creds))
	}
	if creds[0].AccessToken != "" {
		t.Error("listed credentials must have tokens redacted")
	}
}

func TestCredentialDeleteNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCredentialService(db, &config.Config{})

	err := svc.Delete(context.Background(), "no-such-id")
	var generic pkgError.GenericError
	if !errors.As(err, &generic) || generic.StatusCode() != 404 {
		t.Fatalf("expected a 404 error, got %v", err)
	}
}
