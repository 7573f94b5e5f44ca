package credential

import (
	"context"
	"time"
)

// Credential is one provider access token. The token actually used for
// provider calls is always the latest-updated row.
type Credential struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AccessToken string    `json:"access_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateCredentialRequest struct {
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type ICredentialUsecase interface {
	Create(ctx context.Context, req CreateCredentialRequest) (Credential, error)
	// List returns credentials with tokens redacted.
	List(ctx context.Context) ([]Credential, error)
	Delete(ctx context.Context, id string) error
	// CurrentToken returns the bearer token for provider calls: the
	// latest-updated row, or the configured env fallback, or "" when
	// neither exists (provider calls then fail cleanly).
	CurrentToken(ctx context.Context) string
}
