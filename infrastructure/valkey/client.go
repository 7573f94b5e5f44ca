package valkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"
	"github.com/wadesk/wadesk/core/config"
)

const connectTimeout = 5 * time.Second

// Client is an optional fast-path cache for recently seen provider message
// ids. It only short-circuits obvious webhook re-deliveries; the unique
// index on provider_message_id stays the source of truth, so a cache miss,
// eviction or outage is always safe.
type Client struct {
	inner     valkeylib.Client
	keyPrefix string
	ttl       time.Duration
}

// NewClient creates the dedup cache client. The caller must Close() it.
func NewClient(cfg config.DedupConfig) (*Client, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Client{inner: inner, keyPrefix: prefix, ttl: ttl}, nil
}

func (c *Client) Close() {
	if c.inner != nil {
		c.inner.Close()
	}
}

func (c *Client) key(providerMessageID string) string {
	return c.keyPrefix + "seen:" + providerMessageID
}

// Seen reports whether the provider message id was marked recently. Errors
// degrade to "not seen" so the database path decides.
func (c *Client) Seen(ctx context.Context, providerMessageID string) bool {
	if providerMessageID == "" {
		return false
	}
	cmd := c.inner.B().Get().Key(c.key(providerMessageID)).Build()
	if err := c.inner.Do(ctx, cmd).Error(); err != nil {
		if !valkeylib.IsValkeyNil(err) {
			logrus.WithError(err).Debug("[DEDUP] cache lookup failed")
		}
		return false
	}
	return true
}

// Mark remembers a provider message id for the configured TTL.
func (c *Client) Mark(ctx context.Context, providerMessageID string) {
	if providerMessageID == "" {
		return
	}
	cmd := c.inner.B().Set().
		Key(c.key(providerMessageID)).
		Value("1").
		Ex(c.ttl).
		Build()
	if err := c.inner.Do(ctx, cmd).Error(); err != nil {
		logrus.WithError(err).Debug("[DEDUP] cache mark failed")
	}
}
