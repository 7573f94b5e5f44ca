package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	domainMedia "github.com/wadesk/wadesk/domains/media"
	domainMessage "github.com/wadesk/wadesk/domains/message"
	domainWebhook "github.com/wadesk/wadesk/domains/webhook"
	"github.com/wadesk/wadesk/infrastructure/whatsapp"
)

// EventDeduper is the optional fast-path in front of the database's unique
// index. Answers are advisory: a miss or an error just means the database
// decides, so a flushed or unreachable cache never loses messages.
type EventDeduper interface {
	Seen(ctx context.Context, providerMessageID string) bool
	Mark(ctx context.Context, providerMessageID string)
}

type webhookService struct {
	verifyToken string
	customers   domainCustomer.ICustomerUsecase
	messages    domainMessage.IMessageUsecase
	fetcher     domainMedia.IFetcher
	dedup       EventDeduper
}

func NewWebhookService(
	verifyToken string,
	customers domainCustomer.ICustomerUsecase,
	messages domainMessage.IMessageUsecase,
	fetcher domainMedia.IFetcher,
	dedup EventDeduper,
) domainWebhook.IWebhookUsecase {
	if verifyToken == "" {
		logrus.Warn("[WEBHOOK] WHATSAPP_VERIFY_TOKEN is not set, handshake verification will always fail")
	}
	return &webhookService{
		verifyToken: verifyToken,
		customers:   customers,
		messages:    messages,
		fetcher:     fetcher,
		dedup:       dedup,
	}
}

func (s *webhookService) Verify(mode, verifyToken, challenge string) domainWebhook.VerifyResult {
	if mode == "" && verifyToken == "" && challenge == "" {
		return domainWebhook.VerifyResult{
			Diagnostic: map[string]any{
				"status":    "webhook endpoint up",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		}
	}
	if mode == "subscribe" && s.verifyToken != "" && verifyToken == s.verifyToken {
		return domainWebhook.VerifyResult{OK: true, Challenge: challenge}
	}
	logrus.Warnf("[WEBHOOK] verification rejected: mode=%q token match=%v", mode, verifyToken == s.verifyToken)
	return domainWebhook.VerifyResult{}
}

// ProcessEnvelope applies one delivery. Messages are applied before statuses
// so a status for a message in the same payload finds its row. Each
// sub-event fails alone.
func (s *webhookService) ProcessEnvelope(ctx context.Context, body []byte) error {
	events, err := whatsapp.ParseEnvelope(body)
	if err != nil {
		return err
	}

	for _, msg := range events.Messages {
		if err := s.applyMessage(ctx, msg); err != nil {
			logrus.WithError(err).Errorf("[WEBHOOK] failed to apply message %s", msg.ProviderMessageID)
		}
	}
	for _, st := range events.Statuses {
		rows, err := s.messages.ApplyStatus(ctx, st.ProviderMessageID, domainMessage.Status(st.Status))
		if err != nil {
			logrus.WithError(err).Errorf("[WEBHOOK] failed to apply status %s", st.ProviderMessageID)
			continue
		}
		if rows == 0 {
			logrus.Debugf("[WEBHOOK] status %s for unknown message %s ignored", st.Status, st.ProviderMessageID)
		}
	}
	return nil
}

func (s *webhookService) applyMessage(ctx context.Context, msg domainWebhook.MessageReceived) error {
	// An empty normalized phone means the sender identity is unusable; a
	// customer row keyed on "" would swallow every such event after it.
	if msg.Phone == "" {
		logrus.Warnf("[WEBHOOK] message %s has no usable sender phone, skipping", msg.ProviderMessageID)
		return nil
	}
	if s.dedup != nil && msg.ProviderMessageID != "" && s.dedup.Seen(ctx, msg.ProviderMessageID) {
		logrus.Debugf("[WEBHOOK] message %s already seen, skipping", msg.ProviderMessageID)
		return nil
	}

	cust, err := s.customers.Resolve(ctx, msg.Phone, msg.ProfileName)
	if err != nil {
		return err
	}

	in := domainMessage.InboundMessage{
		CustomerID:        cust.ID,
		ProviderMessageID: msg.ProviderMessageID,
		Content:           msg.Text,
	}

	if msg.MediaID != "" && s.fetcher != nil {
		asset, fetchErr := s.fetcher.Fetch(ctx, msg.MediaID)
		if fetchErr != nil {
			// The message still counts; it just arrives without its file.
			logrus.WithError(fetchErr).Warnf("[WEBHOOK] media %s unavailable, storing message text-only", msg.MediaID)
		} else {
			in.MediaReference = asset.PublicPath
			in.MediaContentType = asset.ContentType
		}
	}

	created, err := s.messages.RecordInbound(ctx, in)
	if err != nil {
		return err
	}
	if created {
		logrus.Infof("[WEBHOOK] stored %s message from %s", msg.Type, cust.Name())
	} else {
		logrus.Debugf("[WEBHOOK] duplicate delivery of %s ignored", msg.ProviderMessageID)
	}
	if s.dedup != nil && msg.ProviderMessageID != "" {
		s.dedup.Mark(ctx, msg.ProviderMessageID)
	}
	return nil
}
