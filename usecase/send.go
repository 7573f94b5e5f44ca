package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	domainMessage "github.com/wadesk/wadesk/domains/message"
	domainSend "github.com/wadesk/wadesk/domains/send"
	domainTemplate "github.com/wadesk/wadesk/domains/template"
	"github.com/wadesk/wadesk/infrastructure/whatsapp"
	"github.com/wadesk/wadesk/pkg/phone"
)

type sendService struct {
	client    *whatsapp.Client
	customers domainCustomer.ICustomerUsecase
	messages  domainMessage.IMessageUsecase
	templates domainTemplate.ITemplateUsecase
}

func NewSendService(
	client *whatsapp.Client,
	customers domainCustomer.ICustomerUsecase,
	messages domainMessage.IMessageUsecase,
	templates domainTemplate.ITemplateUsecase,
) domainSend.ISendUsecase {
	return &sendService{
		client:    client,
		customers: customers,
		messages:  messages,
		templates: templates,
	}
}

func (s *sendService) SendText(ctx context.Context, req domainSend.TextRequest) (domainSend.Response, error) {
	normalized := phone.Normalize(req.Phone)
	cust, err := s.customers.Resolve(ctx, normalized, "")
	if err != nil {
		return domainSend.Response{}, err
	}

	result, err := s.client.SendText(ctx, normalized, req.Message)
	providerID, err := providerIDOrDegrade(result, err)
	if err != nil {
		return domainSend.Response{}, err
	}

	return s.record(ctx, cust.ID, providerID, req.Message, "", "")
}

func (s *sendService) SendTemplate(ctx context.Context, req domainSend.TemplateRequest) (domainSend.Response, error) {
	tmpl, err := s.templates.GetByName(ctx, req.TemplateName)
	if err != nil {
		return domainSend.Response{}, err
	}
	language := req.Language
	if language == "" {
		language = tmpl.Language
	}

	normalized := phone.Normalize(req.Phone)
	cust, err := s.customers.Resolve(ctx, normalized, "")
	if err != nil {
		return domainSend.Response{}, err
	}

	result, err := s.client.SendTemplate(ctx, normalized, tmpl.Name, language)
	providerID, err := providerIDOrDegrade(result, err)
	if err != nil {
		return domainSend.Response{}, err
	}

	content := fmt.Sprintf("[template:%s] %s", tmpl.Name, tmpl.Body)
	return s.record(ctx, cust.ID, providerID, content, "", "")
}

func (s *sendService) SendMedia(ctx context.Context, req domainSend.MediaRequest) (domainSend.Response, error) {
	normalized := phone.Normalize(req.Phone)
	cust, err := s.customers.Resolve(ctx, normalized, "")
	if err != nil {
		return domainSend.Response{}, err
	}

	result, err := s.client.SendMedia(ctx, normalized, req.MediaURL, req.Kind, req.Caption)
	providerID, err := providerIDOrDegrade(result, err)
	if err != nil {
		return domainSend.Response{}, err
	}

	return s.record(ctx, cust.ID, providerID, req.Caption, req.MediaURL, string(req.Kind))
}

// providerIDOrDegrade maps an accepted-but-idless send to an empty provider
// id: the row is still created, it just can never be reconciled by status
// updates.
func providerIDOrDegrade(result whatsapp.SendResult, err error) (string, error) {
	if err == nil {
		return result.ProviderMessageID, nil
	}
	if errors.Is(err, whatsapp.ErrNoProviderMessageID) {
		logrus.Warn("[SEND] provider accepted the message without an id, statuses will not apply")
		return "", nil
	}
	return "", err
}

func (s *sendService) record(ctx context.Context, customerID uint, providerID, content, mediaRef, mediaKind string) (domainSend.Response, error) {
	msg, err := s.messages.RecordOutbound(ctx, domainMessage.OutboundMessage{
		CustomerID:        customerID,
		ProviderMessageID: providerID,
		Content:           content,
		MediaReference:    mediaRef,
		MediaContentType:  mediaKind,
	})
	if err != nil {
		return domainSend.Response{}, err
	}
	return domainSend.Response{
		MessageID:         msg.ID,
		ProviderMessageID: providerID,
		Status:            string(msg.Status),
	}, nil
}
