package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	domainWebhook "github.com/wadesk/wadesk/domains/webhook"
	"github.com/wadesk/wadesk/pkg/utils"
)

type Webhook struct {
	Service domainWebhook.IWebhookUsecase
}

// InitRestWebhook registers the provider-facing endpoints. These live
// outside basic auth: the provider authenticates with the verify token on
// GET and is simply trusted on POST, as the Cloud API offers no signing we
// validate here.
func InitRestWebhook(app fiber.Router, service domainWebhook.IWebhookUsecase) Webhook {
	rest := Webhook{Service: service}
	app.Get("/webhook", rest.VerifyWebhook)
	app.Post("/webhook", rest.ReceiveWebhook)
	return rest
}

func (h *Webhook) VerifyWebhook(c *fiber.Ctx) error {
	result := h.Service.Verify(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)

	if result.Diagnostic != nil {
		return c.JSON(result.Diagnostic)
	}
	if !result.OK {
		return c.Status(403).JSON(utils.ResponseData{
			Status:  403,
			Code:    "WEBHOOK_VERIFICATION_FAILED",
			Message: "verification token mismatch",
		})
	}

	// The challenge must come back verbatim, not wrapped in JSON.
	return c.SendString(result.Challenge)
}

func (h *Webhook) ReceiveWebhook(c *fiber.Ctx) error {
	if err := h.Service.ProcessEnvelope(c.UserContext(), c.Body()); err != nil {
		logrus.WithError(err).Error("[WEBHOOK] malformed payload")
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "malformed webhook payload",
		})
	}

	return c.JSON(fiber.Map{"status": "received"})
}
