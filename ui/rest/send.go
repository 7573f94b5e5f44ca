package rest

import (
	"github.com/gofiber/fiber/v2"
	domainSend "github.com/wadesk/wadesk/domains/send"
	"github.com/wadesk/wadesk/pkg/utils"
	"github.com/wadesk/wadesk/validations"
)

type Send struct {
	Service domainSend.ISendUsecase
}

func InitRestSend(app fiber.Router, service domainSend.ISendUsecase) Send {
	rest := Send{Service: service}
	app.Post("/send/message", rest.SendText)
	app.Post("/send/template", rest.SendTemplate)
	app.Post("/send/media", rest.SendMedia)
	return rest
}

func (h *Send) SendText(c *fiber.Ctx) error {
	var request domainSend.TextRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	utils.PanicIfNeeded(validations.ValidateSendText(c.UserContext(), request))

	response, err := h.Service.SendText(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message sent",
		Results: response,
	})
}

func (h *Send) SendTemplate(c *fiber.Ctx) error {
	var request domainSend.TemplateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	utils.PanicIfNeeded(validations.ValidateSendTemplate(c.UserContext(), request))

	response, err := h.Service.SendTemplate(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Template sent",
		Results: response,
	})
}

func (h *Send) SendMedia(c *fiber.Ctx) error {
	var request domainSend.MediaRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	utils.PanicIfNeeded(validations.ValidateSendMedia(c.UserContext(), request))

	response, err := h.Service.SendMedia(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Media sent",
		Results: response,
	})
}
