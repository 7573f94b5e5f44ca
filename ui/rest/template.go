package rest

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	domainTemplate "github.com/wadesk/wadesk/domains/template"
	"github.com/wadesk/wadesk/pkg/utils"
	"github.com/wadesk/wadesk/validations"
)

type Template struct {
	Service domainTemplate.ITemplateUsecase
}

func InitRestTemplate(app fiber.Router, service domainTemplate.ITemplateUsecase) Template {
	rest := Template{Service: service}
	app.Get("/templates", rest.ListTemplates)
	app.Post("/templates", rest.CreateTemplate)
	app.Delete("/templates/:id", rest.DeleteTemplate)
	return rest
}

func (h *Template) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Templates fetched",
		Results: templates,
	})
}

func (h *Template) CreateTemplate(c *fiber.Ctx) error {
	var request domainTemplate.CreateTemplateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	utils.PanicIfNeeded(validations.ValidateCreateTemplate(c.UserContext(), request))

	tmpl, err := h.Service.Create(c.UserContext(), request)
	if errors.Is(err, domainTemplate.ErrDuplicateTemplate) {
		return c.Status(409).JSON(utils.ResponseData{
			Status:  409,
			Code:    "CONFLICT",
			Message: err.Error(),
		})
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Template created",
		Results: tmpl,
	})
}

func (h *Template) DeleteTemplate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid template id",
		})
	}

	err = h.Service.Delete(c.UserContext(), uint(id))
	if errors.Is(err, domainTemplate.ErrTemplateNotFound) {
		return c.Status(404).JSON(utils.ResponseData{
			Status:  404,
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Template deleted",
	})
}
