package rest

import (
	"github.com/gofiber/fiber/v2"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	"github.com/wadesk/wadesk/pkg/utils"
	"github.com/wadesk/wadesk/validations"
)

type Credential struct {
	Service domainCredential.ICredentialUsecase
}

func InitRestCredential(app fiber.Router, service domainCredential.ICredentialUsecase) Credential {
	rest := Credential{Service: service}
	app.Get("/credentials", rest.ListCredentials)
	app.Post("/credentials", rest.CreateCredential)
	app.Delete("/credentials/:id", rest.DeleteCredential)
	return rest
}

func (h *Credential) ListCredentials(c *fiber.Ctx) error {
	creds, err := h.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Credentials fetched",
		Results: creds,
	})
}

func (h *Credential) CreateCredential(c *fiber.Ctx) error {
	var request domainCredential.CreateCredentialRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	utils.PanicIfNeeded(validations.ValidateCreateCredential(c.UserContext(), request))

	cred, err := h.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Credential created",
		Results: cred,
	})
}

func (h *Credential) DeleteCredential(c *fiber.Ctx) error {
	err := h.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Credential deleted",
	})
}
