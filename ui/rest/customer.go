package rest

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	domainMessage "github.com/wadesk/wadesk/domains/message"
	"github.com/wadesk/wadesk/pkg/utils"
)

type Customer struct {
	Service  domainCustomer.ICustomerUsecase
	Messages domainMessage.IMessageUsecase
}

func InitRestCustomer(app fiber.Router, service domainCustomer.ICustomerUsecase, messages domainMessage.IMessageUsecase) Customer {
	rest := Customer{Service: service, Messages: messages}
	app.Get("/customers", rest.ListCustomers)
	app.Get("/customers/:id", rest.GetCustomer)
	app.Get("/customers/:id/messages", rest.ListMessages)
	app.Post("/customers/:id/read", rest.MarkRead)
	app.Put("/customers/:id/agent", rest.AssignAgent)
	app.Delete("/customers/:id", rest.DeleteCustomer)
	app.Get("/stats", rest.GetStats)
	return rest
}

func customerID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *Customer) ListCustomers(c *fiber.Ctx) error {
	overviews, err := h.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Customers fetched",
		Results: overviews,
	})
}

func (h *Customer) GetCustomer(c *fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid customer id",
		})
	}

	cust, err := h.Service.GetByID(c.UserContext(), id)
	if errors.Is(err, domainCustomer.ErrCustomerNotFound) {
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
		Message: "Customer fetched",
		Results: cust,
	})
}

func (h *Customer) ListMessages(c *fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid customer id",
		})
	}

	if _, err := h.Service.GetByID(c.UserContext(), id); errors.Is(err, domainCustomer.ErrCustomerNotFound) {
		return c.Status(404).JSON(utils.ResponseData{
			Status:  404,
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	}

	messages, err := h.Messages.ListByCustomer(c.UserContext(), id)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Messages fetched",
		Results: messages,
	})
}

func (h *Customer) MarkRead(c *fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid customer id",
		})
	}

	updated, err := h.Messages.MarkReceivedRead(c.UserContext(), id)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Messages marked as read",
		Results: map[string]any{"updated": updated},
	})
}

func (h *Customer) AssignAgent(c *fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid customer id",
		})
	}

	var req struct {
		Agent string `json:"agent" form:"agent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	cust, err := h.Service.AssignAgent(c.UserContext(), id, req.Agent)
	if errors.Is(err, domainCustomer.ErrCustomerNotFound) {
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
		Message: "Agent assigned",
		Results: cust,
	})
}

func (h *Customer) DeleteCustomer(c *fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid customer id",
		})
	}

	err = h.Service.Delete(c.UserContext(), id)
	if errors.Is(err, domainCustomer.ErrCustomerNotFound) {
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
		Message: "Customer deleted",
	})
}

func (h *Customer) GetStats(c *fiber.Ctx) error {
	stats, err := h.Messages.Stats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Stats fetched",
		Results: stats,
	})
}
