package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	domainTemplate "github.com/wadesk/wadesk/domains/template"
	pkgError "github.com/wadesk/wadesk/pkg/error"
	"github.com/wadesk/wadesk/pkg/utils"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				var res utils.ResponseData
				res.Status = 500
				res.Code = "INTERNAL_SERVER_ERROR"
				res.Message = fmt.Sprintf("%v", err)

				logrus.Errorf("Panic recovered in middleware: %v", err)

				if genericErr, ok := err.(pkgError.GenericError); ok {
					res.Status = genericErr.StatusCode()
					res.Code = genericErr.ErrCode()
					res.Message = genericErr.Error()
				} else if plainErr, ok := err.(error); ok {
					if errors.Is(plainErr, domainCustomer.ErrCustomerNotFound) ||
						errors.Is(plainErr, domainTemplate.ErrTemplateNotFound) {
						res.Status = 404
						res.Code = "NOT_FOUND"
						res.Message = plainErr.Error()
					}
				}

				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}
