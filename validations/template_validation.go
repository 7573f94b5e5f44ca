package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainTemplate "github.com/wadesk/wadesk/domains/template"
	pkgError "github.com/wadesk/wadesk/pkg/error"
)

func ValidateCreateTemplate(ctx context.Context, request domainTemplate.CreateTemplateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&request.Body, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
