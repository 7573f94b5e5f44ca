package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	pkgError "github.com/wadesk/wadesk/pkg/error"
)

func ValidateCreateCredential(ctx context.Context, request domainCredential.CreateCredentialRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&request.AccessToken, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
