package serverutils

import (
	"semantic-docstore-be/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateRequest(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		return apperror.Wrap(apperror.KindInput, "request validation failed", err)
	}
	return nil
}
