package absence

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kelasi/core"
)

var (
	outcomeTag  = "outcome"
	outcomeText = "outcome must be either approved or rejected"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(outcomeTag, outcomeValidation)
	core.RegisterCustomTranslation(validate, translator, outcomeTag, outcomeText)
}

// outcomeValidation only allows the two terminal justification statuses.
func outcomeValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StatusApproved, StatusRejected:
		return true
	}
	return false
}
