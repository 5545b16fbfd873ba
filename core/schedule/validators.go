package schedule

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kelasi/core"
)

var (
	dayTag  = "day"
	dayText = "invalid day of week"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(dayTag, dayValidation)
	core.RegisterCustomTranslation(validate, translator, dayTag, dayText)
}

// dayValidation checks that the provided day is one of Days.
func dayValidation(fl validator.FieldLevel) bool {
	day := fl.Field().String()
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}
