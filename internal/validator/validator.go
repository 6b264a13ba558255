// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Ethiopian mobile numbers: 09xxxxxxxx, 07xxxxxxxx, or +2519/+2517 forms.
var etPhoneRegex = regexp.MustCompile(`^(\+251[79]\d{8}|0[79]\d{8})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("notification_kind", validateNotificationKind)
		_ = v.RegisterValidation("et_phone", validateETPhone)
	}
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateNotificationKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "info", "success", "warning", "error":
		return true
	}
	return false
}

func validateETPhone(fl validator.FieldLevel) bool {
	return etPhoneRegex.MatchString(fl.Field().String())
}
