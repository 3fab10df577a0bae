package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/talabahamkor/choyxona/internal/app/models"
)

// RegisterValidators installs the custom binding validators on gin's
// validator engine. Called once at bootstrap.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("scopekind", validScopeKind)
}

// validScopeKind backs the "scopekind" binding tag on request DTOs
func validScopeKind(fl validator.FieldLevel) bool {
	return models.ValidScopeKind(fl.Field().String())
}
