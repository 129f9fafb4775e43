package handlers

import (
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules used by the request DTOs.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
			return services.ValidateAccountCode(fl.Field().String()) == nil
		})
	})
}
