package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// SetupValidator configures gin's validator with custom tags. Called once at
// startup before any route is registered.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// report_type validates against the known report catalogue
	_ = v.RegisterValidation("report_type", func(fl validator.FieldLevel) bool {
		return regulatory.ReportType(fl.Field().String()).IsValid()
	})
}
