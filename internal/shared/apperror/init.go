package apperror

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init makes gin's validator report json field names and lets feature
// packages register their own validation tags.
func Init(registrations ...func(v *validator.Validate) error) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// json:"employee_id" reports as employee_id
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, register := range registrations {
		if err := register(v); err != nil {
			return err
		}
	}
	return nil
}
