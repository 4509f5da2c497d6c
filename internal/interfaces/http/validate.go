package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/inventario-historico/internal/application/dto"
)

// validate valida las etiquetas `validate` de los DTO; los campos se nombran por su json.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError traduce los errores del validador a un ErrorResponse "campo: regla, ...".
func validationError(err error) *dto.ErrorResponse {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	}
	parts := make([]string, 0, len(ves))
	for _, ve := range ves {
		parts = append(parts, ve.Field()+": "+ve.Tag())
	}
	return &dto.ErrorResponse{Code: "VALIDATION", Message: strings.Join(parts, ", ")}
}
