package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/domain"
)

var errInvalidBody = fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar el nombre JSON/query del campo, no el de Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// parseBody decodifica el JSON del cuerpo y valida los tags `validate`.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validateStruct(dst)
}

// parseQuery decodifica la query string y valida.
func parseQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return domain.NewValidationError("query", "parámetros inválidos")
	}
	return validateStruct(dst)
}

// validateStruct devuelve un *domain.ValidationError con el primer campo inválido.
func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fieldPath(fe), describe(fe))
	}
	return domain.NewValidationError("", err.Error())
}

// fieldPath quita el nombre del struct raíz: "RecordSaleRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "min", "gte":
		return "debe ser al menos " + fe.Param()
	case "max", "lte":
		return "excede el máximo de " + fe.Param()
	case "uuid":
		return "debe ser un UUID"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	}
	return "inválido (" + fe.Tag() + ")"
}
