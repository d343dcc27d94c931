package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())

	// Report fields by their wire name: csv header first, then json key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"csv", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	mustRegister(v, "emp_no", func(fl playground.FieldLevel) bool {
		return IsValidEmployeeNo(fl.Field().String())
	})
	mustRegister(v, "month", func(fl playground.FieldLevel) bool {
		return IsValidMonth(fl.Field().String())
	})
	mustRegister(v, "clock", func(fl playground.FieldLevel) bool {
		return IsValidClock(fl.Field().String())
	})

	return v
}

func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", tag, err))
	}
}

// Struct validates s against its `validate` tags and returns ValidationErrors keyed by wire name.
func Struct(s interface{}) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return errs
}

func messageFor(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "emp_no":
		return "must contain only letters, digits or dashes (max 50)"
	case "month":
		return "must be in YYYY-MM format"
	case "clock":
		return "must be in HH:MM format"
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
