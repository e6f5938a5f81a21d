package app

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"kuisin/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report wire names so clients can map errors back to their form fields.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct converts the first validator failure into a domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return domain.Invalid(fe.Field(), messageFor(fe))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// validateQuestionPatch checks the bounds of the fields an update sets. The
// create-only presence rules do not apply to a patch.
func validateQuestionPatch(in domain.QuestionInput) error {
	if in.Points != nil {
		if err := validate.Var(*in.Points, "min=0"); err != nil {
			return domain.Invalid("points", "must be at least 0")
		}
	}
	if in.TimeLimit != nil {
		if err := validate.Var(*in.TimeLimit, "min=1"); err != nil {
			return domain.Invalid("time_limit", "must be at least 1")
		}
	}
	if in.CorrectOption != nil && *in.CorrectOption < 0 {
		return domain.Invalid("correct_option", "must be at least 0")
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalid(field, "is required")
	}
	return nil
}
