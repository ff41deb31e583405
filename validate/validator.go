package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError is a single form field failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors is returned when a form fails its pre-submission checks.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// First is the message shown when only one line fits.
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Field returns the message for field, if any.
func (e Errors) Field(name string) string {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// AsErrors extracts validation errors from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Validator checks the model forms before anything is sent to the API.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("bioskop_email", validateEmail)
	v.RegisterValidation("strength", validateStrength)
	v.RegisterValidation("rupiah", validateRupiah)
	v.RegisterValidation("date_only", validateDateOnly)
	v.RegisterValidation("positive_int", validatePositiveInt)

	return &Validator{v: v}
}

// Struct validates form and converts failures into Errors.
func (val *Validator) Struct(form any) error {
	err := val.v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func validateEmail(fl validator.FieldLevel) bool {
	return Email(fl.Field().String()) == nil
}

func validateStrength(fl validator.FieldLevel) bool {
	return PasswordStrength(fl.Field().String()).Acceptable()
}

func validateRupiah(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return !amount.IsNegative()
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validatePositiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n > 0
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "bioskop_email":
		if err := Email(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
		return "invalid email format"
	case "strength":
		s := PasswordStrength(fmt.Sprint(fe.Value()))
		return fmt.Sprintf("password strength too low (%s, %d/5); at least %d criteria required", s.Label(), s.Score(), MinPasswordScore)
	case "eqfield":
		return "passwords do not match"
	case "rupiah":
		return "must be a non-negative amount"
	case "date_only":
		return "must be a date (YYYY-MM-DD)"
	case "positive_int":
		return "must be a positive whole number"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "file":
		return "file does not exist"
	default:
		return "is invalid"
	}
}
