package handler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// formValidator checks bound request schemas before a handler acts on them.
// Messages are written for the flash channel, so they read like form
// feedback rather than struct-tag dumps.
type formValidator struct {
	v *validator.Validate
}

// NewValidator returns a formValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *formValidator {
	return &formValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface. All field failures are
// joined into one error so the form can show them in a single notice.
func (fv *formValidator) Validate(i any) error {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.New(strings.Join(msgs, " "))
}

// fieldError phrases a single failure the way the account and inventory
// forms expect to surface it.
func fieldError(fe validator.FieldError) string {
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please provide a %s.", field)
	case "email":
		return "A valid email address is required."
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters long.", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers, no spaces.", field)
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("The %s cannot be negative.", field)
		}
		return fmt.Sprintf("The %s must be %s or later.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is not valid.", field)
	}
}

// fieldLabel turns a struct field name like ClassificationID into the
// label a visitor would recognise, "classification id".
func fieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
