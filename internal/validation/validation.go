// Package validation checks portal request payloads with struct tags.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

const (
	dutEmailTag       = "dut_email"
	fullNameTag       = "full_name"
	strongPasswordTag = "strong_password"
)

var (
	dutEmailRegex = regexp.MustCompile(`^\d{8}@dut4life\.ac\.za$`)
	fullNameRegex = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)

	passwordSpecials = "@$!%*?&"
)

var messages = map[string]string{
	"required":        "this field is required",
	"min":             "value is too short",
	"max":             "value is too long",
	"gte":             "value is too small",
	"lte":             "value is too large",
	"alphanum":        "only letters and digits are allowed",
	"email":           "must be a valid email address",
	"uuid":            "must be a valid id",
	"oneof":           "is not an allowed value",
	dutEmailTag:       "must be a DUT email, e.g. 22289351@dut4life.ac.za",
	fullNameTag:       "must be in the format Name Surname with capitalised first letters",
	strongPasswordTag: "must be at least 8 characters and include upper and lower case letters, a digit and one of @$!%*?&",
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator with the portal's custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(dutEmailTag, func(fl validator.FieldLevel) bool {
		return IsDUTEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(fullNameTag, func(fl validator.FieldLevel) bool {
		return IsFullName(fl.Field().String())
	})
	_ = v.RegisterValidation(strongPasswordTag, func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a VALIDATION_FAILED DomainError listing
// every failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError(err)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		details[fe.Field()] = msg
	}
	return apperrors.NewValidationError("invalid payload", details)
}

// IsDUTEmail reports whether email is an 8-digit student address.
func IsDUTEmail(email string) bool {
	return dutEmailRegex.MatchString(email)
}

// IsFullName reports whether name looks like "Name Surname".
func IsFullName(name string) bool {
	return fullNameRegex.MatchString(name)
}

// IsStrongPassword requires 8+ characters with upper, lower, digit and a special.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// StudentNumber extracts the 8-digit student number from a DUT email.
func StudentNumber(email string) string {
	if !IsDUTEmail(email) {
		return ""
	}
	return email[:8]
}
