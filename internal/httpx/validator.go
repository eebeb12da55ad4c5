package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()

	isbn10RE = regexp.MustCompile(`^\d{9}[\dXx]$`)
	isbn13RE = regexp.MustCompile(`^\d{13}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("isbn", validateISBN)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateISBN replaces the library's checksum validator with a shape check:
// providers return ISBNs with bad check digits and those books must still be
// saveable.
func validateISBN(fl validator.FieldLevel) bool {
	isbn := strings.NewReplacer("-", "", " ", "").Replace(fl.Field().String())
	switch len(isbn) {
	case 10:
		return isbn10RE.MatchString(isbn)
	case 13:
		return isbn13RE.MatchString(isbn)
	}
	return false
}

// ValidateStruct returns one detail per failing field, or nil.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		var message string
		switch fe.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		details = append(details, ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return details
}
