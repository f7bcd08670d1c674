package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// snakeCase converts a Go struct field name to its JSON field name for
// error messages ("DiscountValue" -> "discount_value").
func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	// "IDs" and "ID" suffixes come out as "i_ds"/"i_d"; flatten them.
	return strings.NewReplacer("i_ds", "ids", "i_d", "id").Replace(b.String())
}

// formatValidationError converts the first validator violation into a
// caller-facing message naming the offending field. First violation wins so
// clients always see the earliest unmet constraint.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := snakeCase(fe.Field())

			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
			case "min":
				return "invalid request: " + field + " must contain at least " + fe.Param() + " item(s)"
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "url":
				return "invalid request: " + field + " must be a valid URL"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
