// Package validation holds the string rules shared by request DTOs and use
// cases, built on jellydator/validation.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

var (
	principalPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,255}$`)
)

func stringRule(code, message string, valid func(string) bool) validation.StringRule {
	return validation.NewStringRuleWithError(valid, validation.NewError(code, message))
}

// Email accepts principals of the form local@domain.tld.
var Email = stringRule("validation_email_format", "must be a valid email address",
	principalPattern.MatchString)

// Identifier accepts secret ids that can be used verbatim as a URL path segment.
var Identifier = stringRule("validation_identifier",
	"must be 1-255 characters of letters, digits, '.', '_', ':' or '-'",
	identifierPattern.MatchString)

// NoWhitespace rejects leading or trailing whitespace.
var NoWhitespace = stringRule("validation_no_whitespace", "must not contain leading or trailing whitespace",
	func(s string) bool { return s == strings.TrimSpace(s) })

// NotBlank rejects strings that are empty once trimmed.
var NotBlank = stringRule("validation_not_blank", "must not be blank",
	func(s string) bool { return strings.TrimSpace(s) != "" })

// WrapValidationError turns a validation failure into ErrInvalidInput so the
// HTTP layer answers 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}
