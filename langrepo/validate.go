package langrepo

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// languagePattern accepts codes like "en", "uz" or "pt-BR". The column holds at
// most ten characters.
var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,4})?$`)

// ValidateLanguage checks that code is a plausible language code.
func ValidateLanguage(code string) error {
	return validation.Validate(code,
		validation.Required,
		validation.Length(2, 10),
		validation.Match(languagePattern).Error("must be a language code like en or pt-BR"),
	)
}
