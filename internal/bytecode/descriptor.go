package bytecode

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"coinforge/internal/template"
)

var ErrInvalidTokenDescriptor = errors.New("invalid token descriptor")

// DescriptorError names the descriptor field that failed validation.
type DescriptorError struct {
	Field  string
	Reason string
	cause  error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidTokenDescriptor, e.Field, e.Reason)
}

func (e *DescriptorError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalidTokenDescriptor, e.cause}
	}
	return []error{ErrInvalidTokenDescriptor}
}

// TokenDescriptor is the user-facing description of a coin to mint.
type TokenDescriptor struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Decimals    int    `json:"decimals"`
}

// Normalize trims the description and icon URL. When both are equal a line
// feed is appended to the description so the two placeholders never receive
// identical values.
func (d TokenDescriptor) Normalize() TokenDescriptor {
	d.Description = strings.TrimSpace(d.Description)
	d.IconURL = strings.TrimSpace(d.IconURL)
	if d.Description == d.IconURL {
		d.Description += "\n"
	}
	return d
}

// Validate checks d as given; callers normally run Normalize first.
func (d TokenDescriptor) Validate() error {
	if n := utf8.RuneCountInString(d.Symbol); n < template.MinSymbolLength || n > template.MaxSymbolLength {
		return &DescriptorError{
			Field:  template.FieldSymbol,
			Reason: fmt.Sprintf("length %d outside %d-%d", n, template.MinSymbolLength, template.MaxSymbolLength),
			cause:  template.ErrUnsupportedSymbolLength,
		}
	}
	if !isASCII(d.Symbol) {
		return &DescriptorError{Field: template.FieldSymbol, Reason: "must be ASCII"}
	}
	if err := checkText(template.FieldName, d.Name, template.MaxNameLength); err != nil {
		return err
	}
	if err := checkText(template.FieldDescription, d.Description, template.MaxDescriptionLength); err != nil {
		return err
	}
	if err := checkText(template.FieldIconURL, d.IconURL, template.MaxIconURLLength); err != nil {
		return err
	}
	if d.Decimals < 0 || d.Decimals > template.MaxDecimals {
		return &DescriptorError{
			Field:  template.FieldDecimals,
			Reason: fmt.Sprintf("%d outside 0-%d", d.Decimals, template.MaxDecimals),
		}
	}
	return nil
}

func checkText(field, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return &DescriptorError{Field: field, Reason: fmt.Sprintf("length %d exceeds %d", n, max)}
	}
	if !isASCII(value) {
		return &DescriptorError{Field: field, Reason: "must be ASCII"}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
