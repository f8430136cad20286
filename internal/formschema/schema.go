// Package formschema turns form field descriptors into a composite validator.
package formschema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/pkg/errors"
)

const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Please enter a valid email."
	MsgNotANumber   = "Must be a number."
	MsgMinNumber    = "Must be greater than 0."
)

var validate = validator.New()

// Values is a validated submission. Text, textarea and email fields hold
// strings; number fields hold float64. Optional fields left empty are absent.
type Values map[string]any

// FieldErrors maps a field name to its validation message
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fe[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error {
	return errors.ErrValidation
}

// Err returns nil when there are no errors
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

type rule struct {
	name      string
	kind      models.FieldType
	required  bool
	minLength int
	message   string
}

// Schema validates a mapping of field name to raw input
type Schema struct {
	rules []rule
}

// Build derives a schema from an ordered list of field descriptors
func Build(fields []models.FieldDescriptor) *Schema {
	s := &Schema{rules: make([]rule, 0, len(fields))}
	for _, f := range fields {
		r := rule{
			name:     f.Name,
			kind:     f.Type,
			required: f.Required,
			message:  f.ErrorMessage,
		}
		if f.MinLength != nil {
			r.minLength = *f.MinLength
		}
		// a required field never accepts an empty value, even with minLength 0
		if r.required && r.minLength < 1 {
			r.minLength = 1
		}
		if r.message == "" {
			r.message = MsgRequired
		}
		s.rules = append(s.rules, r)
	}
	return s
}

// FieldNames returns the validated fields in definition order
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.name
	}
	return names
}

// Validate checks raw against the schema. Keys the schema does not know are
// dropped. It returns either the typed values or the per-field errors.
func (s *Schema) Validate(raw map[string]string) (Values, FieldErrors) {
	values := make(Values, len(s.rules))
	fieldErrors := make(FieldErrors)

	for _, r := range s.rules {
		input := raw[r.name]

		var (
			value   any
			present bool
			msg     string
		)
		switch r.kind {
		case models.FieldEmail:
			value, present, msg = r.checkEmail(input)
		case models.FieldNumber:
			value, present, msg = r.checkNumber(input)
		case models.FieldText, models.FieldTextarea:
			value, present, msg = r.checkText(input)
		default:
			msg = fmt.Sprintf("unsupported field type %s", r.kind)
		}

		if msg != "" {
			fieldErrors[r.name] = msg
			continue
		}
		if present {
			values[r.name] = value
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return values, nil
}

func (r rule) checkEmail(input string) (any, bool, string) {
	if input == "" {
		if r.required {
			return nil, false, MsgRequired
		}
		return nil, false, ""
	}
	if err := validate.Var(input, "email"); err != nil {
		return nil, false, MsgInvalidEmail
	}
	return input, true, ""
}

func (r rule) checkNumber(input string) (any, bool, string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		// Empty coerces to zero, which fails the positive check.
		if r.required {
			return nil, false, MsgMinNumber
		}
		return nil, false, ""
	}

	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, false, MsgNotANumber
	}
	if n < 1 {
		return nil, false, MsgMinNumber
	}
	if r.required && n < float64(r.minLength) {
		return nil, false, r.message
	}
	return n, true, ""
}

// checkText keeps an empty optional value as "" so the inquiry relay still
// receives every text field of the form.
func (r rule) checkText(input string) (any, bool, string) {
	if !r.required {
		return input, true, ""
	}
	if TextLength(input) < r.minLength {
		return nil, false, r.message
	}
	return input, true, ""
}

// TextLength counts the non-whitespace characters of s. Minimum lengths are
// measured on content, so padding a message with spaces does not satisfy them.
func TextLength(s string) int {
	n := 0
	for _, ch := range s {
		if !unicode.IsSpace(ch) {
			n++
		}
	}
	return n
}
