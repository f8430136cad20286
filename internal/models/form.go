package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType selects both the input widget and the validation rule of a field
type FieldType int

const (
	FieldText FieldType = iota
	FieldEmail
	FieldNumber
	FieldTextarea
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldEmail:
		return "email"
	case FieldNumber:
		return "number"
	case FieldTextarea:
		return "textarea"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// ParseFieldType maps a stored type name to a FieldType. An empty name is text.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FieldText, nil
	case "email":
		return FieldEmail, nil
	case "number":
		return FieldNumber, nil
	case "textarea":
		return FieldTextarea, nil
	default:
		return FieldText, fmt.Errorf("unknown field type %q", s)
	}
}

func (t FieldType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *FieldType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field type must be a string: %w", err)
	}
	parsed, err := ParseFieldType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FieldDescriptor describes one input of a form definition
type FieldDescriptor struct {
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Required     bool      `json:"required"`
	Placeholder  string    `json:"placeholder,omitempty"`
	MinLength    *int      `json:"minLength,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	DefaultValue string    `json:"defaultValue,omitempty"`
}

// FormDefinition is an externally authored inquiry form
type FormDefinition struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDescriptor `json:"fields"`
}

const (
	DefaultFormID = "default"

	FieldNameName    = "name"
	FieldNameEmail   = "email"
	FieldNameMessage = "message"
	FieldNameProduct = "product"
)

// contextFields must be present in any definition a dialog can submit: the
// inquiry relay requires them.
var contextFields = []string{FieldNameName, FieldNameEmail, FieldNameMessage}

// Validate checks the structural invariants of a definition: every field is
// named, names are unique, and the fields the inquiry relay depends on exist.
func (d *FormDefinition) Validate() error {
	if len(d.Fields) == 0 {
		return fmt.Errorf("form definition %q has no fields", d.ID)
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("form definition %q: field %d has no name", d.ID, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("form definition %q: duplicate field name %q", d.ID, f.Name)
		}
		seen[f.Name] = true
	}

	for _, name := range contextFields {
		if !seen[name] {
			return fmt.Errorf("form definition %q: missing required field %q", d.ID, name)
		}
	}
	return nil
}

// Field returns the descriptor with the given name
func (d *FormDefinition) Field(name string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Clone returns a deep copy of the definition
func (d *FormDefinition) Clone() *FormDefinition {
	out := *d
	out.Fields = make([]FieldDescriptor, len(d.Fields))
	for i, f := range d.Fields {
		if f.MinLength != nil {
			v := *f.MinLength
			f.MinLength = &v
		}
		out.Fields[i] = f
	}
	return &out
}

// WithContext returns a copy of the definition prefilled for an inquiry about
// contextName. The product field always takes the context name; the message
// field is only templated when it has no default of its own. The receiver is
// never modified.
func (d *FormDefinition) WithContext(contextName string) *FormDefinition {
	out := d.Clone()
	for i := range out.Fields {
		switch out.Fields[i].Name {
		case FieldNameProduct:
			out.Fields[i].DefaultValue = contextName
		case FieldNameMessage:
			if out.Fields[i].DefaultValue == "" {
				out.Fields[i].DefaultValue = InquiryMessageTemplate(contextName)
			}
		}
	}
	return out
}

// InquiryMessageTemplate is the message prefill for a product inquiry
func InquiryMessageTemplate(contextName string) string {
	return fmt.Sprintf("I'd like to inquire about %s.", contextName)
}

// InitialValues returns each field's default value, or "" when it has none
func (d *FormDefinition) InitialValues() map[string]string {
	values := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		values[f.Name] = f.DefaultValue
	}
	return values
}

// DialogTitle is the dialog heading, falling back to the product name
func (d *FormDefinition) DialogTitle(contextName string) string {
	if d.Title != "" {
		return d.Title
	}
	return fmt.Sprintf("Inquire about %s", contextName)
}

// DialogDescription is the dialog subheading
func (d *FormDefinition) DialogDescription() string {
	if d.Description != "" {
		return d.Description
	}
	return "Fill out the form and we'll get back to you soon."
}
