package inquiryform

import (
	"fmt"

	"github.com/shabadpapers/shabad-api/internal/models"
)

// WidgetKind is the input control a field renders as
type WidgetKind int

const (
	WidgetSingleLine WidgetKind = iota
	WidgetMultiLine
	WidgetEmail
	WidgetNumber
)

func (k WidgetKind) String() string {
	switch k {
	case WidgetSingleLine:
		return "single-line"
	case WidgetMultiLine:
		return "multi-line"
	case WidgetEmail:
		return "email"
	case WidgetNumber:
		return "number"
	default:
		return fmt.Sprintf("WidgetKind(%d)", int(k))
	}
}

func (k WidgetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// inputType is the HTML input type of the widget; multi-line has none
func (k WidgetKind) inputType() string {
	switch k {
	case WidgetEmail:
		return "email"
	case WidgetNumber:
		return "number"
	case WidgetMultiLine:
		return ""
	default:
		return "text"
	}
}

// WidgetFor maps a field type to its widget
func WidgetFor(t models.FieldType) WidgetKind {
	switch t {
	case models.FieldTextarea:
		return WidgetMultiLine
	case models.FieldEmail:
		return WidgetEmail
	case models.FieldNumber:
		return WidgetNumber
	default:
		return WidgetSingleLine
	}
}

// Widget is one rendered input
type Widget struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Kind        WidgetKind `json:"kind"`
	InputType   string     `json:"inputType,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Required    bool       `json:"required"`
	Value       string     `json:"value"`
	Error       string     `json:"error,omitempty"`
}

// View is the rendered dialog
type View struct {
	FormID      string   `json:"formId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	State       State    `json:"state"`
	Widgets     []Widget `json:"widgets"`
	// SubmitDisabled is set while a submission is in flight
	SubmitDisabled bool   `json:"submitDisabled"`
	Error          string `json:"error,omitempty"`
}
