// Package inquiryform drives an inquiry dialog: it renders a resolved form
// definition, validates input against the synthesized schema and runs the
// submit lifecycle.
package inquiryform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shabadpapers/shabad-api/internal/formschema"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
)

// State is a step of the submit lifecycle
type State int

const (
	StateIdle State = iota
	StateValidating
	StateInvalid
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInvalid:
		return "invalid"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dialog messages
const (
	SuccessTitle       = "Inquiry Sent!"
	SuccessDescription = "Thank you for your message. We'll be in touch soon."
	FailureTitle       = "Error"
	MsgSendFailed      = "Failed to send inquiry."
	MsgUnexpected      = "An unexpected error occurred. Please try again."
)

var (
	// ErrSubmissionInFlight is returned when submit is triggered while a
	// previous submission has not completed
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrClosed is returned once the dialog is closed. A submission that
	// completes after Close has its result discarded.
	ErrClosed = errors.New("inquiry dialog is closed")
)

// Submitter relays validated values
type Submitter interface {
	SubmitInquiry(ctx context.Context, req models.InquiryRequest) (*models.InquiryResponse, error)
}

// Outcome reports what a submit attempt did. The controller is back in
// StateIdle by the time it is returned; State names the transition taken.
type Outcome struct {
	State       State
	FieldErrors formschema.FieldErrors
	Values      map[string]string
	Toast       *models.Toast
	Error       string
	// Err is the submitter's error behind a failure, for logging and status mapping
	Err error
	// Close tells the caller to close the dialog
	Close bool
}

// Controller binds one form definition to live input state. It is safe for
// concurrent use; at most one submission runs at a time.
type Controller struct {
	mu sync.Mutex

	def       *models.FormDefinition
	context   string
	schema    *formschema.Schema
	submitter Submitter

	state        State
	values       map[string]string
	fieldErrors  formschema.FieldErrors
	lastError    string
	captchaToken string
	closed       bool
}

// New creates a controller in StateIdle with every field at its default value
func New(def *models.FormDefinition, contextName string, submitter Submitter) *Controller {
	return &Controller{
		def:       def,
		context:   contextName,
		schema:    formschema.Build(def.Fields),
		submitter: submitter,
		state:     StateIdle,
		values:    def.InitialValues(),
	}
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Values returns a copy of the current input
func (c *Controller) Values() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyValues(c.values)
}

// SetValue updates one input
func (c *Controller) SetValue(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values[name]; !ok {
		return fmt.Errorf("form %q has no field %q", c.def.ID, name)
	}
	c.values[name] = value
	return nil
}

// SetValues updates every known input present in values. Unknown names are ignored.
func (c *Controller) SetValues(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, value := range values {
		if _, ok := c.values[name]; ok {
			c.values[name] = value
		}
	}
}

// SetCaptchaToken attaches the captcha answer sent with the next submission
func (c *Controller) SetCaptchaToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.captchaToken = token
}

// Render returns one widget per field, in definition order
func (c *Controller) Render() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		FormID:         c.def.ID,
		Title:          c.def.DialogTitle(c.context),
		Description:    c.def.DialogDescription(),
		State:          c.state,
		Widgets:        make([]Widget, 0, len(c.def.Fields)),
		SubmitDisabled: c.state == StateSubmitting,
		Error:          c.lastError,
	}
	for _, f := range c.def.Fields {
		kind := WidgetFor(f.Type)
		view.Widgets = append(view.Widgets, Widget{
			Name:        f.Name,
			Label:       f.Label,
			Kind:        kind,
			InputType:   kind.inputType(),
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Value:       c.values[f.Name],
			Error:       c.fieldErrors[f.Name],
		})
	}
	return view
}

// Submit validates the current input and, when valid, relays it. Validation
// errors never reach the submitter.
func (c *Controller) Submit(ctx context.Context) (*Outcome, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	c.state = StateValidating
	values, fieldErrors := c.schema.Validate(c.values)
	if len(fieldErrors) > 0 {
		c.fieldErrors = fieldErrors
		c.state = StateIdle
		out := &Outcome{State: StateInvalid, FieldErrors: fieldErrors, Values: copyValues(c.values)}
		c.mu.Unlock()

		metrics.FormSubmissions.WithLabelValues(StateInvalid.String()).Inc()
		return out, nil
	}

	c.fieldErrors = nil
	c.lastError = ""
	c.state = StateSubmitting
	req := models.InquiryRequest(values)
	if c.captchaToken != "" {
		req["recaptchaToken"] = c.captchaToken
	}
	c.mu.Unlock()

	resp, err := c.submitter.SubmitInquiry(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		logger.Debug("Discarding inquiry result for closed dialog", zap.String("form_id", c.def.ID))
		return nil, ErrClosed
	}

	c.state = StateIdle

	if resp != nil && resp.Success {
		c.values = c.def.InitialValues()
		c.closed = true
		metrics.FormSubmissions.WithLabelValues(StateSuccess.String()).Inc()
		return &Outcome{
			State:  StateSuccess,
			Values: copyValues(c.values),
			Toast:  &models.Toast{Variant: "default", Title: SuccessTitle, Description: SuccessDescription},
			Close:  true,
		}, nil
	}

	msg := MsgUnexpected
	if resp != nil {
		msg = resp.Error
		if msg == "" {
			msg = MsgSendFailed
		}
	}
	if err != nil {
		logger.Warn("Inquiry submission failed", zap.String("form_id", c.def.ID), zap.Error(err))
	}

	c.lastError = msg
	metrics.FormSubmissions.WithLabelValues(StateFailure.String()).Inc()
	return &Outcome{
		State:  StateFailure,
		Values: copyValues(c.values),
		Toast:  &models.Toast{Variant: "destructive", Title: FailureTitle, Description: msg},
		Error:  msg,
		Err:    err,
	}, nil
}

// Close closes the dialog. A submission still in flight keeps running but its
// result is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.state = StateIdle
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
