package models

// InquiryRequest is the body of the submitInquiry endpoint. Fields beyond
// name, email and message are defined per form and pass through unchanged.
type InquiryRequest map[string]any

// InquiryResponse is the outcome of an inquiry submission
type InquiryResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RelayResponse is the reply of the Web3Forms-compatible relay service
type RelayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// InquiryCreatedEvent is posted to the inquiry-created trigger after a
// successful relay
type InquiryCreatedEvent struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Product string `json:"product,omitempty"`
	Subject string `json:"subject"`
}

// FormSubmitRequest is the body of a dialog submission
type FormSubmitRequest struct {
	Product        string            `json:"product"`
	Values         map[string]string `json:"values" binding:"required"`
	RecaptchaToken string            `json:"recaptchaToken,omitempty"`
}

// FormSubmitResponse reports the controller state after a dialog submission
type FormSubmitResponse struct {
	State       string            `json:"state"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Values      map[string]string `json:"values"`
	Toast       *Toast            `json:"toast,omitempty"`
	Error       string            `json:"error,omitempty"`
	Close       bool              `json:"close"`
}

// Toast is the user-visible notification of a submission outcome
type Toast struct {
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
