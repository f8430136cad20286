package models

// SustainabilityNotSpecified replaces an omitted sustainability requirement
const SustainabilityNotSpecified = "Not specified"

// SuggestionRequest is the body of the getPaperSuggestion endpoint
type SuggestionRequest struct {
	PaperType               string `json:"paperType" binding:"required"`
	Quantity                string `json:"quantity" binding:"required"`
	UseCase                 string `json:"useCase" binding:"required"`
	Finish                  string `json:"finish" binding:"required"`
	SustainabilityStandards string `json:"sustainabilityStandards"`
}

// SuggestionPromptInput is what the prompt template is filled with
type SuggestionPromptInput struct {
	PaperType               string
	Quantity                string
	UseCase                 string
	Finish                  string
	SustainabilityStandards string
	ProductCatalog          string
}

// SuggestionResult is the structured answer of the text-generation call
type SuggestionResult struct {
	Suggestions []string `json:"suggestions"`
	Reasoning   string   `json:"reasoning"`
}

// SuggestionResponse wraps the result the way the site expects it
type SuggestionResponse struct {
	Data  *SuggestionResult `json:"data,omitempty"`
	Error string            `json:"error,omitempty"`
}
