package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shabadpapers/shabad-api/config"
	"github.com/shabadpapers/shabad-api/internal/models"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/httpclient"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/shabadpapers/shabad-api/pkg/relay"
	"github.com/shabadpapers/shabad-api/pkg/trigger"
	"go.uber.org/zap"
)

// User-facing inquiry messages
const (
	MsgInvalidInput        = "Invalid input."
	MsgCaptchaFailed       = "Captcha verification failed."
	MsgInquiryUnavailable  = "Inquiries are temporarily unavailable. Please try again later."
	MsgInquiryNetworkError = "Could not reach the inquiry service. Please check your connection and try again."
	MsgInquiryRejected     = "Failed to send inquiry."
)

// RecaptchaTokenField is stripped from the submitted values before relaying
const RecaptchaTokenField = "recaptchaToken"

// Payload keys the service injects; submitted values never override them
const (
	payloadAccessKey = "access_key"
	payloadSubject   = "subject"
	payloadFromName  = "from_name"
)

var inquiryValidator = validator.New()

// InquiryRelay delivers an inquiry payload to the mail relay
type InquiryRelay interface {
	Send(ctx context.Context, payload map[string]any) (*relay.Response, error)
}

// CaptchaVerifier checks a captcha token
type CaptchaVerifier interface {
	Enabled() bool
	Verify(token string) error
}

// InquiryService relays validated inquiries to the mail relay service
type InquiryService struct {
	relay      InquiryRelay
	verifier   CaptchaVerifier
	config     config.InquiryConfig
	httpClient httpclient.Client
}

// NewInquiryService creates a new inquiry service instance
func NewInquiryService(
	relayClient InquiryRelay,
	verifier CaptchaVerifier,
	cfg *config.Config,
	httpClient httpclient.Client,
) *InquiryService {
	return &InquiryService{
		relay:      relayClient,
		verifier:   verifier,
		config:     cfg.Inquiry,
		httpClient: httpClient,
	}
}

// SubmitInquiry validates values and relays them once. The response is always
// set and carries the user-facing message; the error carries the failure kind.
func (s *InquiryService) SubmitInquiry(ctx context.Context, req models.InquiryRequest) (*models.InquiryResponse, error) {
	contact, err := parseInquiry(req)
	if err != nil {
		metrics.InquirySubmissions.WithLabelValues("invalid").Inc()
		logger.Debug("Inquiry rejected", zap.Error(err))
		return failed(MsgInvalidInput), err
	}

	if s.config.RelayAccessKey == "" {
		metrics.InquirySubmissions.WithLabelValues("config_error").Inc()
		err := apperrors.ConfigurationError("INQUIRY_RELAY_ACCESS_KEY")
		logger.Error("Inquiry relay is not configured", zap.Error(err))
		return failed(MsgInquiryUnavailable), err
	}

	if s.verifier != nil && s.verifier.Enabled() {
		token, _ := req[RecaptchaTokenField].(string)
		if err := s.verifier.Verify(token); err != nil {
			metrics.InquirySubmissions.WithLabelValues("captcha_failed").Inc()
			logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
			return failed(MsgCaptchaFailed), apperrors.InvalidInputError(RecaptchaTokenField, err.Error())
		}
	}

	payload := s.buildPayload(req, contact)

	if _, err := s.relay.Send(ctx, payload); err != nil {
		var relayErr *apperrors.RelayError
		if apperrors.As(err, &relayErr) {
			metrics.InquirySubmissions.WithLabelValues("rejected").Inc()
			logger.Warn("Inquiry relay rejected submission", zap.String("relay_message", relayErr.Message))
			msg := relayErr.Message
			if msg == "" {
				msg = MsgInquiryRejected
			}
			return failed(msg), err
		}

		metrics.InquirySubmissions.WithLabelValues("network_error").Inc()
		logger.Error("Inquiry relay unreachable", zap.Error(err))
		return failed(MsgInquiryNetworkError), err
	}

	metrics.InquirySubmissions.WithLabelValues("success").Inc()
	logger.Info("Inquiry relayed", zap.String("product", contact.product))

	trigger.CallAsync(s.config.CreatedTriggerURL, models.InquiryCreatedEvent{
		Name:    contact.name,
		Email:   contact.email,
		Product: contact.product,
		Subject: payload[payloadSubject].(string),
	}, s.httpClient)

	return &models.InquiryResponse{Success: true}, nil
}

type inquiryContact struct {
	name    string
	email   string
	product string
}

// parseInquiry enforces the permissive inquiry schema: name and message are
// strings, email is a valid address, anything else passes through
func parseInquiry(req models.InquiryRequest) (inquiryContact, error) {
	name, ok := req[models.FieldNameName].(string)
	if !ok {
		return inquiryContact{}, apperrors.InvalidInputError(models.FieldNameName, "must be a string")
	}
	if _, ok := req[models.FieldNameMessage].(string); !ok {
		return inquiryContact{}, apperrors.InvalidInputError(models.FieldNameMessage, "must be a string")
	}
	email, ok := req[models.FieldNameEmail].(string)
	if !ok {
		return inquiryContact{}, apperrors.InvalidInputError(models.FieldNameEmail, "must be a string")
	}
	if err := inquiryValidator.Var(email, "required,email"); err != nil {
		return inquiryContact{}, apperrors.InvalidInputError(models.FieldNameEmail, "must be a valid email")
	}

	product, _ := req[models.FieldNameProduct].(string)
	return inquiryContact{name: name, email: email, product: strings.TrimSpace(product)}, nil
}

func (s *InquiryService) buildPayload(req models.InquiryRequest, contact inquiryContact) map[string]any {
	payload := make(map[string]any, len(req)+3)
	for k, v := range req {
		if k == RecaptchaTokenField {
			continue
		}
		payload[k] = v
	}

	payload[payloadAccessKey] = s.config.RelayAccessKey
	payload[payloadSubject] = inquirySubject(contact)
	payload[payloadFromName] = s.config.FromName
	return payload
}

func inquirySubject(contact inquiryContact) string {
	subject := fmt.Sprintf("New inquiry from %s", contact.name)
	if contact.product != "" {
		subject += fmt.Sprintf(" about %s", contact.product)
	}
	return subject
}

func failed(msg string) *models.InquiryResponse {
	return &models.InquiryResponse{Success: false, Error: msg}
}
