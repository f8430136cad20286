package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shabadpapers/shabad-api/config"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/services"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func inquiryConfig(accessKey string) *config.Config {
	return &config.Config{
		Inquiry: config.InquiryConfig{
			RelayAccessKey: accessKey,
			FromName:       "Shabad Papers Website",
		},
	}
}

func disabledCaptcha() *MockCaptchaVerifier {
	v := new(MockCaptchaVerifier)
	v.On("Enabled").Return(false)
	return v
}

func TestInquiryService_SubmitInquiry_Success(t *testing.T) {
	relayClient := new(MockRelay)
	service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig("key-123"), nil)

	expected := map[string]any{
		"name":       "Jo",
		"email":      "jo@x.com",
		"message":    "Need 500kg glossy paper",
		"product":    "Coated Paper",
		"quantity":   float64(500),
		"access_key": "key-123",
		"subject":    "New inquiry from Jo about Coated Paper",
		"from_name":  "Shabad Papers Website",
	}
	relayClient.On("Send", mock.Anything, expected).Return(&relay.Response{Success: true}, nil).Once()

	resp, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "Need 500kg glossy paper",
		"product": "Coated Paper", "quantity": float64(500), "recaptchaToken": "tok",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	relayClient.AssertExpectations(t)
}

func TestInquiryService_SubmitInquiry_SubjectWithoutProduct(t *testing.T) {
	relayClient := new(MockRelay)
	service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig("key"), nil)

	relayClient.On("Send", mock.Anything, mock.MatchedBy(func(p map[string]any) bool {
		return p["subject"] == "New inquiry from Jo"
	})).Return(&relay.Response{Success: true}, nil).Once()

	resp, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "hello",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	relayClient.AssertExpectations(t)
}

func TestInquiryService_SubmitInquiry_InjectedFieldsWin(t *testing.T) {
	relayClient := new(MockRelay)
	service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig("real-key"), nil)

	relayClient.On("Send", mock.Anything, mock.MatchedBy(func(p map[string]any) bool {
		return p["access_key"] == "real-key" && p["from_name"] == "Shabad Papers Website"
	})).Return(&relay.Response{Success: true}, nil).Once()

	_, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "hello", "access_key": "stolen", "from_name": "spoof",
	})

	require.NoError(t, err)
	relayClient.AssertExpectations(t)
}

func TestInquiryService_SubmitInquiry_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  models.InquiryRequest
	}{
		{"missing name", models.InquiryRequest{"email": "jo@x.com", "message": "hi"}},
		{"name not a string", models.InquiryRequest{"name": 42, "email": "jo@x.com", "message": "hi"}},
		{"bad email", models.InquiryRequest{"name": "Jo", "email": "not-an-email", "message": "hi"}},
		{"missing message", models.InquiryRequest{"name": "Jo", "email": "jo@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relayClient := new(MockRelay)
			service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig("key"), nil)

			resp, err := service.SubmitInquiry(context.Background(), tt.req)

			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.False(t, resp.Success)
			assert.Equal(t, "Invalid input.", resp.Error)
			relayClient.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestInquiryService_SubmitInquiry_MissingAccessKey(t *testing.T) {
	relayClient := new(MockRelay)
	service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig(""), nil)

	resp, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "hello",
	})

	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.False(t, resp.Success)
	assert.Equal(t, services.MsgInquiryUnavailable, resp.Error)
	assert.NotContains(t, resp.Error, "INQUIRY_RELAY_ACCESS_KEY")
	relayClient.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestInquiryService_SubmitInquiry_RelayRejects(t *testing.T) {
	relayClient := new(MockRelay)
	service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig("key"), nil)

	relayClient.On("Send", mock.Anything, mock.Anything).
		Return(&relay.Response{Success: false, Message: "Invalid recipient"}, &apperrors.RelayError{Message: "Invalid recipient"}).Once()

	resp, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "hello",
	})

	assert.ErrorIs(t, err, apperrors.ErrRelay)
	assert.Equal(t, "Invalid recipient", resp.Error)
	relayClient.AssertNumberOfCalls(t, "Send", 1)
}

func TestInquiryService_SubmitInquiry_NetworkFailureIsNotRetried(t *testing.T) {
	relayClient := new(MockRelay)
	service := services.NewInquiryService(relayClient, disabledCaptcha(), inquiryConfig("key"), nil)

	relayClient.On("Send", mock.Anything, mock.Anything).
		Return(nil, apperrors.NetworkError("inquiry_relay", errors.New("dial tcp: timeout"))).Once()

	resp, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "hello",
	})

	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.Equal(t, services.MsgInquiryNetworkError, resp.Error)
	assert.NotContains(t, resp.Error, "dial tcp")
	relayClient.AssertNumberOfCalls(t, "Send", 1)
}

func TestInquiryService_SubmitInquiry_Captcha(t *testing.T) {
	relayClient := new(MockRelay)
	verifier := new(MockCaptchaVerifier)
	verifier.On("Enabled").Return(true)
	verifier.On("Verify", "bad-token").Return(errors.New("recaptcha verification failed")).Once()
	service := services.NewInquiryService(relayClient, verifier, inquiryConfig("key"), nil)

	resp, err := service.SubmitInquiry(context.Background(), models.InquiryRequest{
		"name": "Jo", "email": "jo@x.com", "message": "hello", "recaptchaToken": "bad-token",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, services.MsgCaptchaFailed, resp.Error)
	relayClient.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	verifier.AssertExpectations(t)
}
