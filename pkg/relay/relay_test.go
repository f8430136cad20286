package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/httpclient"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

func newRelayServer(t *testing.T, status int, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSend_Success(t *testing.T) {
	var got map[string]any
	server := newRelayServer(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`, &got)
	client := NewClient(server.URL, httpclient.NewStandardClient())

	resp, err := client.Send(context.Background(), map[string]any{
		"name": "Jo", "email": "jo@x.com", "quantity": "500", "access_key": "k",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]any{"name": "Jo", "email": "jo@x.com", "quantity": "500", "access_key": "k"}, got)
}

func TestSend_RelayRejects(t *testing.T) {
	server := newRelayServer(t, http.StatusBadRequest, `{"success":false,"message":"Invalid recipient"}`, nil)
	client := NewClient(server.URL, httpclient.NewStandardClient())

	resp, err := client.Send(context.Background(), map[string]any{"name": "Jo"})

	require.Error(t, err)
	var relayErr *apperrors.RelayError
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, "Invalid recipient", relayErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrRelay)
	assert.False(t, resp.Success)
}

func TestSend_UndecodableReply(t *testing.T) {
	server := newRelayServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)
	client := NewClient(server.URL, httpclient.NewStandardClient())

	_, err := client.Send(context.Background(), map[string]any{"name": "Jo"})

	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.NotErrorIs(t, err, apperrors.ErrRelay)
}

func TestSend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, httpclient.NewStandardClient()).Send(context.Background(), map[string]any{})

	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestNewClient_DefaultURL(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, DefaultURL, c.url)
}
