package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurex/internal/handlers"
	"insurex/internal/services/otp"
)

// recordingMailer captures the last code instead of sending email.
type recordingMailer struct {
	lastTo   string
	lastCode string
	err      error
}

func (m *recordingMailer) SendOTP(ctx context.Context, to, name, code string) error {
	if m.err != nil {
		return m.err
	}
	m.lastTo = to
	m.lastCode = code
	return nil
}

func postRequest(body any) events.APIGatewayProxyRequest {
	payload, _ := json.Marshal(body)
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       string(payload),
	}
}

func TestOTPHandler_SendAndVerifyFlow(t *testing.T) {
	mailer := &recordingMailer{}
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), mailer)
	ctx := context.Background()

	resp, err := handler.HandleSend(ctx, postRequest(map[string]string{
		"email": "user@example.com",
		"phone": "9876543210",
		"name":  "Test User",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user@example.com", mailer.lastTo)
	require.Len(t, mailer.lastCode, 6)

	resp, err = handler.HandleVerify(ctx, postRequest(map[string]string{
		"email": "user@example.com",
		"phone": "9876543210",
		"otp":   mailer.lastCode,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, true, body["success"])
}

func TestOTPHandler_SendRequiresContact(t *testing.T) {
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), &recordingMailer{})

	resp, err := handler.HandleSend(context.Background(), postRequest(map[string]string{
		"email": "user@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "Email and phone are required")
}

func TestOTPHandler_SendMailerFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), mailer)

	resp, err := handler.HandleSend(context.Background(), postRequest(map[string]string{
		"email": "user@example.com",
		"phone": "9876543210",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestOTPHandler_VerifyWrongCodeReportsAttemptsLeft(t *testing.T) {
	mailer := &recordingMailer{}
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), mailer)
	ctx := context.Background()

	_, err := handler.HandleSend(ctx, postRequest(map[string]string{
		"email": "user@example.com",
		"phone": "9876543210",
	}))
	require.NoError(t, err)

	wrong := "000000"
	if mailer.lastCode == wrong {
		wrong = "111111"
	}

	resp, err := handler.HandleVerify(ctx, postRequest(map[string]string{
		"email": "user@example.com",
		"phone": "9876543210",
		"otp":   wrong,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, float64(2), body["attemptsLeft"])
}

func TestOTPHandler_VerifyUnknownContact(t *testing.T) {
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), &recordingMailer{})

	resp, err := handler.HandleVerify(context.Background(), postRequest(map[string]string{
		"email": "nobody@example.com",
		"phone": "9876543210",
		"otp":   "123456",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "expired or not found")
}

func TestOTPHandler_Preflight(t *testing.T) {
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), &recordingMailer{})

	resp, err := handler.HandleSend(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodOptions,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
}

func TestOTPHandler_MethodNotAllowed(t *testing.T) {
	handler := handlers.NewOTPHandler(otp.NewStore(otp.DefaultTTL), &recordingMailer{})

	resp, err := handler.HandleVerify(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
