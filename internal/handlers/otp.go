package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"insurex/internal/models"
	"insurex/internal/services/otp"
	"insurex/internal/utils"
)

// OTPHandler handles OTP issuance and verification requests.
type OTPHandler struct {
	store  *otp.Store
	mailer otp.Mailer
}

// NewOTPHandler creates an OTP handler backed by the given store and
// mailer.
func NewOTPHandler(store *otp.Store, mailer otp.Mailer) *OTPHandler {
	return &OTPHandler{store: store, mailer: mailer}
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json",
	}
}

func preflightResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Allow-Methods": "POST, OPTIONS",
		},
	}
}

func jsonResponse(statusCode int, payload any) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(payload)
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    corsHeaders(),
		Body:       string(body),
	}
}

func errorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	return jsonResponse(statusCode, map[string]string{"error": message})
}

// HandleSend issues a fresh OTP and emails it to the requester.
func (h *OTPHandler) HandleSend(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(), nil
	}
	if request.HTTPMethod != http.MethodPost {
		return errorResponse(http.StatusMethodNotAllowed, "Method not allowed"), nil
	}

	var req sendOTPRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body"), nil
	}

	code, err := h.store.Issue(req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, models.ErrMissingContact) {
			return errorResponse(http.StatusBadRequest, "Email and phone are required"), nil
		}
		utils.GetLogger().Error("Failed to issue OTP", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Failed to send OTP"), nil
	}

	if err := h.mailer.SendOTP(ctx, req.Email, req.Name, code); err != nil {
		utils.GetLogger().Error("Failed to send OTP email",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		return errorResponse(http.StatusInternalServerError, "Failed to send OTP email. Please check your email address."), nil
	}

	utils.GetLogger().Info("OTP sent", zap.String("email", req.Email))

	return jsonResponse(http.StatusOK, map[string]any{
		"success": true,
		"message": "OTP sent successfully",
	}), nil
}

// HandleVerify checks a submitted OTP against the pending record.
func (h *OTPHandler) HandleVerify(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(), nil
	}
	if request.HTTPMethod != http.MethodPost {
		return errorResponse(http.StatusMethodNotAllowed, "Method not allowed"), nil
	}

	var req verifyOTPRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body"), nil
	}
	if req.Email == "" || req.Phone == "" || req.OTP == "" {
		return errorResponse(http.StatusBadRequest, "Email, phone, and OTP are required"), nil
	}

	attemptsLeft, err := h.store.Verify(req.Email, req.Phone, req.OTP)
	switch {
	case err == nil:
		return jsonResponse(http.StatusOK, map[string]any{
			"success": true,
			"message": "OTP verified successfully",
		}), nil
	case errors.Is(err, models.ErrOTPNotFound):
		return errorResponse(http.StatusBadRequest, "OTP expired or not found. Please request a new one."), nil
	case errors.Is(err, models.ErrOTPExpired):
		return errorResponse(http.StatusBadRequest, "OTP has expired. Please request a new one."), nil
	case errors.Is(err, models.ErrOTPTooManyAttempts):
		return errorResponse(http.StatusBadRequest, "Too many failed attempts. Please request a new OTP."), nil
	case errors.Is(err, models.ErrOTPMismatch):
		return jsonResponse(http.StatusBadRequest, map[string]any{
			"error":        "Invalid OTP. Please try again.",
			"attemptsLeft": attemptsLeft,
		}), nil
	default:
		utils.GetLogger().Error("Failed to verify OTP", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Failed to verify OTP"), nil
	}
}
