package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	apperrors "github.com/go-auth-services/common/errors"
	"github.com/go-auth-services/common/response"
	"github.com/go-auth-services/services/auth/models"
	"github.com/go-auth-services/services/auth/usecase"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	useCase *usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(uc *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: uc}
}

// HandleRegister handles POST /register
func (h *AuthHandler) HandleRegister(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.RegisterRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.useCase.Register(ctx, req); err != nil {
		return errorResponseFor(err)
	}

	return createMessageResponse(http.StatusCreated, "User registered successfully")
}

// HandleLogin handles POST /login
func (h *AuthHandler) HandleLogin(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.useCase.Login(ctx, req); err != nil {
		return errorResponseFor(err)
	}

	return createMessageResponse(http.StatusOK, "Login successful")
}

// HandleForgotPassword handles POST /forgot-password
func (h *AuthHandler) HandleForgotPassword(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.ForgotPasswordRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.useCase.ForgotPassword(ctx, req); err != nil {
		return errorResponseFor(err)
	}

	// The OTP itself never appears in the response
	return createMessageResponse(http.StatusOK, "OTP sent to your email")
}

// HandleResetPassword handles POST /reset-password
func (h *AuthHandler) HandleResetPassword(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.ResetPasswordRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.useCase.ResetPassword(ctx, req); err != nil {
		return errorResponseFor(err)
	}

	return createMessageResponse(http.StatusOK, "Password reset successful")
}

// Helper functions

// errorResponseFor maps a domain error onto its HTTP status and JSON body.
// Store and delivery failures deliberately collapse to the generic message
// so connection details never reach the client.
func errorResponseFor(err error) (events.APIGatewayProxyResponse, error) {
	appErr := apperrors.ToAppError(err)
	message := appErr.Message
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		message = "An unexpected error occurred. Please try again."
	}
	return createErrorResponse(appErr.HTTPStatus, message)
}

func createMessageResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	resp := response.MessageResponse(message)
	body, _ := json.Marshal(resp)

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

func createErrorResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	resp := response.ErrorResponse(message)
	body, _ := json.Marshal(resp)

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}
