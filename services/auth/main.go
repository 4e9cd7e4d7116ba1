package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/go-auth-services/common/db"
	"github.com/go-auth-services/common/email"
	"github.com/go-auth-services/common/logger"
	"github.com/go-auth-services/common/redisx"
	"github.com/go-auth-services/services/auth/handler"
	"github.com/go-auth-services/services/auth/repository"
	"github.com/go-auth-services/services/auth/usecase"
)

var authHandler *handler.AuthHandler

func init() {
	log := logger.Default()

	// Credential store failure is fatal: nothing works without it
	pool, err := db.Connect(db.DefaultConfig())
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	// Ephemeral store failure only degrades the reset flow
	redisClient, err := redisx.Connect(redisx.DefaultConfig())
	if err != nil {
		log.Warn("redis unavailable, password reset flow degraded", "error", err)
	}

	authHandler = handler.NewAuthHandler(usecase.NewAuthUseCase(
		repository.NewUserRepository(pool),
		usecase.NewOTPManager(redisClient),
		email.NewEmailService(nil),
	))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := request.Path
	method := request.HTTPMethod

	switch {
	case path == "/register" && method == "POST":
		return authHandler.HandleRegister(ctx, request)

	case path == "/login" && method == "POST":
		return authHandler.HandleLogin(ctx, request)

	case path == "/forgot-password" && method == "POST":
		return authHandler.HandleForgotPassword(ctx, request)

	case path == "/reset-password" && method == "POST":
		return authHandler.HandleResetPassword(ctx, request)

	default:
		return events.APIGatewayProxyResponse{
			StatusCode: 404,
			Body:       `{"error":"Not Found"}`,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		}, nil
	}
}

func main() {
	lambda.Start(Handler)
}
