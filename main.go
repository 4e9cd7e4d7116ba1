package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/joho/godotenv"

	"github.com/go-auth-services/common/db"
	"github.com/go-auth-services/common/email"
	"github.com/go-auth-services/common/logger"
	"github.com/go-auth-services/common/redisx"
	authHandler "github.com/go-auth-services/services/auth/handler"
	authRepository "github.com/go-auth-services/services/auth/repository"
	authUsecase "github.com/go-auth-services/services/auth/usecase"
)

// lambdaHandlerFunc is the shape every auth handler shares, so the local
// server can run the exact handlers the Lambda entrypoint runs.
type lambdaHandlerFunc func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// adaptRequest converts http.Request to APIGatewayProxyRequest
func adaptRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}
	defer r.Body.Close()

	headers := make(map[string]string)
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod: r.Method,
		Path:       r.URL.Path,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// writeResponse writes APIGatewayProxyResponse to http.ResponseWriter
func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	w.Write([]byte(resp.Body))
}

// corsMiddleware handles CORS preflight requests and logs each request
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// route wires one lambda-shaped handler into the local HTTP server
func route(log *logger.Logger, h lambdaHandlerFunc) http.HandlerFunc {
	return corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if r.Method != http.MethodPost {
			http.Error(rec, `{"error":"Method Not Allowed"}`, http.StatusMethodNotAllowed)
		} else if req, err := adaptRequest(r); err != nil {
			http.Error(rec, `{"error":"Invalid request"}`, http.StatusBadRequest)
		} else if resp, err := h(r.Context(), req); err != nil {
			http.Error(rec, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		} else {
			rec.status = resp.StatusCode
			writeResponse(w, resp)
		}

		log.LogRequest(logger.RequestLog{
			Method:   r.Method,
			Path:     r.URL.Path,
			Status:   rec.status,
			Duration: time.Since(start),
			ClientIP: clientIP(r),
		})
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment variables")
	}

	log := logger.Default()

	// Credential store failure is fatal at boot
	pool, err := db.Connect(db.DefaultConfig())
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	// Ephemeral store failure only degrades the reset flow
	redisClient, err := redisx.Connect(redisx.DefaultConfig())
	if err != nil {
		log.Warn("redis unavailable, password reset flow degraded", "error", err)
	} else {
		log.Info("connected to redis")
	}
	defer redisClient.Close()

	h := authHandler.NewAuthHandler(authUsecase.NewAuthUseCase(
		authRepository.NewUserRepository(pool),
		authUsecase.NewOTPManager(redisClient),
		email.NewEmailService(nil),
	))

	http.HandleFunc("/register", route(log, h.HandleRegister))
	http.HandleFunc("/login", route(log, h.HandleLogin))
	http.HandleFunc("/forgot-password", route(log, h.HandleForgotPassword))
	http.HandleFunc("/reset-password", route(log, h.HandleResetPassword))

	http.HandleFunc("/health", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}))

	port := getEnv("PORT", "5000")
	log.Info("server running", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
