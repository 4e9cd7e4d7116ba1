package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Manual smoke run of the full auth flow against a locally running server.
// The OTP is read from the dev-mode mailer log, so run the server without
// SMTP credentials and copy the printed code when prompted.

const baseURL = "http://localhost:5000"

func post(path string, payload map[string]string) (int, string) {
	body, _ := json.Marshal(payload)
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Printf("❌ POST %s failed: %v\n", path, err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func main() {
	email := fmt.Sprintf("smoke.%d@example.com", time.Now().Unix())
	fmt.Println("╔═══════════════════════════════════════════╗")
	fmt.Println("║        AUTH FLOW SMOKE TEST               ║")
	fmt.Println("╚═══════════════════════════════════════════╝")
	fmt.Printf("Account: %s\n", email)

	fmt.Println("\n[1] Register")
	status, body := post("/register", map[string]string{"email": email, "password": "Smoke@123"})
	fmt.Printf("    Status: %d\n    %s\n", status, body)

	fmt.Println("\n[2] Login with wrong password (expect 401)")
	status, body = post("/login", map[string]string{"email": email, "password": "wrong"})
	fmt.Printf("    Status: %d\n    %s\n", status, body)

	fmt.Println("\n[3] Login with correct password")
	status, body = post("/login", map[string]string{"email": email, "password": "Smoke@123"})
	fmt.Printf("    Status: %d\n    %s\n", status, body)

	fmt.Println("\n[4] Forgot password")
	status, body = post("/forgot-password", map[string]string{"email": email})
	fmt.Printf("    Status: %d\n    %s\n", status, body)

	fmt.Print("\n[5] Enter the OTP from the server log: ")
	var otp string
	fmt.Scanln(&otp)

	status, body = post("/reset-password", map[string]string{
		"email": email, "otp": otp, "newPassword": "Smoke@456",
	})
	fmt.Printf("    Status: %d\n    %s\n", status, body)

	fmt.Println("\n[6] Login with new password")
	status, body = post("/login", map[string]string{"email": email, "password": "Smoke@456"})
	fmt.Printf("    Status: %d\n    %s\n", status, body)

	if status == http.StatusOK {
		fmt.Println("\n✅ FLOW COMPLETED")
	} else {
		fmt.Println("\n❌ FLOW FAILED")
	}
}
