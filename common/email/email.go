package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/go-auth-services/common/logger"
)

// ============================================================
// CONFIGURATION & SERVICE
// ============================================================

type Config struct {
	Host        string
	Port        string
	Username    string
	Password    string
	From        string
	FromName    string
	UseTLS      bool
	SkipVerify  bool
	SendTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Host:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:        getEnv("SMTP_PORT", "587"),
		Username:    getEnv("SMTP_USERNAME", ""),
		Password:    getEnv("SMTP_PASSWORD", ""),
		From:        getEnv("SMTP_FROM", "noreply@example.com"),
		FromName:    getEnv("SMTP_FROM_NAME", "Auth Service"),
		UseTLS:      getEnv("SMTP_USE_TLS", "true") == "true",
		SkipVerify:  getEnv("SMTP_SKIP_VERIFY", "false") == "true",
		SendTimeout: 10 * time.Second,
	}
}

// EmailService delivers OTP mail over SMTP. When no credentials are
// configured it runs in dev mode: sends are logged and reported successful,
// so the reset flow stays testable without a mail account.
type EmailService struct {
	config  *Config
	devMode bool
}

func NewEmailService(config *Config) *EmailService {
	if config == nil {
		config = DefaultConfig()
	}
	devMode := config.Username == "" || config.Password == ""
	return &EmailService{
		config:  config,
		devMode: devMode,
	}
}

// ============================================================
// DATA STRUCTURES
// ============================================================

type EmailMessage struct {
	To       []string
	Subject  string
	HTMLBody string
}

// ============================================================
// SENDING ENGINE
// ============================================================

// Send delivers a message through the configured SMTP relay. Unlike a plain
// smtp.SendMail call, every network step runs under a connection deadline so
// a slow relay cannot hold a request open indefinitely.
func (s *EmailService) Send(msg EmailMessage) error {
	if s.devMode {
		logger.Info("email dev mode, skipping send", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)

	conn, err := net.DialTimeout("tcp", addr, s.config.SendTimeout)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(s.config.SendTimeout)); err != nil {
		conn.Close()
		return fmt.Errorf("smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         s.config.Host,
			InsecureSkipVerify: s.config.SkipVerify,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("smtp rcpt to: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(s.buildMessage(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

func (s *EmailService) buildMessage(msg EmailMessage) []byte {
	var body bytes.Buffer
	body.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	body.WriteString(msg.HTMLBody)
	body.WriteString("\r\n")
	return body.Bytes()
}

// ============================================================
// TEMPLATE BUILDERS
// ============================================================

// SendOTPEmail sends the password-reset OTP. The mail never contains
// anything but the code itself; all other reset state stays server-side.
func (s *EmailService) SendOTPEmail(to, otp string) error {
	html := fmt.Sprintf(`<!DOCTYPE html><html><body style="margin:0;padding:0;font-family:Arial;background-color:#f5f5f5;"><table width="100%%" border="0" cellspacing="0" cellpadding="0" bgcolor="#f5f5f5"><tr><td align="center" style="padding:40px 0;"><table width="600" border="0" cellspacing="0" cellpadding="0" bgcolor="#ffffff" style="border-radius:16px;overflow:hidden;box-shadow:0 4px 15px rgba(0,0,0,0.1);">
    <tr><td height="8" bgcolor="#2457F2" style="line-height:8px;font-size:8px;">&nbsp;</td></tr>
    <tr><td align="left" style="padding:35px 40px;"><h1 style="margin:0;color:#2457F2;font-size:24px;font-weight:bold;">%s</h1></td></tr>
    <tr><td style="padding:10px 40px 40px 40px;"><h2 style="color:#000000;margin:0 0 10px 0;">PASSWORD RESET</h2><p>Your OTP for password reset is below. It expires in 15 minutes:</p><table width="100%%" bgcolor="#fafafa" style="border:2px dashed #2457F2;border-radius:8px;"><tr><td align="center" style="padding:25px;"><p style="font-size:42px;font-weight:bold;color:#2457F2;letter-spacing:10px;margin:0;">%s</p></td></tr></table><p style="margin-top:25px;color:#999999;font-size:13px;">If you did not request this, please ignore this email.</p></td></tr></table></td></tr></table></body></html>`,
		s.config.FromName, otp)

	return s.Send(EmailMessage{
		To:       []string{to},
		Subject:  "Password Reset OTP",
		HTMLBody: html,
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
