package config

import (
	"fmt"
	"os"
	"strconv"

	"address_book/internal/mailer"
)

// LoadSMTPConfig loads mail server configuration from environment variables
func LoadSMTPConfig() (*mailer.SMTPConfig, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if host == "" || portStr == "" || from == "" {
		return nil, fmt.Errorf("mail environment variables not set (SMTP_HOST, SMTP_PORT, SMTP_FROM)")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	return &mailer.SMTPConfig{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}, nil
}
