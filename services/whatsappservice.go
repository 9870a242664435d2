package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WhatsAppClient posts messages to a Fonnte-style WhatsApp gateway.
type WhatsAppClient struct {
	url         string
	token       string
	countryCode string
	http        *http.Client
}

func NewWhatsAppClient(url, token, countryCode string) *WhatsAppClient {
	return &WhatsAppClient{
		url:         url,
		token:       token,
		countryCode: countryCode,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

type whatsAppMessage struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

func (c *WhatsAppClient) Send(ctx context.Context, phone, message string) error {
	target := NormalizePhone(phone, c.countryCode)
	if target == "" {
		return fmt.Errorf("%w: empty phone number", ErrInvalidInput)
	}

	body, err := json.Marshal(whatsAppMessage{Target: target, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// NormalizePhone strips formatting and rewrites a leading trunk 0 into the
// country code, so "0812-3456" becomes "628123456" for country code 62.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		digits = countryCode + digits[1:]
	}
	return digits
}
