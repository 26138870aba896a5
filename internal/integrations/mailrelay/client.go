package mailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bellefontaine/circuit-booking/pkg/metrics"
)

const maxErrorBody = 4 << 10

// Client клиент сервиса отправки писем
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
		log:     log,
	}
}

// Send отправляет письмо по шаблону
func (c *Client) Send(ctx context.Context, to, templateID string, data map[string]interface{}) error {
	err := c.send(ctx, &SendEmailRequest{
		To:                  to,
		TemplateID:          templateID,
		DynamicTemplateData: data,
	})
	c.metrics.RelayDelivery(templateID, err == nil)

	if err != nil {
		c.log.Warn("MailRelay: failed to send template=%s to=%s: %v", templateID, to, err)
		return err
	}

	c.log.Info("MailRelay: sent template=%s to=%s", templateID, to)
	return nil
}

func (c *Client) send(ctx context.Context, payload *SendEmailRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrDeliveryFailed, err)
	}

	var result SendEmailResponse
	decodeErr := json.Unmarshal(raw, &result)

	// Обработка статус-кодов
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := strings.TrimSpace(string(raw))
		if decodeErr == nil && result.Error != "" {
			reason = result.Error
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrDeliveryFailed, resp.StatusCode, reason)
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrDeliveryFailed, decodeErr)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, result.Error)
	}

	return nil
}
