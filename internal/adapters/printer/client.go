package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"eventdesk/internal/domain"
)

// Client delivers badge payloads to a LAN badge printer over plain HTTP.
// The printer firmware never answers with a useful status, so delivery is
// fire-and-forget: the request runs in the background and Print reports
// success after a fixed settle delay.
type Client struct {
	httpClient *http.Client
	delay      time.Duration
	logger     *slog.Logger
}

func NewClient(delay time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		delay:      delay,
		logger:     logger,
	}
}

var _ domain.BadgePrinter = (*Client)(nil)

func (c *Client) Print(ctx context.Context, ip string, port int, badges []domain.BadgePayload) error {
	body, err := json.Marshal(badges)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	url := fmt.Sprintf("http://%s:%d/", ip, port)

	go func() {
		// Detached from the caller's context so an early HTTP response does
		// not cancel the print job mid-flight.
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			c.logger.Error("build printer request failed", "url", url, "err", err)
			return
		}
		// The firmware rejects application/json.
		req.Header.Set("Content-Type", "text/plain;charset=UTF-8")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("printer request failed", "url", url, "err", err)
			return
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
	}()

	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
