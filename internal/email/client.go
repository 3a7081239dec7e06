package email

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the outbound mail relay. One instance is shared by the
// whole process.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

type SendRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

type SendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Send posts an email through the relay on behalf of one tenant.
func (c *Client) Send(ctx context.Context, clientID string, req SendRequest) (*SendResponse, error) {
	var out SendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/api/%s/email/send", clientID))
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to send email: status %d: %s", resp.StatusCode(), resp.String())
	}
	return &out, nil
}
