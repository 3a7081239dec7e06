package erp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	loginPath = "/security/login"

	// Fixed socket timeout for every outbound ERP call.
	requestTimeout = 10 * time.Second
)

type Config struct {
	BaseURL      string
	Username     string
	Password     string
	CompanyVATID string
}

// Token is the ERP's bearer token with its server-side expiry.
type Token struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// Gateway owns the single HTTP client and the cached bearer token for the
// Laudus ERP. Token refresh is serialized by a mutex so concurrent requests
// hitting an expired token trigger exactly one login.
type Gateway struct {
	cfg  Config
	http *resty.Client
	now  func() time.Time

	mu    sync.Mutex
	token Token
}

func NewGateway(cfg Config) *Gateway {
	g := &Gateway{
		cfg: cfg,
		now: time.Now,
	}
	g.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	g.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if strings.HasSuffix(req.URL, loginPath) {
			return nil
		}
		token, err := g.getValidToken(req.Context())
		if err != nil {
			return err
		}
		req.SetHeader("Authorization", "Bearer "+token.Token)
		return nil
	})

	return g
}

func (g *Gateway) getValidToken(ctx context.Context) (Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token.Token != "" && g.token.Expiration.After(g.now()) {
		return g.token, nil
	}

	var token Token
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"userName":     g.cfg.Username,
			"password":     g.cfg.Password,
			"companyVATId": g.cfg.CompanyVATID,
		}).
		SetResult(&token).
		Post(loginPath)
	if err != nil {
		return Token{}, fmt.Errorf("failed to get Laudus token: %w", err)
	}
	if resp.IsError() {
		return Token{}, fmt.Errorf("failed to get Laudus token: status %d: %s", resp.StatusCode(), resp.String())
	}

	g.token = token
	return g.token, nil
}

// listRequest is the Laudus list-endpoint envelope.
type listRequest struct {
	Options  listOptions `json:"options"`
	Fields   []string    `json:"fields"`
	FilterBy []any       `json:"filterBy"`
	OrderBy  []any       `json:"orderBy"`
}

type listOptions struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

func (g *Gateway) list(ctx context.Context, path string, fields []string, out any) error {
	body := listRequest{
		Options:  listOptions{Offset: 0, Limit: 0},
		Fields:   fields,
		FilterBy: []any{},
		OrderBy:  []any{},
	}
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		Post(path)
	return parseError(resp, err)
}

// parseError folds transport and HTTP-level failures into one wrapped,
// untyped error; the error sink reports these as 500s.
func parseError(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("laudus request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("laudus request failed: status %d %s: %s",
			resp.StatusCode(), resp.Status(), resp.String())
	}
	return nil
}
