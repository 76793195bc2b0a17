package gatewayimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/appservices/hush-stories/internal/gateway"
	"github.com/appservices/hush-stories/internal/ratelimit"
	"github.com/appservices/hush-stories/pkg/config"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/appservices/hush-stories/pkg/retry"
	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger logger.Logger
	Config *config.Config
}

type GatewayImpl struct {
	Logger   logger.Logger
	Config   *config.Config
	http     *http.Client
	viewRate ratelimit.Limiter
}

func New(opts Opts) *GatewayImpl {
	return &GatewayImpl{
		Logger: opts.Logger.WithComponent("Gateway"),
		Config: opts.Config,
		http: &http.Client{
			Timeout: time.Duration(opts.Config.Api.TimeoutSeconds) * time.Second,
		},
		// The server throttles view notifications aggressively, keep under it.
		viewRate: ratelimit.NewInMemoryLimiter(1, time.Second, 10),
	}
}

var _ gateway.Client = (*GatewayImpl)(nil)

// envelope is the legacy response wrapper shared by every story endpoint.
type envelope struct {
	Error        int                `json:"error"`
	ErrorMessage string             `json:"error_m"`
	Story        int                `json:"story"`
	Stories      []gateway.StoryDTO `json:"stories"`
	Path         string             `json:"path"`
	Thumb        string             `json:"thumb"`
}

// call performs one action request against the endpoint. Transport failures
// are retried with backoff; a decoded response with a non-zero error code is
// permanent and returned as ServerRejected.
func (g *GatewayImpl) call(ctx context.Context, operation string, params url.Values) (*envelope, error) {
	reqURL := g.Config.Api.Endpoint + "?" + params.Encode()

	var env envelope
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := g.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrNetworkUnavailable, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrNetworkUnavailable, err)
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: status %d", apperrors.ErrNetworkUnavailable, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		env = envelope{}
		if err := json.Unmarshal(body, &env); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", operation, err))
		}
		return nil
	}

	if err := retry.Do(ctx, g.Logger, operation, op, retry.DefaultConfig()); err != nil {
		return nil, err
	}
	return &env, nil
}

func (g *GatewayImpl) post(ctx context.Context, operation, contentType string, params url.Values, body io.Reader) (*envelope, error) {
	reqURL := g.Config.Api.Endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNetworkUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", operation, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", operation, err)
	}
	return &env, nil
}

func actionParams(action string, kv ...string) url.Values {
	params := url.Values{}
	params.Set("action", action)
	for i := 0; i+1 < len(kv); i += 2 {
		params.Set(kv[i], kv[i+1])
	}
	return params
}
