package account

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/umatomo/predict-api/internal/domain/user"
	"github.com/umatomo/predict-api/internal/platform/logging"
	"github.com/umatomo/predict-api/internal/platform/resilience"
	"github.com/umatomo/predict-api/internal/usecase"
)

// Client verifies bearer tokens against the account service's introspection
// endpoint. A shared circuit breaker keeps a dead account service from
// stalling every authorized request.
type Client struct {
	httpClient    *fasthttp.Client
	introspectURL string
	adminKey      string
	timeout       time.Duration
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(baseURL, introspectPath, adminKey string, timeout time.Duration, breaker *resilience.CircuitBreaker, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		introspectURL: buildURL(baseURL, introspectPath),
		adminKey:      adminKey,
		timeout:       timeout,
		breaker:       breaker,
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, errors.Wrap(usecase.ErrDependencyUnavailable, "account introspection circuit open")
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.breaker != nil {
		// Auth denials are valid answers from the account service, only
		// transport and 5xx failures count against the breaker.
		if err != nil && !errors.Is(err, usecase.ErrUnauthorized) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return principal, err
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	payload := bytebufferpool.Get()
	defer bytebufferpool.Put(payload)

	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "marshal introspect request")
	}
	if _, err := payload.Write(encoded); err != nil {
		return user.Principal{}, errors.Wrap(err, "buffer introspect request")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("X-Admin-Key", c.adminKey)
	}
	req.SetBodyRaw(payload.Bytes())

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return user.Principal{}, errors.Wrap(err, "request introspection from account service")
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "introspection denied")
	}
	if status != fasthttp.StatusOK {
		c.logger.WarnContext(ctx, "account introspection non-200", "status_code", status)
		return user.Principal{}, errors.Newf("account introspection failed with status %d", status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, errors.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "inactive token")
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
