package onem2m

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/nerrad567/mood-node/internal/infrastructure/config"
)

// releaseVersionIndicator is the oneM2M protocol release this node speaks.
const releaseVersionIndicator = "3"

// Logger is the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Client issues oneM2M requests against the MN-CSE.
//
// The client itself holds no mutable state beyond the underlying HTTP
// transport; all methods are safe for concurrent use. Each sensor channel
// blocks on its own calls without affecting the others.
type Client struct {
	http   *resty.Client
	paths  Paths
	logger Logger
}

// NewClient creates a oneM2M client for the configured CSE.
//
// Every request carries:
//   - X-M2M-Origin: the configured originator identity
//   - X-M2M-RI: a fresh UUID correlation identifier
//   - X-M2M-RVI: the protocol release version
//   - Accept: application/json
//
// The per-request timeout bounds every call; there are no client-level
// retries beyond the explicit ProbeReady loop.
func NewClient(cfg config.CSEConfig, paths Paths) *Client {
	httpClient := resty.New().
		SetBaseURL(paths.Base).
		SetTimeout(cfg.GetRequestTimeout()).
		SetHeader("Accept", "application/json").
		SetHeader("X-M2M-Origin", cfg.Originator).
		SetHeader("X-M2M-RVI", releaseVersionIndicator)

	// Correlation identifier must be unique per request, not per client.
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-M2M-RI", uuid.NewString())
		return nil
	})

	return &Client{
		http:   httpClient,
		paths:  paths,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Paths returns the immutable path hierarchy this client operates on.
func (c *Client) Paths() Paths {
	return c.paths
}

// ProbeReady polls the CSE root until it responds, up to maxAttempts with a
// fixed delay between attempts.
//
// HTTP 200 and 403 both count as ready: 403 means the CSE is reachable but
// the originator is not authorised to retrieve the root, which is fine at
// this layer. Returns false once attempts are exhausted or the context is
// cancelled.
func (c *Client) ProbeReady(ctx context.Context, maxAttempts int, retryDelay time.Duration) bool {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res := c.Get(ctx, c.paths.CSE)
		if res.Status == http.StatusOK || res.Status == http.StatusForbidden {
			c.logger.Info("CSE ready", "attempt", attempt)
			return true
		}

		c.logger.Debug("CSE not ready",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"result", res.String(),
		)

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(retryDelay):
		}
	}
	return false
}

// Get retrieves a resource. 200 is success; anything else is failure.
func (c *Client) Get(ctx context.Context, path string) Result {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return failure(StatusNoResponse)
	}

	if resp.StatusCode() == http.StatusOK {
		return success(resp.StatusCode())
	}
	return failure(resp.StatusCode())
}

// CreateIfAbsent creates a resource under parentPath.
//
// Creation is idempotent at the application layer: HTTP 201 (created) and
// 409 (already exists) are both success, so re-provisioning after a restart
// is safe. Any other status, or no response at all, is failure.
func (c *Client) CreateIfAbsent(ctx context.Context, parentPath string, resourceType int, body Body) Result {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", fmt.Sprintf("application/json;ty=%d", resourceType)).
		SetBody(body).
		Post(parentPath)
	if err != nil {
		return failure(StatusNoResponse)
	}

	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusConflict:
		return success(resp.StatusCode())
	default:
		return failure(resp.StatusCode())
	}
}

// Update applies an attribute update to an existing resource.
// HTTP 200 and 204 are success; anything else is failure.
func (c *Client) Update(ctx context.Context, path string, body Body) Result {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(path)
	if err != nil {
		return failure(StatusNoResponse)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return success(resp.StatusCode())
	default:
		return failure(resp.StatusCode())
	}
}

// Subscribe creates a subscription on path delivering the given event types
// to notifyURL. Follows the same create-idempotency rule as CreateIfAbsent.
func (c *Client) Subscribe(ctx context.Context, path, name, notifyURL string, events []int) Result {
	return c.CreateIfAbsent(ctx, path, ResourceTypeSubscription, Subscription(name, notifyURL, events))
}

// Delete removes a resource. HTTP 200 and 204 are success.
//
// The node never deletes its own provisioned tree in steady state; this
// exists for operational cleanup tooling.
func (c *Client) Delete(ctx context.Context, path string) Result {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(path)
	if err != nil {
		return failure(StatusNoResponse)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return success(resp.StatusCode())
	default:
		return failure(resp.StatusCode())
	}
}
