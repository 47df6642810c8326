package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://api.mercadopago.com"
	DefaultRequestsPerSecond = 10
	DefaultMaxAttempts       = 3
	maxErrorBody             = 2048
)

// errTransient marks answers worth another try inside the client.
var errTransient = errors.New("transient provider answer")

// restClient reads provider resources the SDK does not cover.
type restClient struct {
	baseURL     string
	token       string
	http        *http.Client
	limiter     *rate.Limiter
	maxAttempts uint64
	backoff     func() backoff.BackOff
}

func newRESTClient(baseURL, token string, httpClient *http.Client, rps float64, maxAttempts int) *restClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &restClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		http:        httpClient,
		limiter:     rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		maxAttempts: uint64(maxAttempts),
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
}

// getJSON fetches path and decodes the body into out. Network errors, 429 and
// 5xx are retried a bounded number of times; everything else fails at once.
func (c *restClient) getJSON(ctx context.Context, op, path string, out any) error {
	attempt := 0
	call := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		body, status, err := c.do(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			log.Printf("[gateway][rest] request failed op=%s attempt=%d err=%v", op, attempt, err)
			return fmt.Errorf("%w: %v", errTransient, err)
		}
		if status == http.StatusTooManyRequests || status >= 500 {
			log.Printf("[gateway][rest] retryable status op=%s attempt=%d status=%d", op, attempt, status)
			return fmt.Errorf("%w: status %d: %s", errTransient, status, truncate(body))
		}
		if status < 200 || status > 299 {
			return backoff.Permanent(fmt.Errorf("status %d: %s", status, truncate(body)))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode body: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxAttempts-1), ctx)
	if err := backoff.Retry(call, policy); err != nil {
		log.Printf("[gateway][rest] giving up op=%s path=%s attempts=%d err=%v", op, path, attempt, err)
		return apperrors.ExternalAPI(op, "provider request failed", err)
	}
	return nil
}

func (c *restClient) do(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody])
	}
	return string(b)
}
