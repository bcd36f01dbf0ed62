package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultAttempts       = 3
)

// Client sends solve requests to a Service.
type Client struct {
	nc       *nats.Conn
	subject  string
	timeout  time.Duration
	attempts uint
}

func NewClient(nc *nats.Conn, subject string) *Client {
	return &Client{
		nc:       nc,
		subject:  subject,
		timeout:  DefaultRequestTimeout,
		attempts: DefaultAttempts,
	}
}

// SetTimeout sets how long a single attempt waits for a response.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *Client) SetAttempts(n uint) {
	c.attempts = max(n, 1)
}

// retryable reports whether a failed request may succeed if sent again:
// nobody was listening yet, or the worker was too slow.
func retryable(err error) bool {
	return errors.Is(err, nats.ErrNoResponders) || errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}

// RequestSolve sends req and waits for the response. Transient failures
// are retried with backoff until the attempts run out or ctx is done. An
// error reported by the worker is returned in the response, not as err.
func (c *Client) RequestSolve(ctx context.Context, req *SolveRequest) (*SolveResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var msg *nats.Msg
	err = retry.Do(
		func() error {
			actx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			m, err := c.nc.RequestWithContext(actx, c.subject, data)
			if err != nil {
				return err
			}
			msg = m
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("request-id", req.RequestID).
				Msg("no-response-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, err
	}
	resp := &SolveResponse{}
	if err := json.Unmarshal(msg.Data, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
