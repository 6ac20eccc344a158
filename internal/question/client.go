// Package question generates trivia questions through an external model.
//
// A [Client] wraps a [Provider] with the retry policy: up to MaxAttempts
// requests, waiting BaseDelay × attempt between them, where every attempt is
// a fresh request rather than a re-parse. Responses are checked by the pure
// [ParseQuestion], which tolerates prose around the JSON object.
package question

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
	"github.com/shubham-0921/kbc-ai/internal/logging"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Client generates validated questions with retry.
type Client struct {
	provider    Provider
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time
	newID       func() string
	rng         *rand.Rand
	logger      *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMaxAttempts sets the total number of attempts (minimum 1).
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the delay unit between attempts.
func WithBaseDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.baseDelay = d
		}
	}
}

// WithSleep replaces the wait between attempts. Tests use it to record
// delays without sleeping.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		c.sleep = fn
	}
}

// WithClock sets the time source for GeneratedAt and the freshness hint.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithRand sets the source for prompt hints.
func WithRand(rng *rand.Rand) ClientOption {
	return func(c *Client) {
		c.rng = rng
	}
}

// WithIDFunc overrides question ID generation.
func WithIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.newID = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client over provider.
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:    provider,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       sleepContext,
		now:         time.Now,
		newID:       uuid.NewString,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:      logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("question")
	return c
}

// Generate requests a question about topic. The returned Question has its
// ID, Topic and GeneratedAt set; TeamID is left for the caller.
//
// On exhaustion it returns a *errors.GenerationError wrapping the last
// attempt's error. A canceled context stops the retry loop immediately.
func (c *Client) Generate(ctx context.Context, topic string) (game.Question, error) {
	if c.provider == nil {
		return game.Question{}, kbcerrors.NewGenerationError(topic, 0, kbcerrors.ErrNotConfigured)
	}

	var lastErr error
	attempt := 0
	for attempt < c.maxAttempts {
		attempt++
		if attempt > 1 {
			delay := c.baseDelay * time.Duration(attempt-1)
			if err := c.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		q, err := c.attempt(ctx, topic)
		if err == nil {
			c.logger.Debug("question generated", "topic", topic, "attempt", attempt)
			return q, nil
		}
		lastErr = err
		c.logger.Warn("question attempt failed", "topic", topic, "attempt", attempt, "error", err.Error())

		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}

	return game.Question{}, kbcerrors.NewGenerationError(topic, attempt, lastErr)
}

func (c *Client) attempt(ctx context.Context, topic string) (game.Question, error) {
	now := c.now()
	content, err := c.provider.Complete(ctx, buildPrompt(topic, now, c.rng))
	if err != nil {
		return game.Question{}, err
	}
	draft, err := ParseQuestion(content)
	if err != nil {
		return game.Question{}, err
	}
	return game.Question{
		ID:           c.newID(),
		Topic:        topic,
		Text:         draft.Question,
		Options:      draft.Options,
		CorrectIndex: draft.CorrectIndex,
		Explanation:  draft.Explanation,
		GeneratedAt:  now,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
