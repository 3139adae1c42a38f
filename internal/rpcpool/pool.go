// Package rpcpool executes chain operations against an ordered list of RPC
// endpoints per chain, retrying rate limits with exponential backoff and
// rotating to the next endpoint when one is exhausted. Endpoint failure
// counters feed logging only; every endpoint is eligible again on the next
// call.
package rpcpool

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/relayerr"
)

// Op is one chain operation. The pool hands it a connected client; the op
// must respect ctx, which carries the per-call timeout.
type Op func(ctx context.Context, eth *ethclient.Client) error

type endpoint struct {
	url string

	mu     sync.Mutex
	client *ethclient.Client // dialed lazily, reused across calls

	failures atomic.Int64
	lastUsed atomic.Int64 // unix seconds
}

func (e *endpoint) dial(ctx context.Context) (*ethclient.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	c, err := ethclient.DialContext(ctx, e.url)
	if err != nil {
		return nil, err
	}
	e.client = c
	return c, nil
}

// drop discards the cached client so the next attempt re-dials.
func (e *endpoint) drop() {
	e.mu.Lock()
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
	e.mu.Unlock()
}

type Pool struct {
	chains      map[int64][]*endpoint
	retries     int
	callTimeout time.Duration
	backoffBase time.Duration
	log         *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

type Options struct {
	RetriesPerEndpoint int
	CallTimeout        time.Duration
	BackoffBase        time.Duration
}

func New(endpoints map[int64][]string, opts Options, log *zap.Logger) *Pool {
	if opts.RetriesPerEndpoint <= 0 {
		opts.RetriesPerEndpoint = 3
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 500 * time.Millisecond
	}
	chains := make(map[int64][]*endpoint, len(endpoints))
	for chainID, urls := range endpoints {
		eps := make([]*endpoint, len(urls))
		for i, u := range urls {
			eps[i] = &endpoint{url: u}
		}
		chains[chainID] = eps
	}
	return &Pool{
		chains:      chains,
		retries:     opts.RetriesPerEndpoint,
		callTimeout: opts.CallTimeout,
		backoffBase: opts.BackoffBase,
		log:         log,
		sleep:       sleepCtx,
	}
}

// Execute runs op against chainID's endpoints in order. Each endpoint gets up
// to the configured retry budget; rate-limit errors back off exponentially
// with jitter, other transient errors back off linearly. Non-retryable errors
// surface immediately without consuming budget. When every endpoint is
// exhausted the result is RPC_RATE_LIMITED (if the last failure was a rate
// limit) or RPC_UNAVAILABLE, wrapping the last underlying error.
func (p *Pool) Execute(ctx context.Context, chainID int64, op Op) error {
	eps, ok := p.chains[chainID]
	if !ok {
		return relayerr.New(relayerr.KindBadRequest, "unsupported chain %d", chainID)
	}

	var lastErr error
	lastRateLimited := false

	for _, ep := range eps {
		for attempt := 0; attempt < p.retries; attempt++ {
			err := p.attempt(ctx, ep, op)
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !retryable(err) {
				return err
			}

			ep.failures.Add(1)
			lastErr = err
			lastRateLimited = isRateLimited(err)

			p.log.Warn("rpc attempt failed",
				zap.Int64("chain", chainID),
				zap.String("endpoint", ep.url),
				zap.Int("attempt", attempt+1),
				zap.Bool("rate_limited", lastRateLimited),
				zap.Error(err),
			)

			// Connection-level trouble: force a re-dial next attempt.
			ep.drop()

			if attempt == p.retries-1 {
				break // no point sleeping before rotating
			}
			if err := p.sleep(ctx, p.backoff(attempt, lastRateLimited)); err != nil {
				return err
			}
		}
	}

	e := relayerr.Wrap(relayerr.KindRpcUnavailable, lastErr,
		"all %d endpoints exhausted for chain %d", len(eps), chainID)
	if lastRateLimited {
		// Exhaustion on rate limits gets a retry hint; the HTTP layer
		// turns that into a 429 instead of a 503.
		e.RetryAfter = p.backoff(p.retries, true)
	}
	return e
}

func (p *Pool) attempt(ctx context.Context, ep *endpoint, op Op) error {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	eth, err := ep.dial(callCtx)
	if err != nil {
		return err
	}
	ep.lastUsed.Store(time.Now().Unix())
	return op(callCtx, eth)
}

// backoff returns exponential-with-jitter for rate limits, short linear
// otherwise.
func (p *Pool) backoff(attempt int, rateLimited bool) time.Duration {
	if rateLimited {
		d := p.backoffBase << uint(attempt)
		jitter := time.Duration(rand.Int63n(int64(p.backoffBase)))
		return d + jitter
	}
	return p.backoffBase / 2 * time.Duration(attempt+1)
}

// Failures reports the rolling failure count per endpoint URL for chainID.
// Observability only; counters never exclude an endpoint.
func (p *Pool) Failures(chainID int64) map[string]int64 {
	out := map[string]int64{}
	for _, ep := range p.chains[chainID] {
		out[ep.url] = ep.failures.Load()
	}
	return out
}

// Chains lists the configured chain IDs.
func (p *Pool) Chains() []int64 {
	ids := make([]int64, 0, len(p.chains))
	for id := range p.chains {
		ids = append(ids, id)
	}
	return ids
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var rateLimitMarkers = []string{
	"429",
	"too many requests",
	"rate limit",
	"rate-limit",
	"exceeded the quota",
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
	"eof",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"deadline exceeded",
}

// retryable reports whether err is worth another attempt. Malformed calls and
// execution errors surface immediately; only rate limits and transport-level
// trouble consume retry budget.
func retryable(err error) bool {
	if isRateLimited(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
