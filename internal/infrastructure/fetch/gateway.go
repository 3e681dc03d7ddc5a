package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// Limiter enforces the process-wide politeness discipline: at most
// MaxConcurrent requests in flight, and successive request starts spaced
// by at least MinInterval even when concurrency is low.
type Limiter struct {
	spacing *rate.Limiter
	slots   chan struct{}
}

// NewLimiter builds a limiter with the given concurrency bound and
// minimum spacing between request starts.
func NewLimiter(maxConcurrent int, minInterval time.Duration) *Limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Limiter{
		spacing: rate.NewLimiter(rate.Every(minInterval), 1),
		slots:   make(chan struct{}, maxConcurrent),
	}
}

// Acquire blocks until a concurrency slot is free and the spacing window
// has elapsed. Release must be called once the request finishes.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := l.spacing.Wait(ctx); err != nil {
		<-l.slots
		return err
	}
	return nil
}

func (l *Limiter) Release() {
	<-l.slots
}

// Config holds the gateway's fixed request parameters.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	RespectRobots  bool
}

// Gateway is the single funnel for all outbound page retrieval. Every
// request shares one limiter, carries fixed identification headers, and is
// bounded by a per-request timeout. Failures are terminal for the calling
// strategy attempt: there are no retries at this layer.
type Gateway struct {
	httpClient *http.Client
	limiter    *Limiter
	config     Config

	robotsMu sync.Mutex
	robots   map[string]*robotstxt.RobotsData
}

// NewGateway creates a gateway around an injected limiter so tests and the
// orchestrator share one politeness discipline.
func NewGateway(limiter *Limiter, config Config) *Gateway {
	if config.Timeout == 0 {
		config.Timeout = 8 * time.Second
	}
	return &Gateway{
		httpClient: &http.Client{},
		limiter:    limiter,
		config:     config,
		robots:     make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch retrieves the markup at url. Non-2xx status, network errors and
// timeouts all come back as a wrapped domain.ErrFetchFailed.
func (g *Gateway) Fetch(ctx context.Context, rawURL string) (string, error) {
	if g.config.RespectRobots {
		if allowed := g.robotsAllow(ctx, rawURL); !allowed {
			return "", fmt.Errorf("%w: %s", domain.ErrRobotsDisallowed, rawURL)
		}
	}

	if err := g.limiter.Acquire(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer g.limiter.Release()

	return g.get(ctx, rawURL)
}

func (g *Gateway) get(ctx context.Context, rawURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", g.config.UserAgent)
	req.Header.Set("Accept-Language", g.config.AcceptLanguage)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	return string(body), nil
}

// robotsAllow checks the host's robots.txt for the gateway's user agent.
// The robots file is fetched once per host and cached for the gateway's
// lifetime; any failure to obtain or parse it fails open.
func (g *Gateway) robotsAllow(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := u.Scheme + "://" + u.Host

	g.robotsMu.Lock()
	data, ok := g.robots[host]
	g.robotsMu.Unlock()

	if !ok {
		data = g.fetchRobots(ctx, host)
		g.robotsMu.Lock()
		g.robots[host] = data
		g.robotsMu.Unlock()
	}
	if data == nil {
		return true
	}
	return data.TestAgent(u.Path, g.config.UserAgent)
}

func (g *Gateway) fetchRobots(ctx context.Context, host string) *robotstxt.RobotsData {
	body, err := g.get(ctx, host+"/robots.txt")
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromString(body)
	if err != nil {
		return nil
	}
	return data
}
