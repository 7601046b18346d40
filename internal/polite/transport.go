// Package polite implements client-side etiquette for talking to
// supplier storefronts: robots.txt compliance, per-host rate
// limiting, randomized pacing, browser identities, and optional proxy
// rotation. It is wired in as an http.RoundTripper so every request
// made through the shared client goes through the same pipeline.
package polite

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// Transport applies the etiquette pipeline to each request:
// identity headers, robots.txt check, per-host rate limit, pacing
// delay, then the proxied or direct send.
type Transport struct {
	Base       http.RoundTripper
	Robots     *RobotsGate
	Identities *IdentityPool
	Proxies    *ProxyRotator
	Pacer      *Pacer

	// PerHostRate limits requests per second against any single
	// storefront; zero disables the limiter.
	PerHostRate  rate.Limit
	PerHostBurst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var ua string
	if t.Identities != nil {
		id := t.Identities.Next()
		ua = id.UserAgent
		req.Header.Set("User-Agent", ua)
		for key, vals := range id.Headers {
			if req.Header.Get(key) == "" {
				for _, v := range vals {
					req.Header.Add(key, v)
				}
			}
		}
	} else {
		ua = req.Header.Get("User-Agent")
	}

	if t.Robots != nil {
		allowed, err := t.Robots.Allowed(ua, req.URL.String())
		if err == nil && !allowed {
			return nil, fmt.Errorf("blocked by robots.txt: %s%s", req.URL.Host, req.URL.Path)
		}
	}

	if lim := t.hostLimiter(req.URL.Host); lim != nil {
		if err := lim.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if t.Pacer != nil {
		if err := t.Pacer.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("pacing: %w", err)
		}
	}

	transport := t.Base
	if t.Proxies != nil {
		transport = t.Proxies.Next().Transport()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}

// hostLimiter returns the limiter for one storefront host, creating
// it on first use. Limiting per host rather than globally lets a slow
// supplier throttle itself without starving the others.
func (t *Transport) hostLimiter(host string) *rate.Limiter {
	if t.PerHostRate <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limiters == nil {
		t.limiters = make(map[string]*rate.Limiter)
	}
	lim, ok := t.limiters[host]
	if !ok {
		burst := t.PerHostBurst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(t.PerHostRate, burst)
		t.limiters[host] = lim
	}
	return lim
}
