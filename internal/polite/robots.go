package polite

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate fetches, caches, and evaluates robots.txt rules per
// storefront origin.
type RobotsGate struct {
	rules   map[string]*robotstxt.RobotsData
	expiry  map[string]time.Time
	mu      sync.RWMutex
	client  *http.Client
	ttl     time.Duration
	enabled bool
}

func NewRobotsGate(client *http.Client, enabled bool) *RobotsGate {
	return &RobotsGate{
		rules:   make(map[string]*robotstxt.RobotsData),
		expiry:  make(map[string]time.Time),
		client:  client,
		ttl:     time.Hour,
		enabled: enabled,
	}
}

// Allowed reports whether rawURL may be fetched under the origin's
// robots rules. A robots.txt that cannot be fetched permits the
// request; only an explicit disallow blocks it.
func (g *RobotsGate) Allowed(userAgent, rawURL string) (bool, error) {
	if !g.enabled {
		return true, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, err
	}
	origin := u.Scheme + "://" + u.Host
	data, err := g.fetch(origin)
	if err != nil {
		return true, nil
	}
	return data.FindGroup(userAgent).Test(u.Path), nil
}

// CrawlDelay returns the crawl-delay the origin declares for the
// user agent, or zero.
func (g *RobotsGate) CrawlDelay(userAgent, origin string) time.Duration {
	if !g.enabled {
		return 0
	}
	data, err := g.fetch(origin)
	if err != nil {
		return 0
	}
	return data.FindGroup(userAgent).CrawlDelay
}

func (g *RobotsGate) fetch(origin string) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.rules[origin]
	exp, expOK := g.expiry[origin]
	g.mu.RUnlock()
	if ok && expOK && time.Now().Before(exp) {
		return data, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if data, ok := g.rules[origin]; ok {
		if exp, ok := g.expiry[origin]; ok && time.Now().Before(exp) {
			return data, nil
		}
	}

	resp, err := g.client.Get(origin + "/robots.txt")
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	data, err = robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.rules[origin] = data
	g.expiry[origin] = time.Now().Add(g.ttl)
	return data, nil
}
