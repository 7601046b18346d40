package polite

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
)

// ProxyProvider abstracts a proxy backend.
type ProxyProvider interface {
	Transport() http.RoundTripper
	Name() string
}

// ProxyRotator cycles through proxy providers round-robin. A nil
// rotator means direct connections.
type ProxyRotator struct {
	providers []ProxyProvider
	mu        sync.Mutex
	idx       int
}

// NewProxyRotator returns nil when no providers are given.
func NewProxyRotator(providers []ProxyProvider) *ProxyRotator {
	if len(providers) == 0 {
		return nil
	}
	return &ProxyRotator{providers: providers}
}

func (p *ProxyRotator) Next() ProxyProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	provider := p.providers[p.idx%len(p.providers)]
	p.idx++
	return provider
}

// DirectProvider routes traffic without a proxy.
type DirectProvider struct {
	transport http.RoundTripper
}

func (d *DirectProvider) Transport() http.RoundTripper { return d.transport }
func (d *DirectProvider) Name() string                 { return "direct" }

// URLProvider wraps a single HTTP or SOCKS5 proxy URL.
type URLProvider struct {
	RawURL    string
	Label     string
	transport http.RoundTripper
	once      sync.Once
	parseErr  error
}

func (u *URLProvider) Name() string { return u.Label }

func (u *URLProvider) Transport() http.RoundTripper {
	u.once.Do(func() {
		proxyURL, err := url.Parse(u.RawURL)
		if err != nil {
			u.parseErr = err
			u.transport = http.DefaultTransport
			return
		}
		u.transport = &http.Transport{
			Proxy:             http.ProxyURL(proxyURL),
			DisableKeepAlives: true,
		}
	})
	return u.transport
}

// Err returns any error from parsing the proxy URL. Valid only after
// Transport() has run at least once.
func (u *URLProvider) Err() error {
	u.once.Do(func() {})
	return u.parseErr
}

// LoadProxyFile reads one proxy URL per line, skipping blanks and
// lines starting with '#'.
func LoadProxyFile(path string) ([]ProxyProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	var providers []ProxyProvider
	sc := bufio.NewScanner(f)
	for i := 1; sc.Scan(); i++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		providers = append(providers, &URLProvider{
			RawURL: line,
			Label:  fmt.Sprintf("proxy-%d", i),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}
	return providers, nil
}
