package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// volatileParams lists query parameter names that change between two
// semantically identical requests and must not affect the fingerprint.
// Load-bearing parameters (q, search, page, ...) are never stripped.
var volatileParams = map[string]bool{
	"timestamp": true,
	"ts":        true,
	"_":         true,
	"nonce":     true,
	"cachebust": true,
	"cb":        true,
	"rand":      true,
	"random":    true,
	"sid":       true,
}

// fingerprintHeaders are the request headers that change response
// semantics and therefore participate in the hash.
var fingerprintHeaders = []string{"Accept", "Content-Type", "Authorization"}

// Fingerprint computes a deterministic content-addressed hash over the
// semantically relevant parts of a request: method, normalized URL
// (query keys sorted, volatile parameters removed), the response-
// shaping headers and the body. Two requests differing only in
// volatile fields hash identically.
func Fingerprint(method, rawURL string, header http.Header, body []byte) string {
	h := sha256.New()
	h.Write([]byte(strings.ToUpper(method)))
	h.Write([]byte{0})
	h.Write([]byte(normalizeURL(rawURL)))
	h.Write([]byte{0})

	for _, name := range fingerprintHeaders {
		if v := header.Get(name); v != "" {
			h.Write([]byte(name))
			h.Write([]byte(":"))
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
	}

	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	for name := range q {
		if volatileParams[strings.ToLower(name)] {
			q.Del(name)
		}
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(strings.ToLower(u.Host))
	b.WriteString(u.Path)
	for _, k := range keys {
		vals := q[k]
		sort.Strings(vals)
		for _, v := range vals {
			b.WriteString("&")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
		}
	}
	return b.String()
}
